// Package scenario runs scripted mouse input against a headless world so
// that flight tuning can be compared run to run.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
	"github.com/opd-ai/go-flyreborn/pkg/validation"
)

// Vector is a plain xyz triple
type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vector) toVec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Rotation is a pitch, yaw and roll in degrees
type Rotation struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

// Rotator converts to the physics rotator.
func (r Rotation) Rotator() physics.Rotator {
	return physics.Rotator{Pitch: r.Pitch, Yaw: r.Yaw, Roll: r.Roll}
}

// Start is where the pawn spawns
type Start struct {
	Location Vector   `yaml:"location"`
	Rotation Rotation `yaml:"rotation"`
}

// Input holds mouse axis values for Hold seconds starting at At. Values are
// applied every tick while the segment is active.
type Input struct {
	At     float64 `yaml:"at"`
	Hold   float64 `yaml:"hold"`
	Turn   float64 `yaml:"turn"`
	LookUp float64 `yaml:"lookUp"`
}

// Active reports whether the segment covers time t.
func (in Input) Active(t float64) bool {
	return t >= in.At && t < in.At+in.Hold
}

// Scenario is a scripted flight
type Scenario struct {
	Name     string  `yaml:"name"`
	Pawn     string  `yaml:"pawn"`
	Duration float64 `yaml:"duration"`
	// TickRate overrides the simulation tick rate when set.
	TickRate int     `yaml:"tickRate"`
	Start    Start   `yaml:"start"`
	Inputs   []Input `yaml:"inputs"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	if err := validation.ValidateScenarioSize(data); err != nil {
		return nil, err
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Name, _ = validation.ValidateName(s.Name)
	s.Pawn = string(s.Kind())
	return &s, nil
}

// Validate reports every problem with the scenario
func (s *Scenario) Validate() error {
	var check validation.Checker

	if _, err := validation.ValidateName(s.Name); err != nil {
		check.Add(err)
	}
	if _, err := entity.PawnKindFromString(s.Pawn); err != nil {
		check.Add(err)
	}
	check.Positive("duration", s.Duration)
	if s.TickRate != 0 {
		check.Add(validation.ValidateTickRate(s.TickRate))
	}
	check.Finite("start.location.x", s.Start.Location.X)
	check.Finite("start.location.y", s.Start.Location.Y)
	check.Finite("start.location.z", s.Start.Location.Z)
	check.Finite("start.rotation.pitch", s.Start.Rotation.Pitch)
	check.Finite("start.rotation.yaw", s.Start.Rotation.Yaw)
	check.Finite("start.rotation.roll", s.Start.Rotation.Roll)

	for i, in := range s.Inputs {
		check.NonNegative(fmt.Sprintf("inputs[%d].at", i), in.At)
		check.Positive(fmt.Sprintf("inputs[%d].hold", i), in.Hold)
		check.Finite(fmt.Sprintf("inputs[%d].turn", i), in.Turn)
		check.Finite(fmt.Sprintf("inputs[%d].lookUp", i), in.LookUp)
	}

	return check.Err()
}

// Kind returns the pawn kind to spawn, or "" when Pawn names none.
func (s *Scenario) Kind() entity.PawnKind {
	kind, _ := entity.PawnKindFromString(s.Pawn)
	return kind
}

// InputAt sums the turn and look-up values of every segment active at t.
func (s *Scenario) InputAt(t float64) (turn, lookUp float64) {
	for _, in := range s.Inputs {
		if in.Active(t) {
			turn += in.Turn
			lookUp += in.LookUp
		}
	}
	return turn, lookUp
}
