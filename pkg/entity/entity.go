// pkg/entity/entity.go
package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/input"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// ID is a unique identifier for a pawn
type ID uint64

// PawnKind selects the flight model a pawn uses
type PawnKind string

const (
	KindFlying PawnKind = "flying"
	KindGlider PawnKind = "glider"
)

// ErrUnknownPawnKind is returned for a pawn kind that has no flight model.
var ErrUnknownPawnKind = errors.New("unknown pawn kind")

// PawnKindFromString parses a pawn kind, ignoring case and surrounding space.
func PawnKindFromString(s string) (PawnKind, error) {
	switch PawnKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFlying:
		return KindFlying, nil
	case KindGlider:
		return KindGlider, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPawnKind, s)
	}
}

// Pawn is a controllable aircraft driven by the world each tick
type Pawn interface {
	flight.MouseAim

	GetID() ID
	Kind() PawnKind
	BeginPlay()
	Tick(deltaTime float64)
	Body() physics.RigidBody
	Camera() *flight.CameraRig
	SetupInput(c *input.Component)
	Render(r Renderer)
	Telemetry() Telemetry
}

// Telemetry is a snapshot of a pawn's flight state after its last tick
type Telemetry struct {
	ID             ID              `json:"id"`
	Kind           PawnKind        `json:"kind"`
	Location       mgl64.Vec3      `json:"location"`
	Rotation       physics.Rotator `json:"rotation"`
	Velocity       mgl64.Vec3      `json:"velocity"`
	ForwardSpeed   float64         `json:"forwardSpeed"`
	Controls       flight.Controls `json:"controls"`
	Lift           float64         `json:"lift"`
	AirControl     float64         `json:"airControl"`
	FlyTarget      mgl64.Vec3      `json:"flyTarget"`
	AngleOffTarget float64         `json:"angleOffTarget"`
}

// Altitude returns the height of the pawn above the world origin.
func (t Telemetry) Altitude() float64 {
	return t.Location.Z()
}

// debugLineLength is how far the forward debug line reaches.
const debugLineLength = 1000.0

// BasePawn holds the state every mouse-aimed pawn shares: the body it
// steers, its camera rig and the autopilot that follows the rig.
type BasePawn struct {
	ID         ID
	Autopilot  flight.Autopilot
	TurnTorque mgl64.Vec3
	DebugDraw  bool

	kind     PawnKind
	body     physics.RigidBody
	rig      *flight.CameraRig
	desired  mgl64.Vec3
	controls flight.Controls
	lines    []DebugLine
}

func newBasePawn(id ID, kind PawnKind, body physics.RigidBody, rig flight.CameraRigConfig, ap flight.Autopilot, turnTorque mgl64.Vec3) BasePawn {
	return BasePawn{
		ID:         id,
		Autopilot:  ap,
		TurnTorque: turnTorque,
		DebugDraw:  true,
		kind:       kind,
		body:       body,
		rig:        flight.NewCameraRig(rig, physics.Rotator{}),
	}
}

// GetID returns the pawn's unique identifier
func (p *BasePawn) GetID() ID {
	return p.ID
}

// Kind returns the pawn's flight model
func (p *BasePawn) Kind() PawnKind {
	return p.kind
}

// Body returns the rigid body the pawn drives
func (p *BasePawn) Body() physics.RigidBody {
	return p.body
}

// Camera returns the pawn's spring arm
func (p *BasePawn) Camera() *flight.CameraRig {
	return p.rig
}

// TargetAimWorldLocation returns the last fly target.
func (p *BasePawn) TargetAimWorldLocation() mgl64.Vec3 {
	return p.desired
}

// CurrentDirection returns the body's forward vector.
func (p *BasePawn) CurrentDirection() mgl64.Vec3 {
	return p.body.Transform().Forward()
}

// CurrentRotation returns the body's orientation.
func (p *BasePawn) CurrentRotation() physics.Rotator {
	return p.body.Transform().Rotator()
}

// SetDesiredDirection stores the fly target. The pawn overwrites it every
// tick from the camera rig.
func (p *BasePawn) SetDesiredDirection(worldDirection mgl64.Vec3) {
	p.desired = worldDirection
}

// Controls returns the autopilot output from the last tick.
func (p *BasePawn) Controls() flight.Controls {
	return p.controls
}

// SetupInput binds the mouse axes to the camera rig.
func (p *BasePawn) SetupInput(c *input.Component) {
	c.BindAxis(input.AxisTurn, p.rig.Turn)
	c.BindAxis(input.AxisLookUp, p.rig.LookUp)
}

// Render draws the debug lines queued by the last tick.
func (p *BasePawn) Render(r Renderer) {
	for _, line := range p.lines {
		r.DrawDebugLine(line)
	}
}

// steer positions the camera, picks the fly target along the camera's
// forward vector and runs the autopilot toward it.
func (p *BasePawn) steer(deltaTime float64) flight.Controls {
	transform := p.body.Transform()
	start := transform.Location

	p.rig.Update(start, deltaTime)
	flyTarget := p.rig.FlyTarget(start)
	p.SetDesiredDirection(flyTarget)

	p.lines = p.lines[:0]
	if p.DebugDraw {
		p.lines = append(p.lines,
			NewDebugLine(start, start.Add(transform.Forward().Mul(debugLineLength)), ColorCyan),
			NewDebugLine(start, flyTarget, ColorRed),
		)
	}

	p.controls = p.Autopilot.Run(transform, flyTarget)
	return p.controls
}

// applyTorque turns controls into a world-space torque on the body.
func (p *BasePawn) applyTorque(controls flight.Controls) {
	transform := p.body.Transform()
	p.body.AddTorqueInRadians(transform.RotateVector(controls.Torque(p.TurnTorque)), true)
}

func (p *BasePawn) addDebugLine(line DebugLine) {
	if p.DebugDraw {
		p.lines = append(p.lines, line)
	}
}

func (p *BasePawn) baseTelemetry() Telemetry {
	transform := p.body.Transform()
	velocity := p.body.LinearVelocity()
	return Telemetry{
		ID:             p.ID,
		Kind:           p.kind,
		Location:       transform.Location,
		Rotation:       transform.Rotator(),
		Velocity:       velocity,
		ForwardSpeed:   velocity.Dot(transform.Forward()),
		Controls:       p.controls,
		AirControl:     1,
		FlyTarget:      p.desired,
		AngleOffTarget: flight.AngleOffTarget(transform, p.desired),
	}
}
