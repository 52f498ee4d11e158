package tuning

import (
	"fmt"
	"sort"

	"github.com/opd-ai/go-flyreborn/pkg/config"
)

// Setter writes one tuning value into a configuration
type Setter func(cfg *config.FlightConfig, v float64)

// params maps config keys to the value they sweep. Keys match the config
// file's.
var params = map[string]Setter{
	"glider.startSpeed":              func(c *config.FlightConfig, v float64) { c.Glider.StartSpeed = v },
	"glider.minimumSpeed":            func(c *config.FlightConfig, v float64) { c.Glider.MinimumSpeed = v },
	"glider.maximumSpeed":            func(c *config.FlightConfig, v float64) { c.Glider.MaximumSpeed = v },
	"glider.diveSpeedIncreaseScalar": func(c *config.FlightConfig, v float64) { c.Glider.DiveSpeedIncreaseScalar = v },
	"glider.riseSpeedDecreaseScalar": func(c *config.FlightConfig, v float64) { c.Glider.RiseSpeedDecreaseScalar = v },
	"glider.bankLossStartAngle":      func(c *config.FlightConfig, v float64) { c.Glider.BankLossStartAngle = v },
	"glider.bankLossFullAngle":       func(c *config.FlightConfig, v float64) { c.Glider.BankLossFullAngle = v },
	"glider.maxTurnSpeedLossFactor":  func(c *config.FlightConfig, v float64) { c.Glider.MaxTurnSpeedLossFactor = v },
	"glider.liftPitchScalar":         func(c *config.FlightConfig, v float64) { c.Glider.LiftPitchScalar = v },
	"glider.liftScalar":              func(c *config.FlightConfig, v float64) { c.Glider.LiftScalar = v },
	"glider.fullControlSpeed":        func(c *config.FlightConfig, v float64) { c.Glider.FullControlSpeed = v },
	"glider.minimumAirControl":       func(c *config.FlightConfig, v float64) { c.Glider.MinimumAirControl = v },
	"autopilot.turnAngleSensitivity": func(c *config.FlightConfig, v float64) { c.Autopilot.TurnAngleSensitivity = v },
	"autopilot.aggressiveTurnAngle":  func(c *config.FlightConfig, v float64) { c.Autopilot.AggressiveTurnAngle = v },
	"flying.thrustForce":             func(c *config.FlightConfig, v float64) { c.Flying.ThrustForce = v },
	"body.mass":                      func(c *config.FlightConfig, v float64) { c.Body.Mass = v },
	"body.linearDamping":             func(c *config.FlightConfig, v float64) { c.Body.LinearDamping = v },
	"body.angularDamping":            func(c *config.FlightConfig, v float64) { c.Body.AngularDamping = v },
	"camera.mouseSensitivity":        func(c *config.FlightConfig, v float64) { c.Camera.MouseSensitivity = v },
}

// ParamVariants builds a sweep over the named config key.
func ParamVariants(key string, values []float64) ([]Variant, error) {
	set, ok := params[key]
	if !ok {
		return nil, fmt.Errorf("cannot sweep %q (known: %v)", key, ParamNames())
	}
	return Param(key, values, set), nil
}

// ParamNames lists the sweepable config keys in order
func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
