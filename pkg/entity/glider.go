// pkg/entity/glider.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// liftDebugScale shortens the lift debug line to a readable length.
const liftDebugScale = 0.01

// GliderConfig tunes an unpowered glider
type GliderConfig struct {
	Camera     flight.CameraRigConfig
	Autopilot  flight.Autopilot
	TurnTorque mgl64.Vec3
	Speed      flight.SpeedModel
	Lift       flight.LiftModel
	AirControl flight.AirControl
	StartSpeed float64
}

// DefaultGliderConfig returns the stock glider tuning
func DefaultGliderConfig() GliderConfig {
	return GliderConfig{
		Camera:     flight.DefaultCameraRigConfig(),
		Autopilot:  flight.DefaultAutopilot(),
		TurnTorque: mgl64.Vec3{45, 25, 45},
		Speed:      flight.DefaultSpeedModel(),
		Lift:       flight.DefaultLiftModel(),
		StartSpeed: 3000,
	}
}

// GliderPawn has no engine. It gains speed diving, loses it climbing and
// banking, and gets lift while the nose is pulled up.
type GliderPawn struct {
	BasePawn
	StartSpeed float64
	AirControl flight.AirControl

	speed      flight.SpeedModel
	lift       flight.LiftModel
	liftForce  float64
	airControl float64
}

// NewGliderPawn creates a glider driving body
func NewGliderPawn(id ID, body physics.RigidBody, cfg GliderConfig) *GliderPawn {
	return &GliderPawn{
		BasePawn:   newBasePawn(id, KindGlider, body, cfg.Camera, cfg.Autopilot, cfg.TurnTorque),
		StartSpeed: cfg.StartSpeed,
		AirControl: cfg.AirControl,
		speed:      cfg.Speed,
		lift:       cfg.Lift,
		airControl: 1,
	}
}

// BeginPlay launches the glider at its start speed.
func (p *GliderPawn) BeginPlay() {
	rotation := p.CurrentRotation()
	p.rig.Reset(rotation)
	p.lift.Reset(rotation.Pitch)
	p.AddSpeed(p.StartSpeed)
}

// AddSpeed changes the forward speed within the glider's limits.
func (p *GliderPawn) AddSpeed(delta float64) float64 {
	return p.speed.AddSpeed(delta)
}

// ForwardSpeed returns the speed the glider is pushed forward with.
func (p *GliderPawn) ForwardSpeed() float64 {
	return p.speed.Speed()
}

// Tick runs the speed model, steers toward the camera's aim and applies
// lift and forward force.
func (p *GliderPawn) Tick(deltaTime float64) {
	transform := p.body.Transform()
	rotation := transform.Rotator()
	p.speed.Update(transform.Forward().Z(), rotation.Roll, deltaTime)

	controls := p.steer(deltaTime)
	p.airControl = p.AirControl.Factor(p.speed.Speed())
	p.applyTorque(controls.Scale(p.airControl))

	forwardSpeed := p.speed.Speed()
	p.liftForce = p.lift.Lift(rotation.Pitch, forwardSpeed)

	// World up, so a banked glider does not strafe.
	lift := physics.UpVector.Mul(p.liftForce)
	p.body.AddForce(lift.Add(transform.Forward().Mul(forwardSpeed)), false)

	start := transform.Location
	p.addDebugLine(NewDebugLine(start, start.Add(lift.Mul(liftDebugScale)), ColorGreen))
}

// Telemetry returns the glider's flight state
func (p *GliderPawn) Telemetry() Telemetry {
	t := p.baseTelemetry()
	t.ForwardSpeed = p.speed.Speed()
	t.Lift = p.liftForce
	t.AirControl = p.airControl
	return t
}
