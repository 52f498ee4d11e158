// pkg/entity/flying.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// FlyingConfig tunes a powered aircraft
type FlyingConfig struct {
	Camera      flight.CameraRigConfig
	Autopilot   flight.Autopilot
	TurnTorque  mgl64.Vec3
	ThrustForce float64
}

// DefaultFlyingConfig returns the stock powered aircraft tuning
func DefaultFlyingConfig() FlyingConfig {
	return FlyingConfig{
		Camera:      flight.DefaultCameraRigConfig(),
		Autopilot:   flight.DefaultAutopilot(),
		TurnTorque:  mgl64.Vec3{45, 25, 45},
		ThrustForce: 5000,
	}
}

// FlyingPawn is a powered aircraft with constant forward thrust that
// follows the camera's aim.
type FlyingPawn struct {
	BasePawn
	ThrustForce float64
}

// NewFlyingPawn creates a flying pawn driving body
func NewFlyingPawn(id ID, body physics.RigidBody, cfg FlyingConfig) *FlyingPawn {
	return &FlyingPawn{
		BasePawn:    newBasePawn(id, KindFlying, body, cfg.Camera, cfg.Autopilot, cfg.TurnTorque),
		ThrustForce: cfg.ThrustForce,
	}
}

// BeginPlay aims the camera along the spawn heading.
func (p *FlyingPawn) BeginPlay() {
	p.rig.Reset(p.CurrentRotation())
}

// Tick steers toward the camera's aim and applies thrust
func (p *FlyingPawn) Tick(deltaTime float64) {
	controls := p.steer(deltaTime)
	p.applyTorque(controls)

	p.body.AddForce(p.body.Transform().Forward().Mul(p.ThrustForce), false)
}

// Telemetry returns the pawn's flight state
func (p *FlyingPawn) Telemetry() Telemetry {
	return p.baseTelemetry()
}
