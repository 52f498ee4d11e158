// pkg/physics/body.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody is the physics object a pawn steers. A host engine provides its
// own implementation; Body is the built-in one used for headless runs.
type RigidBody interface {
	Transform() Transform
	LinearVelocity() mgl64.Vec3
	// AddForce applies a world-space force for the next step. With
	// accelChange the value is an acceleration and mass is ignored.
	AddForce(force mgl64.Vec3, accelChange bool)
	// AddTorqueInRadians applies a world-space torque for the next step.
	// With accelChange the value is an angular acceleration and inertia is ignored.
	AddTorqueInRadians(torque mgl64.Vec3, accelChange bool)
}

// BodyConfig holds the tunable properties of a Body
type BodyConfig struct {
	Mass           float64
	Inertia        float64
	LinearDamping  float64
	AngularDamping float64
	EnableGravity  bool
	Gravity        float64 // acceleration along world Z, negative is down
}

// DefaultBodyConfig returns the damping used by the flight pawns: slight
// linear drag against overspeed and strong angular damping for stability.
func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		Mass:           100,
		Inertia:        100,
		LinearDamping:  0.7,
		AngularDamping: 5.0,
		EnableGravity:  false,
		Gravity:        -980,
	}
}

// Body integrates applied forces and torques with semi-implicit Euler.
type Body struct {
	Config BodyConfig

	transform       Transform
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3 // world space, rad/s

	linearAccel  mgl64.Vec3
	angularAccel mgl64.Vec3
}

// NewBody creates a body at rest with the given transform.
func NewBody(cfg BodyConfig, transform Transform) *Body {
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	if cfg.Inertia <= 0 {
		cfg.Inertia = 1
	}
	if transform.Rotation.Len() == 0 {
		transform.Rotation = mgl64.QuatIdent()
	}
	return &Body{Config: cfg, transform: transform}
}

// Transform implements RigidBody
func (b *Body) Transform() Transform {
	return b.transform
}

// SetTransform teleports the body without touching its velocity.
func (b *Body) SetTransform(t Transform) {
	b.transform = t
}

// LinearVelocity implements RigidBody
func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.velocity
}

// SetLinearVelocity overrides the current velocity.
func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.velocity = v
}

// AngularVelocity returns the world-space angular velocity in rad/s.
func (b *Body) AngularVelocity() mgl64.Vec3 {
	return b.angularVelocity
}

// SetAngularVelocity overrides the current angular velocity.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	b.angularVelocity = w
}

// AddForce implements RigidBody
func (b *Body) AddForce(force mgl64.Vec3, accelChange bool) {
	if !isFinite(force) {
		return
	}
	if !accelChange {
		force = force.Mul(1 / b.Config.Mass)
	}
	b.linearAccel = b.linearAccel.Add(force)
}

// AddTorqueInRadians implements RigidBody
func (b *Body) AddTorqueInRadians(torque mgl64.Vec3, accelChange bool) {
	if !isFinite(torque) {
		return
	}
	if !accelChange {
		torque = torque.Mul(1 / b.Config.Inertia)
	}
	b.angularAccel = b.angularAccel.Add(torque)
}

// Step advances the body by deltaTime seconds and clears accumulated input.
func (b *Body) Step(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	accel := b.linearAccel
	if b.Config.EnableGravity {
		accel = accel.Add(mgl64.Vec3{0, 0, b.Config.Gravity})
	}

	b.velocity = b.velocity.Add(accel.Mul(deltaTime))
	b.velocity = b.velocity.Mul(1 / (1 + deltaTime*b.Config.LinearDamping))

	b.angularVelocity = b.angularVelocity.Add(b.angularAccel.Mul(deltaTime))
	b.angularVelocity = b.angularVelocity.Mul(1 / (1 + deltaTime*b.Config.AngularDamping))

	b.transform.Location = b.transform.Location.Add(b.velocity.Mul(deltaTime))

	if rate := b.angularVelocity.Len(); rate > 0 {
		spin := mgl64.QuatRotate(rate*deltaTime, b.angularVelocity.Mul(1/rate))
		b.transform.Rotation = spin.Mul(b.transform.Rotation).Normalize()
	}

	b.linearAccel = mgl64.Vec3{}
	b.angularAccel = mgl64.Vec3{}
}

// Speed returns the magnitude of the linear velocity.
func (b *Body) Speed() float64 {
	return b.velocity.Len()
}

// ForwardSpeed returns the velocity component along the body's nose.
func (b *Body) ForwardSpeed() float64 {
	return b.velocity.Dot(b.transform.Forward())
}

// isFinite reports whether every component of v is a real number.
func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
