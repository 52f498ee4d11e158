// pkg/flight/camera.go
package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// CameraRigConfig holds the spring arm and mouse tuning.
type CameraRigConfig struct {
	ArmLength        float64
	MouseSensitivity float64
	MinPitch         float64
	MaxPitch         float64
	AimDistance      float64
	EnableLag        bool
	LagSpeed         float64
	FieldOfView      float64 // horizontal, degrees
}

// DefaultCameraRigConfig returns the stock spring arm: 300 units behind the
// pawn with lag, pitch limited to straight up or down.
func DefaultCameraRigConfig() CameraRigConfig {
	return CameraRigConfig{
		ArmLength:        300,
		MouseSensitivity: 1.0,
		MinPitch:         -90,
		MaxPitch:         90,
		AimDistance:      1000,
		EnableLag:        true,
		LagSpeed:         10,
		FieldOfView:      90,
	}
}

// CameraRig is a spring arm that orbits the pawn independently of its
// orientation. Mouse input rotates the arm; the arm's forward direction is
// where the pawn is asked to fly.
type CameraRig struct {
	Config CameraRigConfig

	yaw   float64
	pitch float64

	location    mgl64.Vec3
	hasLocation bool
}

// NewCameraRig creates a rig looking along the given rotation.
func NewCameraRig(cfg CameraRigConfig, initial physics.Rotator) *CameraRig {
	return &CameraRig{
		Config: cfg,
		yaw:    initial.Yaw,
		pitch:  initial.Pitch,
	}
}

// Reset points the arm along rotation, ignoring roll, and makes the next
// Update snap the camera into place.
func (r *CameraRig) Reset(rotation physics.Rotator) {
	r.yaw = rotation.Yaw
	r.pitch = rotation.Pitch
	r.hasLocation = false
}

// Turn adds horizontal mouse movement.
func (r *CameraRig) Turn(value float64) {
	r.yaw += value * r.Config.MouseSensitivity
}

// LookUp adds vertical mouse movement.
func (r *CameraRig) LookUp(value float64) {
	r.pitch += value * r.Config.MouseSensitivity
}

// Update clamps the accumulated pitch and moves the camera to the end of
// the arm behind pivot.
func (r *CameraRig) Update(pivot mgl64.Vec3, deltaTime float64) {
	r.pitch = physics.Clamp(r.pitch, r.Config.MinPitch, r.Config.MaxPitch)

	desired := pivot.Sub(r.Forward().Mul(r.Config.ArmLength))
	if r.Config.EnableLag && r.hasLocation {
		r.location = physics.InterpTo(r.location, desired, deltaTime, r.Config.LagSpeed)
	} else {
		r.location = desired
	}
	r.hasLocation = true
}

// Rotation returns the arm's world rotation. The arm never rolls.
func (r *CameraRig) Rotation() physics.Rotator {
	return physics.Rotator{Pitch: r.pitch, Yaw: r.yaw}
}

// Forward returns the camera's forward direction.
func (r *CameraRig) Forward() mgl64.Vec3 {
	return r.Rotation().Vector()
}

// Location returns the camera location computed by the last Update.
func (r *CameraRig) Location() mgl64.Vec3 {
	return r.location
}

// FlyTarget returns the point the pawn at from should steer toward.
func (r *CameraRig) FlyTarget(from mgl64.Vec3) mgl64.Vec3 {
	return from.Add(r.Forward().Mul(r.Config.AimDistance))
}

// View returns the camera for projecting world points to the screen.
func (r *CameraRig) View() Camera {
	return Camera{
		Transform:   physics.NewTransform(r.location, r.Rotation()),
		FieldOfView: r.Config.FieldOfView,
	}
}

// nearPlane is the minimum forward distance for a projectable point.
const nearPlane = 1.0

// Camera is a pinhole view used to place HUD elements.
type Camera struct {
	Transform   physics.Transform
	FieldOfView float64
}

// WorldToScreen projects p onto a width x height viewport with the origin at
// the top-left. It returns false when p is behind the camera.
func (c Camera) WorldToScreen(p mgl64.Vec3, width, height float64) (physics.Vector2D, bool) {
	local := c.Transform.InverseTransformPosition(p)
	if local.X() < nearPlane {
		return physics.Vector2D{}, false
	}

	fov := c.FieldOfView
	if fov <= 0 || fov >= 180 {
		fov = 90
	}
	focal := (width / 2) / math.Tan(mgl64.DegToRad(fov)/2)

	return physics.Vector2D{
		X: width/2 - local.Y()/local.X()*focal,
		Y: height/2 - local.Z()/local.X()*focal,
	}, true
}
