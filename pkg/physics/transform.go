// pkg/physics/transform.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// Transform is a world location plus orientation. Scale is always one.
type Transform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates a transform from a location and rotator.
func NewTransform(location mgl64.Vec3, rotation Rotator) Transform {
	return Transform{Location: location, Rotation: rotation.Quat()}
}

// IdentityTransform returns a transform at the origin facing +X.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// Forward returns the body X axis in world space.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(ForwardVector)
}

// Left returns the body Y axis in world space.
func (t Transform) Left() mgl64.Vec3 {
	return t.Rotation.Rotate(LeftVector)
}

// Right returns the negated body Y axis in world space.
func (t Transform) Right() mgl64.Vec3 {
	return t.Left().Mul(-1)
}

// Up returns the body Z axis in world space.
func (t Transform) Up() mgl64.Vec3 {
	return t.Rotation.Rotate(UpVector)
}

// Rotator returns the orientation as Euler angles.
func (t Transform) Rotator() Rotator {
	return RotatorFromQuat(t.Rotation)
}

// RotateVector takes a body-space direction into world space.
func (t Transform) RotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(v)
}

// InverseRotateVector takes a world-space direction into body space.
func (t Transform) InverseRotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}

// TransformPosition takes a body-space point into world space.
func (t Transform) TransformPosition(p mgl64.Vec3) mgl64.Vec3 {
	return t.Location.Add(t.RotateVector(p))
}

// InverseTransformPosition takes a world-space point into body space.
func (t Transform) InverseTransformPosition(p mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotateVector(p.Sub(t.Location))
}
