// pkg/physics/rotator.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is an orientation expressed as Euler angles in degrees.
// Positive pitch raises the nose, positive yaw turns the nose
// counter-clockwise seen from above and positive roll lowers the right wing.
type Rotator struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// Quat converts the rotator to a quaternion. Yaw is applied first, then
// pitch, then roll, each about the already rotated axes.
func (r Rotator) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), UpVector)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(-r.Pitch), LeftVector)
	roll := mgl64.QuatRotate(mgl64.DegToRad(r.Roll), ForwardVector)
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// Vector returns the unit forward direction for this rotation.
func (r Rotator) Vector() mgl64.Vec3 {
	pitch := mgl64.DegToRad(r.Pitch)
	yaw := mgl64.DegToRad(r.Yaw)
	cp := math.Cos(pitch)
	return mgl64.Vec3{cp * math.Cos(yaw), cp * math.Sin(yaw), math.Sin(pitch)}
}

// ClampPitch returns a copy with pitch limited to [min, max].
func (r Rotator) ClampPitch(min, max float64) Rotator {
	r.Pitch = Clamp(r.Pitch, min, max)
	return r
}

// RotatorFromQuat extracts Euler angles from a quaternion. Roll is measured
// as the bank of the wings around the forward axis.
func RotatorFromQuat(q mgl64.Quat) Rotator {
	forward := q.Rotate(ForwardVector)
	left := q.Rotate(LeftVector)
	up := q.Rotate(UpVector)

	return Rotator{
		Pitch: mgl64.RadToDeg(math.Asin(Clamp(forward.Z(), -1, 1))),
		Yaw:   mgl64.RadToDeg(math.Atan2(forward.Y(), forward.X())),
		Roll:  mgl64.RadToDeg(math.Atan2(left.Z(), up.Z())),
	}
}

// RotatorFromVector returns the pitch and yaw that point along dir. A zero
// vector yields the zero rotator.
func RotatorFromVector(dir mgl64.Vec3) Rotator {
	if dir.Len() == 0 {
		return Rotator{}
	}
	return Rotator{
		Pitch: mgl64.RadToDeg(math.Atan2(dir.Z(), math.Hypot(dir.X(), dir.Y()))),
		Yaw:   mgl64.RadToDeg(math.Atan2(dir.Y(), dir.X())),
	}
}
