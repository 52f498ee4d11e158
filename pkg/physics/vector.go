// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body-frame axes. X points forward, Y left and Z up.
var (
	ForwardVector = mgl64.Vec3{1, 0, 0}
	LeftVector    = mgl64.Vec3{0, 1, 0}
	UpVector      = mgl64.Vec3{0, 0, 1}
)

// smallNumber is the squared length below which a vector is treated as zero.
const smallNumber = 1e-8

// SafeNormal returns v scaled to unit length, or the zero vector when v is
// too short to normalize.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	lenSq := v.Dot(v)
	if lenSq < smallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(lenSq))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

// LerpVec interpolates linearly between two vectors.
func LerpVec(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// Clamp limits value to [low, high].
func Clamp(value, low, high float64) float64 {
	return mgl64.Clamp(value, low, high)
}

// InterpTo moves current toward target at the given speed, the way a camera
// lag or smoothed follow does. A non-positive speed snaps to the target.
func InterpTo(current, target mgl64.Vec3, dt, speed float64) mgl64.Vec3 {
	if speed <= 0 {
		return target
	}
	dist := target.Sub(current)
	if dist.Dot(dist) < smallNumber {
		return target
	}
	alpha := Clamp(dt*speed, 0, 1)
	return current.Add(dist.Mul(alpha))
}

// Vector2D is a screen-space position in pixels
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Angle returns the angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}
