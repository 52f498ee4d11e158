// pkg/physics/collision.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// Sphere represents a spherical collision shape
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Collides checks if two spheres overlap
func (s Sphere) Collides(other Sphere) bool {
	return s.Center.Sub(other.Center).Len() < s.Radius+other.Radius
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       mgl64.Vec3
	Penetration  float64
	ContactPoint mgl64.Vec3
}

// Ground is an infinite horizontal plane at the given height.
type Ground struct {
	Height float64
}

// Check tests a sphere against the ground plane.
func (g Ground) Check(s Sphere) CollisionResult {
	bottom := s.Center.Z() - s.Radius
	if bottom >= g.Height {
		return CollisionResult{Collided: false}
	}

	return CollisionResult{
		Collided:     true,
		Normal:       UpVector,
		Penetration:  g.Height - bottom,
		ContactPoint: mgl64.Vec3{s.Center.X(), s.Center.Y(), g.Height},
	}
}

// Resolve pushes the body out of the ground and removes any velocity into it.
// It reports whether the body was touching the ground.
func (g Ground) Resolve(body *Body, radius float64) bool {
	t := body.Transform()
	result := g.Check(Sphere{Center: t.Location, Radius: radius})
	if !result.Collided {
		return false
	}

	t.Location = t.Location.Add(result.Normal.Mul(result.Penetration))
	body.SetTransform(t)

	v := body.LinearVelocity()
	if into := v.Dot(result.Normal); into < 0 {
		body.SetLinearVelocity(v.Sub(result.Normal.Mul(into)))
	}
	return true
}
