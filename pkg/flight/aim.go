package flight

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// MouseAim is implemented by pawns steered with a mouse reticle.
type MouseAim interface {
	// TargetAimWorldLocation returns the reticle location in the world.
	TargetAimWorldLocation() mgl64.Vec3
	// CurrentDirection returns the aircraft's nose direction.
	CurrentDirection() mgl64.Vec3
	// CurrentRotation returns the aircraft's orientation.
	CurrentRotation() physics.Rotator
	// SetDesiredDirection is called when the reticle moves.
	SetDesiredDirection(worldDirection mgl64.Vec3)
}
