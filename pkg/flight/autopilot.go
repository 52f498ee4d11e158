// Package flight holds the per-frame flight logic shared by every pawn:
// the autopilot that turns an aim point into control inputs, the camera rig
// that produces the aim point from mouse input and the glider speed and
// lift models.
package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// Controls are normalized control surface inputs in [-1, 1].
type Controls struct {
	Yaw   float64
	Pitch float64
	Roll  float64
}

// Torque maps the inputs onto a body-space torque. X is roll, Y is pitch and
// Z is yaw.
func (c Controls) Torque(turnTorque mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		c.Roll * turnTorque.X(),
		c.Pitch * turnTorque.Y(),
		c.Yaw * turnTorque.Z(),
	}
}

// Scale returns the inputs multiplied by factor.
func (c Controls) Scale(factor float64) Controls {
	return Controls{Yaw: c.Yaw * factor, Pitch: c.Pitch * factor, Roll: c.Roll * factor}
}

// Autopilot steers a pawn toward a world-space fly target.
type Autopilot struct {
	// TurnAngleSensitivity scales the local target direction before clamping.
	TurnAngleSensitivity float64
	// AggressiveTurnAngle is the angle off target, in degrees, at which roll
	// fully switches from wings-level to banking into the turn.
	AggressiveTurnAngle float64
}

// DefaultAutopilot returns the stock steering tuning.
func DefaultAutopilot() Autopilot {
	return Autopilot{
		TurnAngleSensitivity: 1.0,
		AggressiveTurnAngle:  10.0,
	}
}

// Run computes control inputs that turn the pawn at transform toward flyTarget.
func (a Autopilot) Run(transform physics.Transform, flyTarget mgl64.Vec3) Controls {
	local := physics.SafeNormal(transform.InverseTransformPosition(flyTarget)).Mul(a.TurnAngleSensitivity)

	controls := Controls{
		Pitch: -physics.Clamp(local.Z(), -1, 1),
		Yaw:   physics.Clamp(local.Y(), -1, 1),
	}

	aggressiveRoll := physics.Clamp(local.Y(), -1, 1)
	wingsLevelRoll := transform.Left().Z()

	blend := physics.Clamp(a.blendFactor(AngleOffTarget(transform, flyTarget)), 0, 1)
	controls.Roll = -physics.Lerp(wingsLevelRoll, aggressiveRoll, blend)

	return controls
}

func (a Autopilot) blendFactor(angleOff float64) float64 {
	if a.AggressiveTurnAngle <= 0 {
		if angleOff > 0 {
			return 1
		}
		return 0
	}
	return angleOff / a.AggressiveTurnAngle
}

// AngleOffTarget returns the angle in degrees between the pawn's nose and
// the direction to target.
func AngleOffTarget(transform physics.Transform, target mgl64.Vec3) float64 {
	toTarget := physics.SafeNormal(target.Sub(transform.Location))
	if toTarget == (mgl64.Vec3{}) {
		return 0
	}
	dot := physics.Clamp(transform.Forward().Dot(toTarget), -1, 1)
	return mgl64.RadToDeg(math.Acos(dot))
}
