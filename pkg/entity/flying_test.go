package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/input"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

func TestFlyingPawn_TickStraightAhead(t *testing.T) {
	body := newMockBody(physics.Rotator{})
	pawn := NewFlyingPawn(1, body, DefaultFlyingConfig())
	pawn.BeginPlay()
	pawn.Tick(1.0 / 60.0)

	if len(body.forces) != 1 {
		t.Fatalf("expected 1 force, got %d", len(body.forces))
	}
	if got := body.forces[0]; got.Vec != (mgl64.Vec3{5000, 0, 0}) || got.AccelChange {
		t.Errorf("thrust = %+v, want {5000 0 0} as a force", got)
	}

	if len(body.torques) != 1 {
		t.Fatalf("expected 1 torque, got %d", len(body.torques))
	}
	if !body.torques[0].AccelChange {
		t.Error("steering torque should be an acceleration change")
	}
	if !body.torques[0].Vec.ApproxEqualThreshold(mgl64.Vec3{}, 1e-9) {
		t.Errorf("torque = %v, want zero when on target", body.torques[0].Vec)
	}

	if got := pawn.TargetAimWorldLocation(); !got.ApproxEqualThreshold(mgl64.Vec3{1000, 0, 0}, 1e-9) {
		t.Errorf("fly target = %v, want {1000 0 0}", got)
	}
}

func TestFlyingPawn_DebugLines(t *testing.T) {
	body := newMockBody(physics.Rotator{})
	pawn := NewFlyingPawn(1, body, DefaultFlyingConfig())
	pawn.BeginPlay()
	pawn.Camera().Turn(90)
	pawn.Tick(1.0 / 60.0)

	r := &mockRenderer{}
	pawn.Render(r)
	if len(r.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(r.Lines))
	}

	forward, target := r.Lines[0], r.Lines[1]
	if forward.Color != ColorCyan || !forward.End.ApproxEqualThreshold(mgl64.Vec3{1000, 0, 0}, 1e-9) {
		t.Errorf("forward line = %+v", forward)
	}
	if target.Color != ColorRed || !target.End.ApproxEqualThreshold(mgl64.Vec3{0, 1000, 0}, 1e-9) {
		t.Errorf("target line = %+v", target)
	}
}

func TestFlyingPawn_InputSteersTorque(t *testing.T) {
	tests := []struct {
		name string
		turn float64
		look float64
		want mgl64.Vec3
	}{
		{name: "look_left", turn: 90, want: mgl64.Vec3{-45, 0, 45}},
		{name: "look_right", turn: -90, want: mgl64.Vec3{45, 0, -45}},
		{name: "look_up", look: 90, want: mgl64.Vec3{0, -25, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := newMockBody(physics.Rotator{})
			pawn := NewFlyingPawn(1, body, DefaultFlyingConfig())
			pawn.BeginPlay()

			c := input.NewComponent()
			pawn.SetupInput(c)
			c.Axis(input.AxisTurn, tt.turn)
			c.Axis(input.AxisLookUp, tt.look)
			pawn.Tick(1.0 / 60.0)

			got := body.torques[0].Vec
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("torque = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlyingPawn_TorqueInWorldSpace(t *testing.T) {
	rotation := physics.Rotator{Yaw: 90}
	body := newMockBody(rotation)
	pawn := NewFlyingPawn(1, body, DefaultFlyingConfig())
	pawn.BeginPlay()
	// Camera now looks along +Y; turning left aims along -X.
	pawn.Camera().Turn(90)
	pawn.Tick(1.0 / 60.0)

	local := flight.Controls{Yaw: 1, Roll: -1}.Torque(pawn.TurnTorque)
	want := body.transform.RotateVector(local)
	if got := body.torques[0].Vec; !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("torque = %v, want %v", got, want)
	}
	if got := body.forces[0].Vec; !got.ApproxEqualThreshold(mgl64.Vec3{0, 5000, 0}, 1e-9) {
		t.Errorf("thrust = %v, want along +Y", got)
	}
}

func TestFlyingPawn_FollowsCamera(t *testing.T) {
	body := physics.NewBody(physics.DefaultBodyConfig(), physics.IdentityTransform())
	pawn := NewFlyingPawn(1, body, DefaultFlyingConfig())
	pawn.BeginPlay()
	pawn.Camera().Turn(60)
	pawn.Camera().LookUp(15)

	const dt = 1.0 / 60.0
	for i := 0; i < 600; i++ {
		pawn.Tick(dt)
		body.Step(dt)
	}

	tel := pawn.Telemetry()
	if tel.AngleOffTarget > 10 {
		t.Errorf("expected nose within 10 degrees of the camera aim, got %f", tel.AngleOffTarget)
	}
	if tel.ForwardSpeed <= 0 {
		t.Errorf("expected thrust to build forward speed, got %f", tel.ForwardSpeed)
	}
	if tel.Kind != KindFlying || tel.ID != 1 {
		t.Errorf("telemetry identity = %v/%v", tel.Kind, tel.ID)
	}
}
