package flight

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

func TestCameraRig_MouseAccumulates(t *testing.T) {
	cfg := DefaultCameraRigConfig()
	cfg.MouseSensitivity = 2
	rig := NewCameraRig(cfg, physics.Rotator{Yaw: 10})

	rig.Turn(5)
	rig.Turn(-1)
	rig.LookUp(3)

	rot := rig.Rotation()
	if rot.Yaw != 18 {
		t.Errorf("Yaw = %f, want 18", rot.Yaw)
	}
	if rot.Pitch != 6 {
		t.Errorf("Pitch = %f, want 6", rot.Pitch)
	}
	if rot.Roll != 0 {
		t.Errorf("Roll = %f, want 0", rot.Roll)
	}
}

func TestCameraRig_UpdateClampsPitch(t *testing.T) {
	tests := []struct {
		name   string
		lookUp float64
		want   float64
	}{
		{"within range", 45, 45},
		{"past straight up", 200, 90},
		{"past straight down", -120, -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := NewCameraRig(DefaultCameraRigConfig(), physics.Rotator{})
			rig.LookUp(tt.lookUp)
			rig.Update(mgl64.Vec3{}, 1.0/60.0)
			if got := rig.Rotation().Pitch; got != tt.want {
				t.Errorf("Pitch = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCameraRig_ClampedPitchIsStored(t *testing.T) {
	rig := NewCameraRig(DefaultCameraRigConfig(), physics.Rotator{})
	rig.LookUp(200)
	rig.Update(mgl64.Vec3{}, 1.0/60.0)
	rig.LookUp(-10)
	rig.Update(mgl64.Vec3{}, 1.0/60.0)
	if got := rig.Rotation().Pitch; got != 80 {
		t.Errorf("Pitch = %f, want 80 after backing off from the limit", got)
	}
}

func TestCameraRig_FlyTarget(t *testing.T) {
	rig := NewCameraRig(DefaultCameraRigConfig(), physics.Rotator{Yaw: 90})
	from := mgl64.Vec3{100, 0, 500}
	got := rig.FlyTarget(from)
	want := mgl64.Vec3{100, 1000, 500}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("FlyTarget() = %v, want %v", got, want)
	}
}

func TestCameraRig_ArmAndLag(t *testing.T) {
	cfg := DefaultCameraRigConfig()
	rig := NewCameraRig(cfg, physics.Rotator{})

	rig.Update(mgl64.Vec3{0, 0, 0}, 1.0/60.0)
	if got := rig.Location(); !got.ApproxEqualThreshold(mgl64.Vec3{-300, 0, 0}, 1e-9) {
		t.Fatalf("first update should snap behind the pivot, got %v", got)
	}

	// Pivot jumps forward; lag keeps the camera trailing.
	rig.Update(mgl64.Vec3{1000, 0, 0}, 0.05)
	got := rig.Location()
	if !got.ApproxEqualThreshold(mgl64.Vec3{200, 0, 0}, 1e-9) {
		t.Errorf("lagged location = %v, want {200 0 0}", got)
	}

	cfg.EnableLag = false
	noLag := NewCameraRig(cfg, physics.Rotator{})
	noLag.Update(mgl64.Vec3{0, 0, 0}, 1.0/60.0)
	noLag.Update(mgl64.Vec3{1000, 0, 0}, 0.05)
	if got := noLag.Location(); !got.ApproxEqualThreshold(mgl64.Vec3{700, 0, 0}, 1e-9) {
		t.Errorf("unlagged location = %v, want {700 0 0}", got)
	}
}

func TestCamera_WorldToScreen(t *testing.T) {
	cam := Camera{Transform: physics.IdentityTransform(), FieldOfView: 90}
	const w, h = 800.0, 600.0

	tests := []struct {
		name    string
		point   mgl64.Vec3
		want    physics.Vector2D
		visible bool
	}{
		{"straight ahead is centered", mgl64.Vec3{1000, 0, 0}, physics.Vector2D{X: 400, Y: 300}, true},
		{"left edge at half fov", mgl64.Vec3{1000, 1000, 0}, physics.Vector2D{X: 0, Y: 300}, true},
		{"right of center", mgl64.Vec3{1000, -500, 0}, physics.Vector2D{X: 600, Y: 300}, true},
		{"above is higher on screen", mgl64.Vec3{1000, 0, 500}, physics.Vector2D{X: 400, Y: 100}, true},
		{"behind is hidden", mgl64.Vec3{-1000, 0, 0}, physics.Vector2D{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cam.WorldToScreen(tt.point, w, h)
			if ok != tt.visible {
				t.Fatalf("visible = %v, want %v", ok, tt.visible)
			}
			if ok && (!near(got.X, tt.want.X, 1e-6) || !near(got.Y, tt.want.Y, 1e-6)) {
				t.Errorf("WorldToScreen() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCameraRig_ViewLooksAlongAim(t *testing.T) {
	rig := NewCameraRig(DefaultCameraRigConfig(), physics.Rotator{Pitch: 10, Yaw: 30})
	pivot := mgl64.Vec3{0, 0, 1000}
	rig.Update(pivot, 1.0/60.0)

	view := rig.View()
	pos, ok := view.WorldToScreen(rig.FlyTarget(pivot), 1024, 768)
	if !ok {
		t.Fatal("fly target should be in front of the camera")
	}
	if !near(pos.X, 512, 1e-6) || !near(pos.Y, 384, 1e-6) {
		t.Errorf("fly target projected to %+v, want screen center", pos)
	}
}

func TestCameraRig_Reset(t *testing.T) {
	rig := NewCameraRig(DefaultCameraRigConfig(), physics.Rotator{})
	rig.Turn(40)
	rig.Update(mgl64.Vec3{}, 1.0/60.0)

	rig.Reset(physics.Rotator{Pitch: 5, Yaw: -30, Roll: 70})
	rig.Update(mgl64.Vec3{500, 0, 0}, 1.0/60.0)

	if got := rig.Rotation(); got != (physics.Rotator{Pitch: 5, Yaw: -30}) {
		t.Errorf("Rotation() = %+v", got)
	}
	want := mgl64.Vec3{500, 0, 0}.Sub(rig.Forward().Mul(300))
	if !rig.Location().ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Reset should snap the camera, got %v want %v", rig.Location(), want)
	}
}
