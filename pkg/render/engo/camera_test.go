// pkg/render/engo/camera_test.go
package engo

import (
	"math"
	"testing"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// snappedRig returns a rig looking along rotation with its camera placed
// behind pivot
func snappedRig(pivot mgl64.Vec3, rotation physics.Rotator) *flight.CameraRig {
	rig := flight.NewCameraRig(flight.DefaultCameraRigConfig(), rotation)
	rig.Update(pivot, 1.0/60.0)
	return rig
}

func TestNewCameraSystem(t *testing.T) {
	camera := NewCameraSystem(800, 600)

	if camera.zoom != 1.0 {
		t.Errorf("Expected default zoom 1.0, got %f", camera.zoom)
	}
	if camera.minZoom != 0.5 {
		t.Errorf("Expected default minZoom 0.5, got %f", camera.minZoom)
	}
	if camera.maxZoom != 4.0 {
		t.Errorf("Expected default maxZoom 4.0, got %f", camera.maxZoom)
	}
	if w, h := camera.Viewport(); w != 800 || h != 600 {
		t.Errorf("Expected viewport 800x600, got %fx%f", w, h)
	}
	if camera.Following() {
		t.Error("Expected no rig by default")
	}
}

func TestCameraSystem_ZoomOperations(t *testing.T) {
	camera := NewCameraSystem(800, 600)

	testCases := []struct {
		name     string
		zoom     float32
		expected float32
	}{
		{"ValidZoom", 1.5, 1.5},
		{"BelowMinZoom", 0.1, 0.5},
		{"AboveMaxZoom", 5.0, 4.0},
		{"ExactMinZoom", 0.5, 0.5},
		{"ExactMaxZoom", 4.0, 4.0},
		{"NegativeZoom", -1.0, 0.5},
		{"ZeroZoom", 0.0, 0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			camera.SetZoom(tc.zoom)
			if actual := camera.GetZoom(); actual != tc.expected {
				t.Errorf("Expected zoom %f, got %f", tc.expected, actual)
			}
		})
	}
}

func TestCameraSystem_ZoomLimits(t *testing.T) {
	camera := NewCameraSystem(800, 600)
	camera.SetZoom(3.5)

	camera.SetZoomLimits(1, 2)
	if min, max := camera.GetZoomLimits(); min != 1 || max != 2 {
		t.Errorf("Expected limits (1, 2), got (%f, %f)", min, max)
	}
	if camera.GetZoom() != 2 {
		t.Errorf("Expected current zoom clamped to 2, got %f", camera.GetZoom())
	}
}

func TestCameraSystem_ProjectWithoutRig(t *testing.T) {
	camera := NewCameraSystem(800, 600)
	if _, ok := camera.Project(mgl64.Vec3{1000, 0, 0}); ok {
		t.Error("Project should fail without a rig")
	}
	if view := camera.View(); view.FieldOfView != 0 {
		t.Errorf("View without rig = %+v, want zero camera", view)
	}
}

func TestCameraSystem_Project(t *testing.T) {
	camera := NewCameraSystem(800, 600)
	pivot := mgl64.Vec3{0, 0, 1000}
	rig := snappedRig(pivot, physics.Rotator{})
	camera.Follow(rig)

	tests := []struct {
		name    string
		point   mgl64.Vec3
		want    [2]float32
		visible bool
	}{
		{"aim target is centered", rig.FlyTarget(pivot), [2]float32{400, 300}, true},
		{"left is left of center", mgl64.Vec3{1000, 100, 1000}, [2]float32{400 - 100.0/1300*400, 300}, true},
		{"above is above center", mgl64.Vec3{1000, 0, 1100}, [2]float32{400, 300 - 100.0/1300*400}, true},
		{"behind the camera", mgl64.Vec3{-1000, 0, 1000}, [2]float32{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := camera.Project(tt.point)
			if ok != tt.visible {
				t.Fatalf("visible = %v, want %v", ok, tt.visible)
			}
			if !ok {
				return
			}
			if math.Abs(float64(got.X-tt.want[0])) > 1e-3 || math.Abs(float64(got.Y-tt.want[1])) > 1e-3 {
				t.Errorf("Project() = (%f, %f), want (%f, %f)", got.X, got.Y, tt.want[0], tt.want[1])
			}
		})
	}
}

func TestCameraSystem_ZoomNarrowsView(t *testing.T) {
	camera := NewCameraSystem(800, 600)
	rig := snappedRig(mgl64.Vec3{}, physics.Rotator{})
	camera.Follow(rig)

	point := mgl64.Vec3{1000, 200, 0}
	before, _ := camera.Project(point)

	camera.SetZoom(2)
	if fov := camera.View().FieldOfView; math.Abs(fov-45) > 1e-9 {
		t.Errorf("FieldOfView = %f, want 45 at zoom 2", fov)
	}

	after, _ := camera.Project(point)
	if !(after.X < before.X) {
		t.Errorf("zooming in should push off-center points outward: %f -> %f", before.X, after.X)
	}
}

func TestCameraSystem_ECSInterface(t *testing.T) {
	camera := NewCameraSystem(800, 600)

	t.Run("Add_DoesNotPanic", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Add method panicked: %v", r)
			}
		}()

		camera.Add(nil, nil, nil)
	})

	t.Run("Remove_DoesNotPanic", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Remove method panicked: %v", r)
			}
		}()

		var mockEntity ecs.BasicEntity
		camera.Remove(mockEntity)
	})
}
