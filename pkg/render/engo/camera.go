// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/flight"
)

// CameraSystem views the world through the player pawn's camera rig and
// projects world points onto the window
type CameraSystem struct {
	// Rig to look through
	rig *flight.CameraRig

	// Viewport size in pixels
	width  float64
	height float64

	// Zoom narrows the field of view
	zoom    float32
	minZoom float32
	maxZoom float32
}

// NewCameraSystem creates a camera system for a width x height viewport
func NewCameraSystem(width, height float64) *CameraSystem {
	return &CameraSystem{
		width:   width,
		height:  height,
		zoom:    1.0,
		minZoom: 0.5,
		maxZoom: 4.0,
	}
}

// Add satisfies the ecs.System interface
func (cs *CameraSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for camera system
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {
	// Not used for camera system
}

// Update handles zoom input and tracks window resizes
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()

	if w, h := engo.WindowWidth(), engo.WindowHeight(); w > 0 && h > 0 {
		cs.SetViewport(float64(w), float64(h))
	}
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	// Mouse wheel zoom
	scrollY := engo.Input.Mouse.ScrollY
	if scrollY != 0 {
		cs.SetZoom(cs.zoom * float32(1.0+scrollY*0.1))
	}

	// Reset zoom
	if engo.Input.Button("resetZoom").JustPressed() {
		cs.SetZoom(1.0)
	}
}

// Follow makes the system look through rig
func (cs *CameraSystem) Follow(rig *flight.CameraRig) {
	cs.rig = rig
}

// Following reports whether a rig is attached
func (cs *CameraSystem) Following() bool {
	return cs.rig != nil
}

// SetViewport sets the viewport size in pixels
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.width = width
	cs.height = height
}

// Viewport returns the viewport size in pixels
func (cs *CameraSystem) Viewport() (float64, float64) {
	return cs.width, cs.height
}

// View returns the current camera with the zoom applied to its field of view
func (cs *CameraSystem) View() flight.Camera {
	if cs.rig == nil {
		return flight.Camera{}
	}
	view := cs.rig.View()
	view.FieldOfView /= float64(cs.zoom)
	return view
}

// Project converts a world location to window coordinates. It returns false
// when there is no rig or the point is behind the camera.
func (cs *CameraSystem) Project(p mgl64.Vec3) (engo.Point, bool) {
	if cs.rig == nil {
		return engo.Point{}, false
	}
	screen, ok := cs.View().WorldToScreen(p, cs.width, cs.height)
	if !ok {
		return engo.Point{}, false
	}
	return engo.Point{X: float32(screen.X), Y: float32(screen.Y)}, true
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

// clampZoom ensures zoom is within valid bounds
func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// GetZoomLimits returns the current zoom limits
func (cs *CameraSystem) GetZoomLimits() (float32, float32) {
	return cs.minZoom, cs.maxZoom
}

// SetupCameraControls sets up camera control key bindings
func SetupCameraControls() {
	engo.Input.RegisterButton("resetZoom", engo.KeyR) // R key to reset zoom
}
