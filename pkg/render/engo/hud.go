// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/flight"
)

// DirectionIndicatorDistance is how far ahead of the nose the flight
// direction indicator is placed.
const DirectionIndicatorDistance = 1000.0

// FlightUI holds the screen positions of the mouse-flight HUD elements
type FlightUI struct {
	// ReticleScreenPosition is where the pawn is being steered.
	ReticleScreenPosition engo.Point
	// DirectionIndicatorPosition is where the nose currently points.
	DirectionIndicatorPosition engo.Point

	ReticleVisible   bool
	DirectionVisible bool
}

// ComputeFlightUI projects the aim target and the nose direction of a pawn
// at location through the camera
func ComputeFlightUI(camera *CameraSystem, aim flight.MouseAim, location mgl64.Vec3) FlightUI {
	var ui FlightUI
	ui.ReticleScreenPosition, ui.ReticleVisible = camera.Project(aim.TargetAimWorldLocation())

	ahead := location.Add(aim.CurrentDirection().Mul(DirectionIndicatorDistance))
	ui.DirectionIndicatorPosition, ui.DirectionVisible = camera.Project(ahead)
	return ui
}

// hudElement is a screen-space sprite or text owned by the HUD
type hudElement struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

func newHUDElement(drawable common.Drawable, width, height float32, c color.Color) *hudElement {
	e := &hudElement{BasicEntity: ecs.NewBasic()}
	e.RenderComponent = common.RenderComponent{Drawable: drawable, Color: c}
	e.RenderComponent.SetShader(common.HUDShader)
	e.RenderComponent.SetZIndex(10)
	e.SpaceComponent = common.SpaceComponent{Width: width, Height: height}
	return e
}

// centerOn moves the element so that its middle sits on p
func (e *hudElement) centerOn(p engo.Point, visible bool) {
	e.SpaceComponent.Position = engo.Point{X: p.X - e.Width/2, Y: p.Y - e.Height/2}
	e.RenderComponent.Hidden = !visible
}

// HUDSystem manages the heads-up display: the steering reticle, the flight
// direction indicator and a status line
type HUDSystem struct {
	camera *CameraSystem
	pawn   entity.Pawn
	ui     FlightUI

	status     string
	message    string
	messageTTL float64

	renderSystem *common.RenderSystem
	reticle      *hudElement
	direction    *hudElement
	statusText   *hudElement
	messageText  *hudElement

	// Font for text rendering
	font *common.Font

	// Colors
	hudColor     color.Color
	warningColor color.Color
}

// NewHUDSystem creates a new HUD system drawing through camera
func NewHUDSystem(camera *CameraSystem) *HUDSystem {
	return &HUDSystem{
		camera:       camera,
		hudColor:     color.RGBA{255, 255, 255, 255},
		warningColor: color.RGBA{255, 64, 64, 255},
	}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for HUD system
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
	// Not used for HUD system
}

// Attach creates the HUD entities and hands them to the render system.
// Without it the HUD only computes positions.
func (hud *HUDSystem) Attach(rs *common.RenderSystem, assets *AssetManager) {
	hud.renderSystem = rs

	hud.reticle = newHUDElement(assets.Sprite(SpriteReticle), 30, 30, hud.hudColor)
	hud.direction = newHUDElement(assets.Sprite(SpriteDirection), 14, 14, hud.hudColor)
	rs.Add(&hud.reticle.BasicEntity, &hud.reticle.RenderComponent, &hud.reticle.SpaceComponent)
	rs.Add(&hud.direction.BasicEntity, &hud.direction.RenderComponent, &hud.direction.SpaceComponent)

	if hud.font != nil {
		hud.statusText = newHUDElement(common.Text{Font: hud.font}, 0, 0, hud.hudColor)
		hud.statusText.Position = engo.Point{X: 10, Y: 10}
		hud.messageText = newHUDElement(common.Text{Font: hud.font}, 0, 0, hud.warningColor)
		rs.Add(&hud.statusText.BasicEntity, &hud.statusText.RenderComponent, &hud.statusText.SpaceComponent)
		rs.Add(&hud.messageText.BasicEntity, &hud.messageText.RenderComponent, &hud.messageText.SpaceComponent)
	}
}

// Update recomputes the flight UI for the followed pawn
func (hud *HUDSystem) Update(dt float32) {
	if hud.messageTTL > 0 {
		hud.messageTTL -= float64(dt)
		if hud.messageTTL <= 0 {
			hud.message = ""
		}
	}

	if hud.pawn == nil {
		hud.ui = FlightUI{}
		hud.status = ""
	} else {
		t := hud.pawn.Telemetry()
		hud.ui = ComputeFlightUI(hud.camera, hud.pawn, t.Location)
		hud.status = formatStatus(t)
	}

	hud.sync()
}

// sync copies the computed state onto the HUD entities
func (hud *HUDSystem) sync() {
	if hud.renderSystem == nil {
		return
	}

	hud.reticle.centerOn(hud.ui.ReticleScreenPosition, hud.ui.ReticleVisible)
	hud.direction.centerOn(hud.ui.DirectionIndicatorPosition, hud.ui.DirectionVisible)

	if hud.statusText != nil {
		hud.statusText.Drawable = common.Text{Font: hud.font, Text: hud.status}
	}
	if hud.messageText != nil {
		w, h := hud.camera.Viewport()
		hud.messageText.Drawable = common.Text{Font: hud.font, Text: hud.message}
		hud.messageText.Position = engo.Point{X: float32(w)/2 - 40, Y: float32(h) / 4}
		hud.messageText.Hidden = hud.message == ""
	}
}

// formatStatus builds the speed and altitude readout
func formatStatus(t entity.Telemetry) string {
	s := fmt.Sprintf("SPD %6.0f  ALT %6.0f  HDG %4.0f", t.ForwardSpeed, t.Altitude(), heading(t.Rotation.Yaw))
	if t.Kind == entity.KindGlider {
		s += fmt.Sprintf("  LIFT %6.0f", t.Lift)
	}
	return s
}

// heading maps yaw to a compass heading in [0, 360) with +X as north.
// Yaw grows counter-clockwise, headings grow clockwise.
func heading(yaw float64) float64 {
	h := math.Mod(360-yaw, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Follow sets the pawn whose flight UI is shown
func (hud *HUDSystem) Follow(p entity.Pawn) {
	hud.pawn = p
}

// FlightUI returns the positions computed by the last Update
func (hud *HUDSystem) FlightUI() FlightUI {
	return hud.ui
}

// Status returns the status line computed by the last Update
func (hud *HUDSystem) Status() string {
	return hud.status
}

// Flash shows a warning message for the given number of seconds
func (hud *HUDSystem) Flash(message string, seconds float64) {
	hud.message = message
	hud.messageTTL = seconds
}

// Message returns the warning currently shown, if any
func (hud *HUDSystem) Message() string {
	return hud.message
}

// SetFont sets the font used for HUD text rendering. Call before Attach.
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}
