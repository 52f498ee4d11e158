// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/render"
)

// ScreenLine is a debug line projected onto the window
type ScreenLine struct {
	From, To  engo.Point
	Color     color.RGBA
	Thickness float32
}

// Length returns the on-screen length in pixels
func (l ScreenLine) Length() float32 {
	return l.From.PointDistance(l.To)
}

// Angle returns the line's rotation in degrees, clockwise from the +X axis
// in screen space
func (l ScreenLine) Angle() float32 {
	return float32(math.Atan2(float64(l.To.Y-l.From.Y), float64(l.To.X-l.From.X)) * 180 / math.Pi)
}

// EngoRenderer implements entity.Renderer using the Engo game engine. Pawns
// are drawn as markers and debug lines as stretched one-pixel sprites, all
// projected through the CameraSystem.
type EngoRenderer struct {
	camera       *CameraSystem
	renderSystem *common.RenderSystem
	assets       *AssetManager

	// Entity management
	pawnEntities map[entity.ID]*hudElement
	seen         map[entity.ID]bool
	lineEntities []*hudElement

	lines     render.DebugLineBuffer
	projected []ScreenLine
}

// NewEngoRenderer creates a renderer projecting through camera
func NewEngoRenderer(camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		camera:       camera,
		assets:       NewAssetManager(),
		pawnEntities: make(map[entity.ID]*hudElement),
		seen:         make(map[entity.ID]bool),
	}
}

// Initialize loads the sprites and starts drawing through rs
func (r *EngoRenderer) Initialize(rs *common.RenderSystem) error {
	r.renderSystem = rs
	return r.assets.LoadAssets()
}

// Assets returns the sprites shared with the HUD
func (r *EngoRenderer) Assets() *AssetManager {
	return r.assets
}

// Advance ages the buffered debug lines by deltaTime seconds
func (r *EngoRenderer) Advance(deltaTime float64) {
	r.lines.Update(deltaTime)
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	for id := range r.seen {
		delete(r.seen, id)
	}
}

// RenderPawn implements entity.Renderer
func (r *EngoRenderer) RenderPawn(p entity.Pawn) {
	id := p.GetID()
	r.seen[id] = true

	if r.renderSystem == nil {
		return
	}

	marker := r.getOrCreatePawnEntity(id)
	pos, visible := r.camera.Project(p.Body().Transform().Location)
	marker.centerOn(pos, visible)
}

// DrawDebugLine implements entity.Renderer
func (r *EngoRenderer) DrawDebugLine(line entity.DebugLine) {
	r.lines.Add(line)
}

// Present implements entity.Renderer. It projects the live debug lines and
// drops markers of pawns that were not rendered this frame.
func (r *EngoRenderer) Present() {
	r.projected = r.projected[:0]
	for _, line := range r.lines.Lines() {
		from, okFrom := r.camera.Project(line.Start)
		to, okTo := r.camera.Project(line.End)
		if !okFrom || !okTo {
			continue
		}
		r.projected = append(r.projected, ScreenLine{
			From:      from,
			To:        to,
			Color:     line.Color,
			Thickness: float32(line.Thickness),
		})
	}

	for id := range r.pawnEntities {
		if !r.seen[id] {
			r.RemovePawn(id)
		}
	}

	if r.renderSystem != nil {
		r.syncLineEntities()
	}
}

// ProjectedLines returns the debug lines drawn by the last Present
func (r *EngoRenderer) ProjectedLines() []ScreenLine {
	return r.projected
}

// getOrCreatePawnEntity gets an existing pawn marker or creates a new one
func (r *EngoRenderer) getOrCreatePawnEntity(id entity.ID) *hudElement {
	if e, exists := r.pawnEntities[id]; exists {
		return e
	}

	e := newHUDElement(r.assets.Sprite(SpritePawn), 14, 14, color.RGBA{255, 255, 255, 255})
	r.pawnEntities[id] = e
	r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	return e
}

// syncLineEntities grows the line pool as needed and hides the spare ones
func (r *EngoRenderer) syncLineEntities() {
	for len(r.lineEntities) < len(r.projected) {
		e := newHUDElement(r.assets.Sprite(SpritePixel), 1, 1, color.White)
		r.lineEntities = append(r.lineEntities, e)
		r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	}

	for i, e := range r.lineEntities {
		if i >= len(r.projected) {
			e.Hidden = true
			continue
		}
		line := r.projected[i]
		e.Hidden = false
		e.Color = line.Color
		e.Position = line.From
		e.Width = line.Length()
		e.Height = line.Thickness
		e.Rotation = line.Angle()
	}
}

// RemovePawn removes a pawn marker from rendering
func (r *EngoRenderer) RemovePawn(id entity.ID) {
	if e, exists := r.pawnEntities[id]; exists {
		if r.renderSystem != nil {
			r.renderSystem.Remove(e.BasicEntity)
		}
		delete(r.pawnEntities, id)
	}
}
