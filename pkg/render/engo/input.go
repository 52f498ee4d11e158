// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/input"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

// Engo axis and button names registered by SetupInputBindings
const (
	axisMouseX = "mouseX"
	axisMouseY = "mouseY"

	buttonToggleDebug = "toggleDebug"
	buttonPause       = "pause"
)

// AxisSink receives named axis values for a pawn. *engine.World satisfies it.
type AxisSink interface {
	Axis(id entity.ID, name string, value float64) error
}

// InputSystem feeds mouse movement to the player pawn's Turn and LookUp axes
type InputSystem struct {
	sink   AxisSink
	pawnID entity.ID
	logger *logging.Logger

	// Sensitivity scales raw mouse deltas before they reach the pawn.
	Sensitivity float64
	// InvertY makes moving the mouse up pitch the camera down.
	InvertY bool

	paused    bool
	debugDraw bool
	onDebug   func(bool)
}

// NewInputSystem creates an input system steering pawnID through sink
func NewInputSystem(sink AxisSink, pawnID entity.ID) *InputSystem {
	return &InputSystem{
		sink:        sink,
		pawnID:      pawnID,
		logger:      logging.Discard(),
		Sensitivity: 0.2,
		debugDraw:   true,
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for input system
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
	// Not used for input system
}

// Update reads the mouse axes and buttons
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button(buttonPause).JustPressed() {
		is.paused = !is.paused
	}
	if engo.Input.Button(buttonToggleDebug).JustPressed() {
		is.ToggleDebug()
	}

	is.Apply(engo.Input.Axis(axisMouseX).Value(), engo.Input.Axis(axisMouseY).Value())
}

// Apply sends one frame of mouse movement to the pawn. Screen Y grows
// downward, so moving the mouse up looks up unless InvertY is set.
func (is *InputSystem) Apply(dx, dy float32) {
	if is.paused || is.sink == nil {
		return
	}

	turn := float64(dx) * is.Sensitivity
	lookUp := -float64(dy) * is.Sensitivity
	if is.InvertY {
		lookUp = -lookUp
	}

	is.send(input.AxisTurn, turn)
	is.send(input.AxisLookUp, lookUp)
}

func (is *InputSystem) send(name string, value float64) {
	if value == 0 {
		return
	}
	if err := is.sink.Axis(is.pawnID, name, value); err != nil {
		is.logger.Warn(context.Background(), "failed to apply mouse axis",
			"pawn_id", uint64(is.pawnID), "axis", name, "error", err.Error())
	}
}

// SetLogger sets the logger used for dropped input
func (is *InputSystem) SetLogger(l *logging.Logger) {
	if l != nil {
		is.logger = l
	}
}

// SetPawn changes the pawn receiving input
func (is *InputSystem) SetPawn(id entity.ID) {
	is.pawnID = id
}

// Paused reports whether the simulation is paused
func (is *InputSystem) Paused() bool {
	return is.paused
}

// SetPaused pauses or resumes input and simulation
func (is *InputSystem) SetPaused(paused bool) {
	is.paused = paused
}

// OnDebugToggle registers fn to run when debug drawing is toggled
func (is *InputSystem) OnDebugToggle(fn func(enabled bool)) {
	is.onDebug = fn
}

// ToggleDebug flips debug line drawing
func (is *InputSystem) ToggleDebug() {
	is.debugDraw = !is.debugDraw
	if is.onDebug != nil {
		is.onDebug(is.debugDraw)
	}
}

// SetupInputBindings sets up the mouse axes and key bindings for the client
func SetupInputBindings() {
	engo.Input.RegisterAxis(axisMouseX, engo.NewAxisMouse(engo.AxisMouseHori))
	engo.Input.RegisterAxis(axisMouseY, engo.NewAxisMouse(engo.AxisMouseVert))

	engo.Input.RegisterButton(buttonPause, engo.KeyP, engo.KeyEscape)
	engo.Input.RegisterButton(buttonToggleDebug, engo.KeyF3)
}
