// pkg/render/engo/scene.go
package engo

import (
	"bytes"
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-flyreborn/pkg/engine"
	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/event"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

const hudFontURL = "gomono.ttf"

// maxStepsPerFrame bounds catch-up after a slow frame
const maxStepsPerFrame = 5

// GameScene represents the interactive flight scene in Engo
type GameScene struct {
	ecsWorld *ecs.World

	// Simulation
	sim      *engine.World
	playerID entity.ID
	logger   *logging.Logger
	subs     []*event.Subscription

	// Rendering components
	renderer   *EngoRenderer
	camera     *CameraSystem
	input      *InputSystem
	hud        *HUDSystem
	simulation *SimulationSystem
}

// NewGameScene creates a scene flying playerID inside sim
func NewGameScene(sim *engine.World, playerID entity.ID) *GameScene {
	return &GameScene{
		sim:      sim,
		playerID: playerID,
		logger:   sim.Logger,
		ecsWorld: &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		scene.logger.Error(context.Background(), "failed to load HUD font", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	if w, ok := u.(*ecs.World); ok {
		scene.ecsWorld = w
	}

	common.SetBackground(color.RGBA{40, 70, 110, 255})
	SetupInputBindings()
	SetupCameraControls()

	renderSystem := &common.RenderSystem{}
	scene.ecsWorld.AddSystem(renderSystem)

	scene.buildSystems(float64(engo.WindowWidth()), float64(engo.WindowHeight()))

	if err := scene.renderer.Initialize(renderSystem); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	scene.hud.SetFont(scene.loadFont())
	scene.hud.Attach(renderSystem, scene.renderer.Assets())

	// Input before simulation, HUD after it
	scene.ecsWorld.AddSystem(scene.input)
	scene.ecsWorld.AddSystem(scene.simulation)
	scene.ecsWorld.AddSystem(scene.camera)
	scene.ecsWorld.AddSystem(scene.hud)

	scene.sim.Start()
}

// buildSystems creates the camera, input, HUD and simulation systems and
// points them at the player pawn
func (scene *GameScene) buildSystems(width, height float64) {
	scene.camera = NewCameraSystem(width, height)
	scene.renderer = NewEngoRenderer(scene.camera)
	scene.input = NewInputSystem(scene.sim, scene.playerID)
	scene.input.SetLogger(scene.logger)
	scene.hud = NewHUDSystem(scene.camera)
	scene.simulation = NewSimulationSystem(scene.sim, scene.renderer, scene.input)

	if pawn, ok := scene.sim.Pawn(scene.playerID); ok {
		scene.camera.Follow(pawn.Camera())
		scene.hud.Follow(pawn)
		scene.input.OnDebugToggle(func(enabled bool) {
			setDebugDraw(pawn, enabled)
		})
	} else {
		scene.logger.Warn(context.Background(), "player pawn not found", "pawn_id", uint64(scene.playerID))
	}

	scene.subscribeToEvents()
}

// setDebugDraw toggles debug lines on the built-in pawn types
func setDebugDraw(p entity.Pawn, enabled bool) {
	switch pawn := p.(type) {
	case *entity.GliderPawn:
		pawn.DebugDraw = enabled
	case *entity.FlyingPawn:
		pawn.DebugDraw = enabled
	}
}

func (scene *GameScene) loadFont() *common.Font {
	font := &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		Size: 16,
	}
	if err := font.CreatePreloaded(); err != nil {
		scene.logger.Error(context.Background(), "failed to create HUD font", err)
		return nil
	}
	return font
}

// subscribeToEvents flashes HUD warnings for the player pawn
func (scene *GameScene) subscribeToEvents() {
	warnings := map[event.Type]string{
		event.GliderStalled:     "STALL",
		event.GliderRecovered:   "RECOVERED",
		event.SpeedLimitReached: "MAX SPEED",
		event.GroundContact:     "GROUND",
	}

	for eventType, message := range warnings {
		sub := scene.sim.EventBus.Subscribe(eventType, func(e event.Event) {
			if se, ok := e.(*event.SpeedEvent); ok && entity.ID(se.PawnID) == scene.playerID {
				scene.hud.Flash(message, 1.5)
			}
		})
		scene.subs = append(scene.subs, sub)
	}
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	for _, sub := range scene.subs {
		scene.sim.EventBus.Unsubscribe(sub)
	}
	scene.subs = nil
	scene.sim.Stop()
}

// SimulationSystem steps the flight world at its fixed tick rate from the
// engo frame loop and renders it
type SimulationSystem struct {
	world    *engine.World
	renderer *EngoRenderer
	input    *InputSystem

	accumulator float64
}

// NewSimulationSystem creates a system stepping world and drawing through
// renderer. input may be nil.
func NewSimulationSystem(world *engine.World, renderer *EngoRenderer, input *InputSystem) *SimulationSystem {
	return &SimulationSystem{world: world, renderer: renderer, input: input}
}

// Add satisfies the ecs.System interface
func (s *SimulationSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
	// Not used for simulation system
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {
	// Not used for simulation system
}

// Update advances the simulation and redraws it
func (s *SimulationSystem) Update(dt float32) {
	s.Advance(float64(dt))
	s.renderer.Advance(float64(dt))
	s.world.Render(s.renderer)
}

// Advance runs as many fixed ticks as fit in the accumulated frame time and
// returns how many ran. Paused input stops the clock.
func (s *SimulationSystem) Advance(frameTime float64) int {
	if s.input != nil && s.input.Paused() {
		return 0
	}

	step := s.world.TimeStep
	if step <= 0 {
		return 0
	}

	s.accumulator += frameTime
	steps := 0
	for s.accumulator >= step && steps < maxStepsPerFrame {
		s.world.Step(step)
		s.accumulator -= step
		steps++
	}
	if s.accumulator >= step {
		s.accumulator = 0
	}
	return steps
}
