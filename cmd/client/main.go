// cmd/client/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/engine"
	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/event"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
	"github.com/opd-ai/go-flyreborn/pkg/render"
	engorender "github.com/opd-ai/go-flyreborn/pkg/render/engo"
	"github.com/opd-ai/go-flyreborn/pkg/scenario"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON or YAML configuration file")
	pawnKind := flag.String("pawn", "glider", "Pawn to fly: 'glider' or 'flying'")
	altitude := flag.Float64("altitude", 5000, "Spawn altitude")
	renderer := flag.String("renderer", "engo", "Renderer type: 'engo' or 'terminal'")
	scenarioPath := flag.String("scenario", "", "Scenario whose inputs drive the terminal renderer")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	flag.Parse()

	ctx := context.Background()
	bootLogger := logging.NewLoggerWithWriter(os.Stderr, logging.ParseLevel(os.Getenv(logging.LevelEnvVar)))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLogger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	logger := logging.NewLoggerWithWriter(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	kind, err := entity.PawnKindFromString(*pawnKind)
	if err != nil {
		logger.Error(ctx, "Invalid pawn", err)
		os.Exit(1)
	}

	var s *scenario.Scenario
	if *renderer == "terminal" && *scenarioPath != "" {
		if s, err = scenario.Load(*scenarioPath); err != nil {
			logger.Error(ctx, "Failed to load scenario", err, "scenario", *scenarioPath)
			os.Exit(1)
		}
		if cfg, err = s.Config(cfg); err != nil {
			logger.Error(ctx, "Scenario does not fit configuration", err, "scenario", *scenarioPath)
			os.Exit(1)
		}
		kind = s.Kind()
	}

	world := engine.NewWorld(cfg)
	world.Logger = logger

	switch *renderer {
	case "terminal":
		if err := startTerminalRenderer(world, kind, *altitude, s); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(ctx, "Terminal client failed", err)
			os.Exit(1)
		}
	case "engo":
		fallthrough
	default:
		startEngoRenderer(world, kind, *altitude, *width, *height, *fullscreen, logger)
	}
}

// startEngoRenderer starts the Engo GUI client
func startEngoRenderer(world *engine.World, kind entity.PawnKind, altitude float64, width, height int, fullscreen bool, logger *logging.Logger) {
	pawn, err := world.Spawn(kind, mgl64.Vec3{0, 0, altitude}, physics.Rotator{})
	if err != nil {
		logger.Error(context.Background(), "Failed to spawn pawn", err)
		os.Exit(1)
	}

	scene := engorender.NewGameScene(world, pawn.GetID())

	opts := engo.RunOptions{
		Title:      "Go FlyReborn",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	engo.Run(opts, scene)
}

// startTerminalRenderer flies a pawn in real time and draws a top-down view
// to the terminal. A scenario, when given, supplies the mouse input.
func startTerminalRenderer(world *engine.World, kind entity.PawnKind, altitude float64, s *scenario.Scenario) error {
	location := mgl64.Vec3{0, 0, altitude}
	rotation := physics.Rotator{}
	if s != nil {
		location = mgl64.Vec3{s.Start.Location.X, s.Start.Location.Y, s.Start.Location.Z}
		rotation = s.Start.Rotation.Rotator()
	}

	pawn, err := world.Spawn(kind, location, rotation)
	if err != nil {
		return err
	}
	id := pawn.GetID()

	term := render.NewTerminalRenderer(100, 30, 50)

	var status string
	for _, t := range []event.Type{event.GliderStalled, event.GliderRecovered, event.SpeedLimitReached, event.GroundContact} {
		world.EventBus.Subscribe(t, func(e event.Event) {
			if se, ok := e.(*event.SpeedEvent); ok && se.PawnID == uint64(id) {
				status = fmt.Sprintf("tick %d: %s at speed %.0f", se.Tick, se.GetType(), se.Speed)
			}
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(world.TimeStep * float64(time.Second)))
	defer ticker.Stop()
	frameEvery := world.Config.Simulation.TickRate / 10
	if frameEvery < 1 {
		frameEvery = 1
	}

	world.Start()
	defer world.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if s != nil {
			elapsed := world.Snapshot().Elapsed
			if elapsed >= s.Duration {
				return nil
			}
			if err := s.Feed(world, id, elapsed); err != nil {
				return err
			}
		}

		world.Step(world.TimeStep)

		if world.Tick()%uint64(frameEvery) == 0 {
			loc := pawn.Body().Transform().Location
			term.SetCenter(physics.Vector2D{X: loc.X(), Y: loc.Y()})
			world.Render(term)
			if status != "" {
				fmt.Println(status)
			}
		}
	}
}
