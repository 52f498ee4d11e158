package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/engine"
	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/event"
	"github.com/opd-ai/go-flyreborn/pkg/input"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

// Options tune a headless run
type Options struct {
	Logger *logging.Logger

	// Recorder, when set, receives telemetry every RecordEvery ticks.
	Recorder    engine.Recorder
	RecordEvery int

	// SampleEvery keeps every Nth tick's telemetry in Result.Frames. Zero
	// keeps none.
	SampleEvery int
}

// Result summarizes a finished run
type Result struct {
	Scenario string
	Pawn     entity.PawnKind
	Ticks    uint64
	Elapsed  float64

	// RunID tags every log line of the run. It is the caller's correlation
	// ID when ctx carries one.
	RunID string

	Final          entity.Telemetry
	MinSpeed       float64
	MaxSpeed       float64
	MinAltitude    float64
	MaxAltitude    float64
	MaxLift        float64
	Stalls         int
	GroundContacts int

	Frames []entity.Telemetry
}

// AltitudeChange returns how much height the pawn gained over the run.
func (r *Result) AltitudeChange(startAltitude float64) float64 {
	return r.Final.Altitude() - startAltitude
}

func (r *Result) observe(t entity.Telemetry) {
	r.MinSpeed = math.Min(r.MinSpeed, t.ForwardSpeed)
	r.MaxSpeed = math.Max(r.MaxSpeed, t.ForwardSpeed)
	r.MinAltitude = math.Min(r.MinAltitude, t.Altitude())
	r.MaxAltitude = math.Max(r.MaxAltitude, t.Altitude())
	r.MaxLift = math.Max(r.MaxLift, t.Lift)
}

// Config returns a copy of cfg with the scenario's tick rate applied. A nil
// cfg starts from the defaults.
func (s *Scenario) Config(cfg *config.FlightConfig) (*config.FlightConfig, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := *cfg
	if s.TickRate > 0 {
		out.Simulation.TickRate = s.TickRate
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &out, nil
}

// Feed sends the mouse input active at t to the pawn's camera rig.
func (s *Scenario) Feed(w *engine.World, id entity.ID, t float64) error {
	turn, lookUp := s.InputAt(t)
	if turn != 0 {
		if err := w.Axis(id, input.AxisTurn, turn); err != nil {
			return err
		}
	}
	if lookUp != 0 {
		if err := w.Axis(id, input.AxisLookUp, lookUp); err != nil {
			return err
		}
	}
	return nil
}

// Run flies s on a fresh world built from cfg. cfg is not modified. A
// correlation ID is generated when ctx has none.
func Run(ctx context.Context, s *Scenario, cfg *config.FlightConfig, opts Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	runCfg, err := s.Config(cfg)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if logging.GetCorrelationID(ctx) == "" {
		ctx = logging.WithCorrelationID(ctx, logging.GenerateCorrelationID())
	}

	w := engine.NewWorld(runCfg)
	w.Logger = logger
	w.Recorder = opts.Recorder
	if opts.RecordEvery > 0 {
		w.RecordEvery = opts.RecordEvery
	}

	pawn, err := w.Spawn(s.Kind(), s.Start.Location.toVec3(), s.Start.Rotation.Rotator())
	if err != nil {
		return nil, err
	}
	id := pawn.GetID()

	result := &Result{Scenario: s.Name, Pawn: s.Kind(), RunID: logging.GetCorrelationID(ctx)}
	start := pawn.Telemetry()
	result.Final = start
	result.MinSpeed, result.MaxSpeed = start.ForwardSpeed, start.ForwardSpeed
	result.MinAltitude, result.MaxAltitude = start.Altitude(), start.Altitude()

	countFor := func(n *int) event.Handler {
		return func(e event.Event) {
			if se, ok := e.(*event.SpeedEvent); ok && se.PawnID == uint64(id) {
				*n++
			}
		}
	}
	stalls := w.EventBus.Subscribe(event.GliderStalled, countFor(&result.Stalls))
	defer w.EventBus.Unsubscribe(stalls)
	contacts := w.EventBus.Subscribe(event.GroundContact, countFor(&result.GroundContacts))
	defer w.EventBus.Unsubscribe(contacts)

	ticks := int(math.Ceil(s.Duration*float64(runCfg.Simulation.TickRate) - 1e-9))
	dt := w.TimeStep

	logger.Info(ctx, "scenario started", "scenario", s.Name, "pawn", s.Pawn, "ticks", ticks)

	w.Start()
	defer w.Stop()

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.Feed(w, id, float64(i)*dt); err != nil {
			return nil, err
		}

		w.Step(dt)

		t := pawn.Telemetry()
		result.observe(t)
		if opts.SampleEvery > 0 && (i+1)%opts.SampleEvery == 0 {
			result.Frames = append(result.Frames, t)
		}
		result.Final = t
	}

	result.Ticks = w.Tick()
	result.Elapsed = w.Snapshot().Elapsed

	logger.Info(ctx, "scenario finished",
		"scenario", s.Name,
		"ticks", result.Ticks,
		"altitude", result.Final.Altitude(),
		"speed", result.Final.ForwardSpeed,
		"stalls", result.Stalls,
	)

	return result, nil
}
