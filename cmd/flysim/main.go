// cmd/flysim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
	"github.com/opd-ai/go-flyreborn/pkg/recorder"
	"github.com/opd-ai/go-flyreborn/pkg/scenario"
	"github.com/opd-ai/go-flyreborn/pkg/tuning"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON or YAML configuration file")
	createDefault := flag.String("default", "", "Write the default configuration to this path and exit")
	scenarioPath := flag.String("scenario", "scenarios/glide.yaml", "Scenario to fly")
	sweepKey := flag.String("sweep", "", "Config key to sweep, e.g. glider.liftScalar")
	sweepValues := flag.String("values", "", "Comma separated values for -sweep")
	workers := flag.Int("workers", runtime.NumCPU(), "Parallel scenario runs for a sweep")
	backend := flag.String("record", "", "Recorder backend: none, memory or sqlite (overrides config)")
	dbPath := flag.String("db", "", "SQLite file for -record sqlite; empty keeps it in memory")
	recordEvery := flag.Int("record-every", 0, "Record telemetry every N ticks (overrides config)")
	listParams := flag.Bool("params", false, "List sweepable config keys and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *listParams {
		for _, name := range tuning.ParamNames() {
			fmt.Println(name)
		}
		return
	}

	if *createDefault != "" {
		if err := config.SaveConfig(config.DefaultConfig(), *createDefault); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote default configuration to %s\n", *createDefault)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Recorder.Backend = *backend
	}
	if *dbPath != "" {
		cfg.Recorder.Path = *dbPath
	}
	if *recordEvery > 0 {
		cfg.Recorder.RecordEvery = *recordEvery
	}

	logger := logging.NewLoggerWithWriter(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	if err := run(ctx, logger, cfg, *scenarioPath, *sweepKey, *sweepValues, *workers); err != nil {
		logger.Error(ctx, "flysim failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logging.Logger, cfg *config.FlightConfig, scenarioPath, sweepKey, sweepValues string, workers int) error {
	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	store, err := recorder.NewBackend(cfg.Recorder)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.Init(); err != nil {
			return logging.WrapError(err, "init recorder", "backend", cfg.Recorder.Backend)
		}
		defer store.Close()
	}

	fmt.Printf("=== Flight Report ===\n")
	fmt.Printf("scenario=%q pawn=%s duration=%.1fs tick_rate=%d inputs=%d recorder=%s\n\n",
		s.Name, s.Pawn, s.Duration, tickRate(s, cfg), len(s.Inputs), recorderName(cfg))

	var results []tuning.VariantResult
	if sweepKey == "" {
		results, err = runSingle(ctx, logger, cfg, s, store)
	} else {
		results, err = runSweep(ctx, logger, cfg, s, store, sweepKey, sweepValues, workers)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		printVariant(os.Stdout, s, r)
	}
	if len(results) > 1 {
		printComparison(os.Stdout, results)
	}
	if store != nil {
		return printRecording(os.Stdout, store)
	}
	return nil
}

func runSingle(ctx context.Context, logger *logging.Logger, cfg *config.FlightConfig, s *scenario.Scenario, store recorder.Backend) ([]tuning.VariantResult, error) {
	opts := scenario.Options{Logger: logger, RecordEvery: cfg.Recorder.RecordEvery}

	var rec *recorder.Recorder
	if store != nil {
		rec = recorder.New(store, s.Name, cfg)
		rec.SetLogger(logger)
		opts.Recorder = rec
	}

	result, err := scenario.Run(ctx, s, cfg, opts)
	if rec != nil {
		err = errors.Join(err, rec.Close(ctx))
	}
	if err != nil {
		return nil, err
	}
	return []tuning.VariantResult{{Variant: "base", Config: *cfg, Result: result}}, nil
}

func runSweep(ctx context.Context, logger *logging.Logger, cfg *config.FlightConfig, s *scenario.Scenario, store recorder.Backend, key, values string, workers int) ([]tuning.VariantResult, error) {
	parsed, err := parseValues(values)
	if err != nil {
		return nil, err
	}
	variants, err := tuning.ParamVariants(key, parsed)
	if err != nil {
		return nil, err
	}

	sweep := &tuning.Sweep{
		Scenario:    s,
		Base:        cfg,
		Variants:    variants,
		Backend:     store,
		RecordEvery: cfg.Recorder.RecordEvery,
		Logger:      logger,
	}
	return sweep.Run(ctx, workers)
}

// parseValues reads a comma separated list of numbers
func parseValues(list string) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return nil, errors.New("-values is required with -sweep")
	}
	var out []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sweep value %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func tickRate(s *scenario.Scenario, cfg *config.FlightConfig) int {
	if s.TickRate > 0 {
		return s.TickRate
	}
	return cfg.Simulation.TickRate
}

func recorderName(cfg *config.FlightConfig) string {
	switch cfg.Recorder.Backend {
	case "", config.RecorderNone:
		return config.RecorderNone
	case config.RecorderSQLite:
		if cfg.Recorder.Path == "" {
			return "sqlite(memory)"
		}
		return fmt.Sprintf("sqlite(%s)", cfg.Recorder.Path)
	default:
		return cfg.Recorder.Backend
	}
}
