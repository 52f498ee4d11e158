// Package tuning flies one scenario under several configurations in
// parallel and collects the results for comparison.
package tuning

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
	"github.com/opd-ai/go-flyreborn/pkg/recorder"
	"github.com/opd-ai/go-flyreborn/pkg/scenario"
)

// Variant is one configuration to fly. Apply edits a private copy of the
// sweep's base configuration.
type Variant struct {
	Name  string
	Apply func(cfg *config.FlightConfig)
}

// Param builds one variant per value, each setting a single parameter.
// Names read "<name>=<value>".
func Param(name string, values []float64, set func(cfg *config.FlightConfig, v float64)) []Variant {
	variants := make([]Variant, 0, len(values))
	for _, v := range values {
		variants = append(variants, Variant{
			Name:  fmt.Sprintf("%s=%g", name, v),
			Apply: func(cfg *config.FlightConfig) { set(cfg, v) },
		})
	}
	return variants
}

// VariantResult is the outcome of one variant
type VariantResult struct {
	Variant string
	Config  config.FlightConfig
	Result  *scenario.Result
	Err     error
}

// Sweep flies Scenario once per variant
type Sweep struct {
	Scenario *scenario.Scenario
	Base     *config.FlightConfig
	Variants []Variant

	// Backend, when set, stores one recorded session per variant.
	Backend     recorder.Backend
	RecordEvery int

	Logger *logging.Logger
}

// ErrNoVariants is returned by Run for an empty sweep
var ErrNoVariants = errors.New("sweep has no variants")

// Run flies every variant on a pool of workers goroutines. Results are
// returned in variant order; a failing variant carries its error and does
// not stop the others. workers <= 0 uses one worker per CPU.
func (s *Sweep) Run(ctx context.Context, workers int) ([]VariantResult, error) {
	if s.Scenario == nil {
		return nil, errors.New("sweep has no scenario")
	}
	if len(s.Variants) == 0 {
		return nil, ErrNoVariants
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := s.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p interface{}) {
		logger.Warn(ctx, "sweep worker panicked", "panic", fmt.Sprint(p))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]VariantResult, len(s.Variants))
	var wg sync.WaitGroup

	for i, v := range s.Variants {
		results[i].Variant = v.Name

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.runVariant(ctx, v, logger)
		})
		if err != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("failed to submit variant: %w", err)
		}
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info(ctx, "sweep finished",
		"scenario", s.Scenario.Name, "variants", len(results), "failed", failed, "workers", workers)

	return results, ctx.Err()
}

func (s *Sweep) runVariant(ctx context.Context, v Variant, logger *logging.Logger) (out VariantResult) {
	out.Variant = v.Name
	ctx = logging.WithCorrelationID(ctx, logging.GenerateCorrelationID())
	defer func() {
		if p := recover(); p != nil {
			out.Err = fmt.Errorf("variant %q panicked: %v", v.Name, p)
		}
	}()

	base := s.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	out.Config = *base
	if v.Apply != nil {
		v.Apply(&out.Config)
	}

	opts := scenario.Options{Logger: logger, RecordEvery: s.RecordEvery}

	logger.Debug(ctx, "variant started", "scenario", s.Scenario.Name, "variant", v.Name)

	var rec *recorder.Recorder
	if s.Backend != nil {
		rec = recorder.New(s.Backend, fmt.Sprintf("%s/%s", s.Scenario.Name, v.Name), out.Config)
		rec.SetLogger(logger)
		opts.Recorder = rec
	}

	out.Result, out.Err = scenario.Run(ctx, s.Scenario, &out.Config, opts)

	if rec != nil {
		if err := rec.Close(ctx); err != nil {
			out.Err = errors.Join(out.Err, fmt.Errorf("failed to close recorder: %w", err))
		}
	}
	return out
}
