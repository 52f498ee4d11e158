package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/opd-ai/go-flyreborn/pkg/recorder"
	"github.com/opd-ai/go-flyreborn/pkg/scenario"
	"github.com/opd-ai/go-flyreborn/pkg/tuning"
)

func printVariant(w io.Writer, s *scenario.Scenario, r tuning.VariantResult) {
	fmt.Fprintf(w, "--- %s ---\n", r.Variant)
	if r.Err != nil {
		fmt.Fprintf(w, "error: %v\n\n", r.Err)
		return
	}

	res := r.Result
	final := res.Final
	fmt.Fprintf(w, "ticks=%d elapsed=%.2fs\n", res.Ticks, res.Elapsed)
	fmt.Fprintf(w, "final: location=(%.0f, %.0f, %.0f) rotation=(p=%.1f y=%.1f r=%.1f) speed=%.1f\n",
		final.Location.X(), final.Location.Y(), final.Location.Z(),
		final.Rotation.Pitch, final.Rotation.Yaw, final.Rotation.Roll,
		final.ForwardSpeed,
	)
	fmt.Fprintf(w, "speed: min=%.1f max=%.1f\n", res.MinSpeed, res.MaxSpeed)
	fmt.Fprintf(w, "altitude: min=%.1f max=%.1f change=%+.1f\n",
		res.MinAltitude, res.MaxAltitude, res.AltitudeChange(s.Start.Location.Z))
	fmt.Fprintf(w, "events: stalls=%d ground_contacts=%d max_lift=%.1f\n\n",
		res.Stalls, res.GroundContacts, res.MaxLift)
}

// printComparison ranks the variants by altitude kept
func printComparison(w io.Writer, results []tuning.VariantResult) {
	ok := make([]tuning.VariantResult, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		ok = append(ok, r)
	}
	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].Result.Final.Altitude() > ok[j].Result.Final.Altitude()
	})

	fmt.Fprintln(w, "=== Sweep Comparison ===")
	fmt.Fprintf(w, "variants=%d failed=%d\n", len(results), failed)
	for i, r := range ok {
		fmt.Fprintf(w, "  %d. %-36s final_alt=%8.1f final_speed=%7.1f stalls=%d\n",
			i+1, r.Variant, r.Result.Final.Altitude(), r.Result.Final.ForwardSpeed, r.Result.Stalls)
	}
	fmt.Fprintln(w)
}

func printRecording(w io.Writer, store recorder.Backend) error {
	sessions, err := store.Sessions()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Recorded Sessions ===")
	for _, s := range sessions {
		frames, err := store.Frames(s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s  %-36s pawn=%s frames=%d\n", s.ID, s.Name, s.PawnKind, len(frames))
	}
	return nil
}
