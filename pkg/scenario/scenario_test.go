package scenario

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-flyreborn/pkg/config"
	"github.com/opd-ai/go-flyreborn/pkg/engine"
	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

const validYAML = `
name: climb out
pawn: Glider
duration: 2.5
tickRate: 30
start:
  location: {x: 10, y: -20, z: 1500}
  rotation: {pitch: 15, yaw: 90}
inputs:
  - {at: 0, hold: 1, turn: 2}
  - {at: 0.5, hold: 1, turn: 1, lookUp: -3}
`

func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Name != "climb out" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Kind() != entity.KindGlider {
		t.Errorf("Kind() = %q, want glider", s.Kind())
	}
	if s.Duration != 2.5 || s.TickRate != 30 {
		t.Errorf("Duration, TickRate = %v, %v", s.Duration, s.TickRate)
	}
	if s.Start.Location.Z != 1500 || s.Start.Rotation.Yaw != 90 {
		t.Errorf("Start = %+v", s.Start)
	}
	if len(s.Inputs) != 2 || s.Inputs[1].LookUp != -3 {
		t.Errorf("Inputs = %+v", s.Inputs)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"malformed", "name: [", "failed to parse"},
		{"unknown field", "name: x\npawn: glider\nduration: 1\nspeed: 3", "speed"},
		{"missing name", "pawn: glider\nduration: 1", "name"},
		{"unknown pawn", "name: x\npawn: rocket\nduration: 1", "unknown pawn kind"},
		{"zero duration", "name: x\npawn: glider\nduration: 0", "duration"},
		{"bad tick rate", "name: x\npawn: glider\nduration: 1\ntickRate: 5000", "tick rate"},
		{"negative hold", "name: x\npawn: glider\nduration: 1\ninputs:\n  - {at: 0, hold: -1}", "inputs[0].hold"},
		{"negative start", "name: x\npawn: glider\nduration: 1\ninputs:\n  - {at: -1, hold: 1}", "inputs[0].at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_UnknownPawnIsSentinel(t *testing.T) {
	_, err := Parse([]byte("name: x\npawn: rocket\nduration: 1"))
	if !errors.Is(err, entity.ErrUnknownPawnKind) {
		t.Errorf("error = %v, want ErrUnknownPawnKind", err)
	}
}

func TestScenario_InputAt(t *testing.T) {
	s, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		t          float64
		turn, look float64
	}{
		{0, 2, 0},
		{0.49, 2, 0},
		{0.5, 3, -3},
		{0.99, 3, -3},
		{1, 1, -3},
		{1.5, 0, 0},
		{10, 0, 0},
	}

	for _, tt := range tests {
		turn, look := s.InputAt(tt.t)
		if turn != tt.turn || look != tt.look {
			t.Errorf("InputAt(%v) = (%v, %v), want (%v, %v)", tt.t, turn, look, tt.turn, tt.look)
		}
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("testdata/bank_left.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Kind() != entity.KindFlying {
		t.Errorf("Kind() = %q", s.Kind())
	}

	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestRun_FollowsScriptedTurn(t *testing.T) {
	s, err := Load("testdata/bank_left.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	result, err := Run(context.Background(), s, nil, Options{SampleEvery: 60})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Ticks != 600 {
		t.Errorf("Ticks = %d, want 600", result.Ticks)
	}
	if math.Abs(result.Elapsed-10) > 1e-6 {
		t.Errorf("Elapsed = %f, want 10", result.Elapsed)
	}
	if yaw := result.Final.Rotation.Yaw; yaw < 35 || yaw > 55 {
		t.Errorf("final yaw = %f, want close to 45", yaw)
	}
	if len(result.Frames) != 10 {
		t.Errorf("len(Frames) = %d, want 10", len(result.Frames))
	}
}

func TestRun_TickRateOverride(t *testing.T) {
	s := &Scenario{Name: "short", Pawn: "glider", Duration: 1, TickRate: 30}
	s.Start.Location.Z = 2000

	cfg := config.DefaultConfig()
	result, err := Run(context.Background(), s, cfg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Ticks != 30 {
		t.Errorf("Ticks = %d, want 30", result.Ticks)
	}
	if cfg.Simulation.TickRate != 60 {
		t.Errorf("Run modified the caller's config: tick rate %d", cfg.Simulation.TickRate)
	}
}

// logLines decodes JSON log output keyed by message.
func logLines(t *testing.T, buf *bytes.Buffer) map[string]map[string]any {
	t.Helper()
	lines := make(map[string]map[string]any)
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", sc.Text(), err)
		}
		msg, _ := entry["msg"].(string)
		lines[msg] = entry
	}
	return lines
}

func TestRun_TagsLogsWithCorrelationID(t *testing.T) {
	s := &Scenario{Name: "tagged", Pawn: "glider", Duration: 0.5}
	s.Start.Location.Z = 2000

	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
	}{
		{"generated", context.Background(), ""},
		{"from context", logging.WithCorrelationID(context.Background(), "run-42"), "run-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewLoggerWithWriter(&buf, slog.LevelInfo)

			result, err := Run(tt.ctx, s, nil, Options{Logger: logger})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if result.RunID == "" {
				t.Fatal("RunID is empty")
			}
			if tt.wantID != "" && result.RunID != tt.wantID {
				t.Errorf("RunID = %q, want %q", result.RunID, tt.wantID)
			}

			lines := logLines(t, &buf)
			for _, msg := range []string{"scenario started", "scenario finished"} {
				entry, ok := lines[msg]
				if !ok {
					t.Fatalf("no %q log line in %s", msg, buf.String())
				}
				if got := entry["correlation_id"]; got != result.RunID {
					t.Errorf("%q correlation_id = %v, want %q", msg, got, result.RunID)
				}
			}
		})
	}
}

func TestScenario_Config(t *testing.T) {
	base := config.DefaultConfig()

	tests := []struct {
		name     string
		tickRate int
		want     int
	}{
		{"override", 120, 120},
		{"inherit", 0, base.Simulation.TickRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{Name: "cfg", Pawn: "glider", Duration: 1, TickRate: tt.tickRate}
			cfg, err := s.Config(base)
			if err != nil {
				t.Fatalf("Config failed: %v", err)
			}
			if cfg.Simulation.TickRate != tt.want {
				t.Errorf("TickRate = %d, want %d", cfg.Simulation.TickRate, tt.want)
			}
			if cfg == base {
				t.Error("Config returned the caller's config")
			}
		})
	}
	if base.Simulation.TickRate != 60 {
		t.Errorf("Config modified the caller's config: tick rate %d", base.Simulation.TickRate)
	}

	bad := config.DefaultConfig()
	bad.Simulation.TickRate = 0
	s := &Scenario{Name: "cfg", Pawn: "glider", Duration: 1}
	if _, err := s.Config(bad); err == nil {
		t.Error("expected error for invalid config")
	}
}

// A hand-driven world built from Config and fed with Feed flies the same
// path as Run.
func TestScenario_FeedMatchesRun(t *testing.T) {
	s := &Scenario{
		Name:     "climb",
		Pawn:     "flying",
		Duration: 1,
		TickRate: 120,
		Inputs:   []Input{{At: 0, Hold: 0.5, Turn: 0.2, LookUp: 0.1}},
	}
	s.Start.Location.Z = 2000

	want, err := Run(context.Background(), s, nil, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cfg, err := s.Config(nil)
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	w := engine.NewWorld(cfg)
	pawn, err := w.Spawn(s.Kind(), s.Start.Location.toVec3(), s.Start.Rotation.Rotator())
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	for i := uint64(0); i < want.Ticks; i++ {
		if err := s.Feed(w, pawn.GetID(), float64(i)*w.TimeStep); err != nil {
			t.Fatalf("Feed failed: %v", err)
		}
		w.Step(w.TimeStep)
	}

	if want.Ticks != 120 {
		t.Errorf("Ticks = %d, want 120", want.Ticks)
	}
	got := pawn.Telemetry()
	if math.Abs(got.Rotation.Yaw-want.Final.Rotation.Yaw) > 1e-9 ||
		math.Abs(got.Rotation.Pitch-want.Final.Rotation.Pitch) > 1e-9 {
		t.Errorf("rotation = %+v, want %+v", got.Rotation, want.Final.Rotation)
	}
	if got.Rotation.Yaw == 0 {
		t.Error("scripted turn had no effect")
	}

	if err := s.Feed(w, pawn.GetID()+100, 0); !errors.Is(err, engine.ErrPawnNotFound) {
		t.Errorf("Feed for unknown pawn = %v, want ErrPawnNotFound", err)
	}
}

func TestRun_CountsStalls(t *testing.T) {
	s := &Scenario{Name: "stall", Pawn: "glider", Duration: 0.5}
	s.Start.Location.Z = 5000
	s.Start.Rotation.Pitch = 60

	cfg := config.DefaultConfig()
	cfg.Glider.StartSpeed = 10

	result, err := Run(context.Background(), s, cfg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stalls == 0 {
		t.Error("expected a stall climbing at low speed")
	}
	if result.MinSpeed > 0 {
		t.Errorf("MinSpeed = %f, want a stalled speed", result.MinSpeed)
	}
}

func TestRun_CountsGroundContact(t *testing.T) {
	s := &Scenario{Name: "crash", Pawn: "flying", Duration: 1}
	s.Start.Location.Z = 60
	s.Start.Rotation.Pitch = -45

	cfg := config.DefaultConfig()
	cfg.Simulation.GroundEnabled = true
	cfg.Body.EnableGravity = true

	result, err := Run(context.Background(), s, cfg, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.GroundContacts == 0 {
		t.Error("expected a ground contact")
	}
	if result.MaxAltitude < 60 {
		t.Errorf("MaxAltitude = %f, want at least the start height", result.MaxAltitude)
	}
}

type countingRecorder struct{ n int }

func (r *countingRecorder) Record(ctx context.Context, tick uint64, elapsed float64, t entity.Telemetry) error {
	r.n++
	return nil
}

func TestRun_Recorder(t *testing.T) {
	s := &Scenario{Name: "recorded", Pawn: "glider", Duration: 1}
	rec := &countingRecorder{}

	if _, err := Run(context.Background(), s, nil, Options{Recorder: rec, RecordEvery: 10}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rec.n != 6 {
		t.Errorf("recorded %d samples, want 6", rec.n)
	}
}

func TestRun_Errors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scenario{Name: "cancelled", Pawn: "glider", Duration: 1}
	if _, err := Run(ctx, s, nil, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	bad := &Scenario{Name: "bad", Pawn: "glider"}
	if _, err := Run(context.Background(), bad, nil, Options{}); err == nil {
		t.Error("expected an error for a scenario without a duration")
	}
}
