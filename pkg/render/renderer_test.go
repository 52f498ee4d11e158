// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

func newGlider(id entity.ID, location mgl64.Vec3) *entity.GliderPawn {
	body := physics.NewBody(physics.DefaultBodyConfig(), physics.NewTransform(location, physics.Rotator{}))
	p := entity.NewGliderPawn(id, body, entity.DefaultGliderConfig())
	p.BeginPlay()
	return p
}

func newFlying(id entity.ID, location mgl64.Vec3) *entity.FlyingPawn {
	body := physics.NewBody(physics.DefaultBodyConfig(), physics.NewTransform(location, physics.Rotator{}))
	p := entity.NewFlyingPawn(id, body, entity.DefaultFlyingConfig())
	p.BeginPlay()
	return p
}

// captureRenderer returns a NullRenderer logging into a buffer
func captureRenderer() (*NullRenderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewNullRendererWithLogger(logging.NewLoggerWithWriter(&buf, slog.LevelDebug)), &buf
}

func TestNullRenderer_LogsExpectedMessages(t *testing.T) {
	tests := []struct {
		name     string
		call     func(r *NullRenderer)
		expected []string
	}{
		{
			name:     "Clear",
			call:     func(r *NullRenderer) { r.Clear() },
			expected: []string{"Clear called"},
		},
		{
			name:     "Present",
			call:     func(r *NullRenderer) { r.Present() },
			expected: []string{"Present called"},
		},
		{
			name:     "RenderPawn",
			call:     func(r *NullRenderer) { r.RenderPawn(newGlider(7, mgl64.Vec3{0, 0, 1200})) },
			expected: []string{"RenderPawn called", `"pawn_id":7`, `"kind":"glider"`, `"altitude":1200`},
		},
		{
			name:     "RenderPawn nil",
			call:     func(r *NullRenderer) { r.RenderPawn(nil) },
			expected: []string{"RenderPawn called with nil pawn"},
		},
		{
			name: "DrawDebugLine",
			call: func(r *NullRenderer) {
				r.DrawDebugLine(entity.NewDebugLine(mgl64.Vec3{}, mgl64.Vec3{300, 400, 0}, entity.ColorRed))
			},
			expected: []string{"DrawDebugLine called", `"length":500`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := captureRenderer()
			tt.call(r)
			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("Expected log to contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestNullRenderer_SilentAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	r := NewNullRendererWithLogger(logging.NewLoggerWithWriter(&buf, slog.LevelInfo))
	r.Clear()
	r.Present()
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got: %s", buf.String())
	}
}

func TestNullRendererInstance_ImplementsRenderer(t *testing.T) {
	var _ entity.Renderer = NullRendererInstance
	var _ entity.Renderer = NewNullRenderer()
	var _ entity.Renderer = NewNullRendererWithLogger(nil)
}

func TestDebugLineBuffer_ExpiresLines(t *testing.T) {
	var b DebugLineBuffer

	short := entity.NewDebugLine(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, entity.ColorCyan)
	long := short
	long.Lifetime = 1
	b.Add(short)
	b.DrawDebugLine(long)

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}

	b.Update(0.05)
	if b.Len() != 2 {
		t.Errorf("after 0.05s Len() = %d, want 2", b.Len())
	}

	b.Update(0.06)
	if b.Len() != 1 {
		t.Fatalf("after 0.11s Len() = %d, want 1", b.Len())
	}
	if got := b.Lines()[0].Lifetime; got < 0.88 || got > 0.9 {
		t.Errorf("remaining lifetime = %f, want 0.89", got)
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Reset left %d lines", b.Len())
	}
}

func TestDebugLineBuffer_ZeroLifetimeLastsOneUpdate(t *testing.T) {
	var b DebugLineBuffer
	b.Add(entity.DebugLine{End: mgl64.Vec3{1, 0, 0}})
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 before update", b.Len())
	}
	b.Update(1.0 / 60.0)
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after update", b.Len())
	}
}
