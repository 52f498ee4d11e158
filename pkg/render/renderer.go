// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/logging"
)

// NullRenderer is a simple implementation of entity.Renderer that only logs.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer that logs to logger.
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}

// RenderPawn implements entity.Renderer.
func (d *NullRenderer) RenderPawn(p entity.Pawn) {
	ctx := context.Background()
	if p == nil {
		d.logger.Debug(ctx, "RenderPawn called with nil pawn")
		return
	}
	t := p.Telemetry()
	d.logger.Debug(ctx, "RenderPawn called",
		"pawn_id", uint64(t.ID),
		"kind", string(t.Kind),
		"altitude", t.Altitude(),
		"forward_speed", t.ForwardSpeed,
	)
}

// DrawDebugLine implements entity.Renderer.
func (d *NullRenderer) DrawDebugLine(line entity.DebugLine) {
	ctx := context.Background()
	d.logger.Debug(ctx, "DrawDebugLine called",
		"length", line.End.Sub(line.Start).Len(),
		"lifetime", line.Lifetime,
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRendererWithLogger(logging.Discard())

// DebugLineBuffer keeps debug lines on screen until their lifetime runs out.
// Pawns queue fresh lines every tick, so a frame rate slower than the tick
// rate still shows the last lines drawn.
type DebugLineBuffer struct {
	lines []entity.DebugLine
}

// Add queues a line. Lines with no lifetime live for a single Update.
func (b *DebugLineBuffer) Add(line entity.DebugLine) {
	b.lines = append(b.lines, line)
}

// DrawDebugLine lets the buffer stand in for a renderer's line sink.
func (b *DebugLineBuffer) DrawDebugLine(line entity.DebugLine) {
	b.Add(line)
}

// Update ages every line by deltaTime and drops the expired ones.
func (b *DebugLineBuffer) Update(deltaTime float64) {
	live := b.lines[:0]
	for _, line := range b.lines {
		line.Lifetime -= deltaTime
		if line.Lifetime > 0 {
			live = append(live, line)
		}
	}
	b.lines = live
}

// Lines returns the live lines. The slice is only valid until the next Add
// or Update.
func (b *DebugLineBuffer) Lines() []entity.DebugLine {
	return b.lines
}

// Len returns the number of live lines.
func (b *DebugLineBuffer) Len() int {
	return len(b.lines)
}

// Reset drops every line.
func (b *DebugLineBuffer) Reset() {
	b.lines = b.lines[:0]
}
