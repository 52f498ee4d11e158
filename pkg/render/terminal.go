package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-flyreborn/pkg/entity"
	"github.com/opd-ai/go-flyreborn/pkg/physics"
)

// TerminalRenderer provides a simple ASCII top-down view for terminals.
// World X runs right and world Y runs up the screen.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	status    []string
	out       io.Writer

	// ClearScreen emits the ANSI clear sequence before each frame.
	ClearScreen bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	return NewTerminalRendererWithWriter(os.Stdout, width, height, scale)
}

// NewTerminalRendererWithWriter creates a terminal renderer that writes frames to out
func NewTerminalRendererWithWriter(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}
	if scale <= 0 {
		scale = 1
	}

	r := &TerminalRenderer{
		width:       width,
		height:      height,
		buffer:      buffer,
		scale:       scale,
		out:         out,
		ClearScreen: out == os.Stdout,
	}
	r.Clear()
	return r
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos mgl64.Vec3) (int, int) {
	screenX := int(math.Floor((pos.X()-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor(float64(r.height)/2 - (pos.Y()-r.centerPos.Y)/r.scale))
	return screenX, screenY
}

func (r *TerminalRenderer) plot(pos mgl64.Vec3, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
	r.status = r.status[:0]
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	var sb strings.Builder

	if r.ClearScreen {
		sb.WriteString("\033[H\033[2J")
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)

	for _, line := range r.status {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	fmt.Fprint(r.out, sb.String())
}

// RenderPawn implements entity.Renderer
func (r *TerminalRenderer) RenderPawn(p entity.Pawn) {
	t := p.Telemetry()

	symbol := 'F'
	if t.Kind == entity.KindGlider {
		symbol = 'G'
	}
	r.plot(t.Location, symbol)

	r.status = append(r.status, fmt.Sprintf(
		"#%d %-6s alt %8.1f  speed %7.1f  yaw %6.1f  pitch %6.1f  roll %6.1f  off %5.1f",
		t.ID, t.Kind, t.Altitude(), t.ForwardSpeed,
		t.Rotation.Yaw, t.Rotation.Pitch, t.Rotation.Roll, t.AngleOffTarget,
	))
}

// DrawDebugLine implements entity.Renderer. The line is sampled once per
// screen cell so that short lines still show up.
func (r *TerminalRenderer) DrawDebugLine(line entity.DebugLine) {
	delta := line.End.Sub(line.Start)
	steps := int(math.Ceil(math.Hypot(delta.X(), delta.Y()) / r.scale))
	if steps < 1 {
		steps = 1
	}

	symbol := lineSymbol(line)
	for i := 1; i <= steps; i++ {
		r.plotIfEmpty(line.Start.Add(delta.Mul(float64(i)/float64(steps))), symbol)
	}
}

// plotIfEmpty keeps pawn symbols on top of their debug lines.
func (r *TerminalRenderer) plotIfEmpty(pos mgl64.Vec3, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height && r.buffer[y][x] == ' ' {
		r.buffer[y][x] = symbol
	}
}

func lineSymbol(line entity.DebugLine) rune {
	switch line.Color {
	case entity.ColorCyan:
		return '.'
	case entity.ColorRed:
		return '+'
	case entity.ColorGreen:
		return '^'
	default:
		return '*'
	}
}
