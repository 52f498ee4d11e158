package entity

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Debug line colors used by the pawns.
var (
	ColorCyan  = color.RGBA{0, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
)

// Default debug line lifetime in seconds and thickness in pixels.
const (
	DebugLineLifetime  = 0.1
	DebugLineThickness = 2.0
)

// DebugLine is a world-space line drawn for a short time.
type DebugLine struct {
	Start     mgl64.Vec3
	End       mgl64.Vec3
	Color     color.RGBA
	Lifetime  float64
	Thickness float64
}

// NewDebugLine creates a line with the default lifetime and thickness.
func NewDebugLine(start, end mgl64.Vec3, c color.RGBA) DebugLine {
	return DebugLine{
		Start:     start,
		End:       end,
		Color:     c,
		Lifetime:  DebugLineLifetime,
		Thickness: DebugLineThickness,
	}
}

// Renderer handles rendering pawns and their debug lines
type Renderer interface {
	Clear()
	RenderPawn(p Pawn)
	DrawDebugLine(line DebugLine)
	Present()
}
