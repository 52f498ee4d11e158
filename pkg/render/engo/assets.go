// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// Sprite names known to the AssetManager
const (
	SpriteReticle   = "reticle"
	SpriteDirection = "direction"
	SpritePawn      = "pawn"
	SpritePixel     = "pixel"
)

// AssetManager builds the HUD and debug textures. There are no image files;
// every sprite is drawn from a pixel pattern.
type AssetManager struct {
	sprites map[string]common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		sprites: make(map[string]common.Drawable),
	}
}

// LoadAssets creates every sprite. It needs an OpenGL context.
func (am *AssetManager) LoadAssets() error {
	for name, pattern := range spritePatterns() {
		am.sprites[name] = am.createSprite(pattern)
	}
	return nil
}

// spritePatterns returns the pixel patterns for each sprite. Rows may be
// shorter than the widest row.
func spritePatterns() map[string][][]int {
	// Reticle: hollow ring with a gap at each axis
	reticle := [][]int{
		{0, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0},
		{0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0},
		{0, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0},
	}

	// Flight direction: small cross
	direction := [][]int{
		{0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{1, 1, 0, 1, 0, 1, 1},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 1, 0, 0, 0},
	}

	// Pawn marker: filled diamond
	pawn := [][]int{
		{0, 0, 0, 1, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 1, 1, 1, 1, 1, 0},
		{1, 1, 1, 1, 1, 1, 1},
		{0, 1, 1, 1, 1, 1, 0},
		{0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 1, 0, 0, 0},
	}

	return map[string][][]int{
		SpriteReticle:   reticle,
		SpriteDirection: direction,
		SpritePawn:      pawn,
		SpritePixel:     {{1}},
	}
}

// patternSize returns the width and height of a pattern
func patternSize(pattern [][]int) (int, int) {
	width := 0
	for _, row := range pattern {
		if len(row) > width {
			width = len(row)
		}
	}
	return width, len(pattern)
}

// createSprite creates a sprite from a 2D pattern
func (am *AssetManager) createSprite(pattern [][]int) common.Drawable {
	width, height := patternSize(pattern)
	img := am.createBaseImage(width, height)
	am.drawPatternOnImage(img, pattern)
	return am.convertToEngoTexture(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided RGBA image.
// Sprites are white so that RenderComponent.Color can tint them.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int) {
	bounds := img.Bounds()
	for y, row := range pattern {
		if y >= bounds.Dy() {
			break
		}
		for x, pixel := range row {
			if x >= bounds.Dx() {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	draw.Draw(nrgbaImg, bounds, img, bounds.Min, draw.Src)

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// Sprite returns the named sprite, or nil before LoadAssets
func (am *AssetManager) Sprite(name string) common.Drawable {
	if sprite, exists := am.sprites[name]; exists {
		return sprite
	}
	return am.sprites[SpritePixel] // Default fallback
}

// Loaded reports whether LoadAssets has run
func (am *AssetManager) Loaded() bool {
	return len(am.sprites) > 0
}
