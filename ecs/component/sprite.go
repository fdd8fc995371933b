package component

import "github.com/hajimehoshi/ebiten/v2"

// Sprite draws Image centered on the entity Transform. OriginX/OriginY are
// the pixel offsets of that center inside the image.
type Sprite struct {
	Image      *ebiten.Image
	OriginX    float64
	OriginY    float64
	FacingLeft bool
	// Alpha of 0 is treated as fully opaque.
	Alpha  float64
	Hidden bool
}

var SpriteComponent = NewComponent[Sprite]()
