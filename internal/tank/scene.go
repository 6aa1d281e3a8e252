package tank

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"pixel-tank/internal/assets"
)

// Scene is a background plus an ordered list of sprites. Sprites are painted
// in the order they were added, so later sprites appear in front.
type Scene struct {
	extent     Extent
	background *image.NRGBA
	sprites    []*Sprite
	frame      *image.NRGBA
}

// NewScene creates a scene with an opaque black background.
func NewScene(extent Extent) (*Scene, error) {
	if !extent.Valid() {
		return nil, fmt.Errorf("scene %s: %w", extent, ErrInvalidDimensions)
	}
	bounds := image.Rect(0, 0, extent.Columns, extent.Rows)
	bg := image.NewNRGBA(bounds)
	draw.Draw(bg, bounds, image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)

	return &Scene{
		extent:     extent,
		background: bg,
		frame:      image.NewNRGBA(bounds),
	}, nil
}

// SetBackground replaces the background, resizing img to the scene extent.
func (s *Scene) SetBackground(img image.Image) {
	s.background = resize(img, s.extent.Columns, s.extent.Rows)
}

// LoadBackground decodes the image at path and uses it as the background.
func (s *Scene) LoadBackground(path string) error {
	img, err := assets.LoadImage(path)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	s.SetBackground(img)
	return nil
}

// AddSprite appends sp in front of every sprite already in the scene.
func (s *Scene) AddSprite(sp *Sprite) {
	s.sprites = append(s.sprites, sp)
}

// Sprites returns the sprites in paint order.
func (s *Scene) Sprites() []*Sprite { return s.sprites }

func (s *Scene) Extent() Extent { return s.extent }

// Background returns the background surface. Callers must not modify it.
func (s *Scene) Background() *image.NRGBA { return s.background }

// Render produces the next frame: the background is restored, then every
// sprite is advanced by cmd and painted in order. The returned buffer is
// reused by the next call and must be consumed before then.
func (s *Scene) Render(cmd Command) *image.NRGBA {
	copy(s.frame.Pix, s.background.Pix)
	for _, sp := range s.sprites {
		sp.Advance(cmd)
		sp.CompositeOnto(s.frame)
	}
	return s.frame
}
