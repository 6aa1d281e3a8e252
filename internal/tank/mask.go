package tank

import (
	"image"
	"image/color"
)

const (
	maskTransparent = 0
	maskOpaque      = 255
)

// ChannelRange is an inclusive bound on one color channel.
type ChannelRange struct {
	Min, Max uint8
}

// Contains reports whether v lies within the range.
func (r ChannelRange) Contains(v uint8) bool {
	return v >= r.Min && v <= r.Max
}

// TransparencyRule marks a pixel transparent when all three of its channels
// fall inside their ranges.
type TransparencyRule struct {
	R, G, B ChannelRange
}

// Matches reports whether c is transparent under the rule. Alpha is ignored.
func (t TransparencyRule) Matches(c color.NRGBA) bool {
	return t.R.Contains(c.R) && t.G.Contains(c.G) && t.B.Contains(c.B)
}

// DeriveMask builds the binary alpha mask for img: 0 where the rule matches,
// 255 everywhere else. The mask has exactly the bounds of img.
func DeriveMask(img *image.NRGBA, rule TransparencyRule) *image.Alpha {
	b := img.Bounds()
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rule.Matches(img.NRGBAAt(x, y)) {
				mask.SetAlpha(x, y, color.Alpha{A: maskTransparent})
			} else {
				mask.SetAlpha(x, y, color.Alpha{A: maskOpaque})
			}
		}
	}
	return mask
}

// flipped is a left-right mirrored view of an image. Nothing is copied.
type flipped struct {
	image.Image
}

func (f flipped) At(x, y int) color.Color {
	b := f.Image.Bounds()
	return f.Image.At(b.Min.X+b.Max.X-1-x, y)
}

// FlipHorizontal returns a mirrored view of img. Flipping twice yields the
// original grid.
func FlipHorizontal(img image.Image) image.Image {
	if f, ok := img.(flipped); ok {
		return f.Image
	}
	return flipped{img}
}
