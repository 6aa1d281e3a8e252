package tank

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"time"

	"golang.org/x/image/draw"

	"pixel-tank/internal/assets"
)

// Options configures a sprite at construction.
type Options struct {
	Width, Height int
	Transparent   TransparencyRule
	Timeout       time.Duration // off-screen wait before a wandering sprite re-enters
	Extent        Extent        // tank size, used only for wander wrap-around
	Mode          Mode
	Speed         int // ticks per positional update in wander mode; 0 means 1
	Start         image.Point
	Orientation   Orientation

	Now  func() time.Time // defaults to time.Now
	Rand *rand.Rand       // defaults to a time-seeded source
}

// Sprite is a movable, masked image layer.
type Sprite struct {
	name  string
	image *image.NRGBA
	mask  *image.Alpha

	pos         image.Point
	orientation Orientation
	mode        Mode

	speed     int
	moveCount int

	visibility Visibility
	timeout    time.Duration
	deadline   time.Time
	extent     Extent

	now func() time.Time
	rng *rand.Rand
}

// LoadSprite decodes the image at path and builds a sprite from it.
func LoadSprite(path string, opts Options) (*Sprite, error) {
	src, err := assets.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return NewSprite(path, src, opts)
}

// NewSprite resizes src to the requested size and derives its mask.
func NewSprite(name string, src image.Image, opts Options) (*Sprite, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("sprite %s: %dx%d: %w", name, opts.Width, opts.Height, ErrInvalidDimensions)
	}
	if opts.Mode == AutonomousWander && !opts.Extent.Valid() {
		return nil, fmt.Errorf("sprite %s: wander extent %s: %w", name, opts.Extent, ErrInvalidDimensions)
	}

	img := resize(src, opts.Width, opts.Height)

	s := &Sprite{
		name:        name,
		image:       img,
		mask:        DeriveMask(img, opts.Transparent),
		pos:         opts.Start,
		orientation: opts.Orientation,
		mode:        opts.Mode,
		speed:       1,
		moveCount:   1,
		visibility:  OnScreen,
		timeout:     opts.Timeout,
		extent:      opts.Extent,
		now:         opts.Now,
		rng:         opts.Rand,
	}
	s.SetSpeed(opts.Speed)
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return s, nil
}

// resize scales src into a fresh NRGBA grid anchored at the origin.
func resize(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func (s *Sprite) Name() string { return s.name }

// Image returns the resized source pixels. Callers must not modify it.
func (s *Sprite) Image() *image.NRGBA { return s.image }

// Mask returns the derived transparency mask. Callers must not modify it.
func (s *Sprite) Mask() *image.Alpha { return s.mask }

func (s *Sprite) Position() image.Point { return s.pos }

// SetPosition moves the top-left corner. Positions outside the tank are allowed.
func (s *Sprite) SetPosition(p image.Point) { s.pos = p }

// Size returns the fixed width and height.
func (s *Sprite) Size() image.Point { return s.image.Rect.Size() }

func (s *Sprite) Orientation() Orientation { return s.orientation }

func (s *Sprite) SetOrientation(o Orientation) { s.orientation = o }

func (s *Sprite) Mode() Mode { return s.mode }

func (s *Sprite) Visibility() Visibility { return s.visibility }

// SetSpeed sets how many ticks pass between wander moves. Values below 1 mean 1.
func (s *Sprite) SetSpeed(divisor int) {
	if divisor < 1 {
		divisor = 1
	}
	s.speed = divisor
	if s.moveCount > divisor {
		s.moveCount = divisor
	}
}

// Oriented returns the image and mask as they are painted, mirrored when the
// sprite faces the other way. The cached grids are never flipped in place.
func (s *Sprite) Oriented() (img, mask image.Image) {
	if s.orientation == Mirrored {
		return FlipHorizontal(s.image), FlipHorizontal(s.mask)
	}
	return s.image, s.mask
}

// CompositeOnto paints the sprite onto frame at its position. Masked pixels
// leave frame untouched, unmasked pixels replace it. Anything outside the
// frame bounds is clipped.
func (s *Sprite) CompositeOnto(frame *image.NRGBA) {
	if s.mask.Rect != s.image.Rect {
		panic(fmt.Sprintf("tank: sprite %s mask %v does not match image %v", s.name, s.mask.Rect, s.image.Rect))
	}

	src, mask := s.Oriented()
	area := image.Rectangle{Min: s.pos, Max: s.pos.Add(s.Size())}.Intersect(frame.Rect)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		sy := y - s.pos.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			sx := x - s.pos.X
			if color.AlphaModel.Convert(mask.At(sx, sy)).(color.Alpha).A == maskTransparent {
				continue
			}
			frame.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(sx, sy)).(color.NRGBA))
		}
	}
}
