package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"pixel-tank/internal/layout"
)

// band is one colour stop of the background palette.
type band struct {
	upTo float64
	c    color.NRGBA
}

// forest shades noise values from deep water through grass to canopy.
var forest = []band{
	{0.30, color.NRGBA{R: 18, G: 42, B: 88, A: 255}},
	{0.38, color.NRGBA{R: 30, G: 78, B: 130, A: 255}},
	{0.42, color.NRGBA{R: 170, G: 150, B: 96, A: 255}},
	{0.58, color.NRGBA{R: 52, G: 120, B: 44, A: 255}},
	{0.70, color.NRGBA{R: 34, G: 92, B: 34, A: 255}},
	{1.01, color.NRGBA{R: 20, G: 60, B: 26, A: 255}},
}

func main() {
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "", "image size as WxH (default: the layout's tank size)")
	layoutPath := flag.String("layout", "", "take the size from this layout file")
	out := flag.String("out", "", "output file, .png or .bmp (default: PNG on stdout)")
	flag.Parse()

	w, h, err := resolveSize(*size, *layoutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	fmt.Fprintf(os.Stderr, "Generating %dx%d background (seed %d)...\n", w, h, *seed)
	img := generate(w, h, *seed)

	if *out == "" {
		if err := png.Encode(os.Stdout, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := writeImage(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
}

// resolveSize prefers an explicit -size, then the layout's extent, then the
// built-in tank.
func resolveSize(size, layoutPath string) (int, int, error) {
	if size != "" {
		return parseSize(size)
	}
	l := layout.Default()
	if layoutPath != "" {
		var err error
		if l, err = layout.Load(layoutPath); err != nil {
			return 0, 0, err
		}
	}
	e := l.Extent()
	return e.Columns, e.Rows, nil
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < 1 {
		return 0, 0, fmt.Errorf("invalid width %q", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < 1 {
		return 0, 0, fmt.Errorf("invalid height %q", parts[1])
	}
	return w, h, nil
}

func generate(w, h int, seed uint64) *image.NRGBA {
	terrain := newSimplex(seed)
	detail := newSimplex(seed + 1)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x), float64(y)
			v := terrain.fractal(fx, fy, 0.03, 4)
			c := shade(v)

			// Speckle so flat bands do not look posterised.
			d := detail.fractal(fx, fy, 0.25, 2)
			c = brighten(c, int((d-0.5)*24))
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func shade(v float64) color.NRGBA {
	for _, b := range forest {
		if v < b.upTo {
			return b.c
		}
	}
	return forest[len(forest)-1].c
}

func brighten(c color.NRGBA, delta int) color.NRGBA {
	clamp := func(v int) uint8 {
		return uint8(min(max(v, 0), 255))
	}
	return color.NRGBA{
		R: clamp(int(c.R) + delta),
		G: clamp(int(c.G) + delta),
		B: clamp(int(c.B) + delta),
		A: c.A,
	}
}

func writeImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .bmp)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
