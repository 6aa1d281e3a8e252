package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"pixel-tank/internal/assets"
	"pixel-tank/internal/layout"
	"pixel-tank/internal/tank"
)

// previewScale is how much mask and preview PNGs are enlarged.
const previewScale = 8

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: tanktools validate <layout-file>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0]))
	case "masks":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: tanktools masks <layout-file> <out-dir>")
			os.Exit(1)
		}
		os.Exit(runMasks(args[0], args[1]))
	case "stats":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: tanktools stats <layout-file>")
			os.Exit(1)
		}
		os.Exit(runStats(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: tanktools <command> <path>

Commands:
  validate <layout-file>            Check the layout and that every image decodes
  masks    <layout-file> <out-dir>  Write each icon's mask and a preview as PNG
  stats    <layout-file>            Show transparent/opaque pixel counts per icon`)
}

// --- validate ---

func runValidate(path string) int {
	l, err := layout.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	fmt.Printf("Validating %q (%s)...\n", l.Name, l.Extent())

	errors := 0
	if l.Background != "" {
		if !assets.Supported(l.Background) {
			fmt.Printf("  WARN: background %s has an unrecognised extension\n", l.Background)
		}
		if _, err := assets.LoadImage(l.Background); err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			errors++
		}
	}

	for _, ic := range l.Icons {
		if !assets.Supported(ic.Image) {
			fmt.Printf("  WARN: icon %q image %s has an unrecognised extension\n", ic.Name, ic.Image)
		}
		if _, err := tank.LoadSprite(ic.Image, ic.Options(l.Extent())); err != nil {
			fmt.Printf("  ERROR: icon %q: %v\n", ic.Name, err)
			errors++
			continue
		}
		if ic.Width > l.Extent().Columns || ic.Height > l.Extent().Rows {
			fmt.Printf("  WARN: icon %q (%dx%d) is larger than the tank\n", ic.Name, ic.Width, ic.Height)
		}
	}

	if errors > 0 {
		fmt.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Printf("  OK (%d icons)\n", len(l.Icons))
	return 0
}

// --- masks ---

func runMasks(path, outDir string) int {
	l, err := layout.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, ic := range l.Icons {
		sp, err := tank.LoadSprite(ic.Image, ic.Options(l.Extent()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %q: %v\n", ic.Name, err)
			continue
		}

		maskPath := filepath.Join(outDir, ic.Name+"_mask.png")
		if err := writePNG(maskPath, enlarge(sp.Mask())); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		previewPath := filepath.Join(outDir, ic.Name+"_preview.png")
		if err := writePNG(previewPath, enlarge(preview(sp))); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("%s: %s, %s\n", ic.Name, maskPath, previewPath)
	}
	return 0
}

// preview paints the sprite forward and mirrored, side by side, over a
// magenta field so transparent pixels stand out.
func preview(sp *tank.Sprite) *image.NRGBA {
	size := sp.Size()
	img := image.NewNRGBA(image.Rect(0, 0, size.X*2+1, size.Y))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 255, B: 255, A: 255}), image.Point{}, xdraw.Src)

	pos, orientation := sp.Position(), sp.Orientation()
	defer func() {
		sp.SetPosition(pos)
		sp.SetOrientation(orientation)
	}()

	sp.SetPosition(image.Point{})
	sp.SetOrientation(tank.Forward)
	sp.CompositeOnto(img)

	sp.SetPosition(image.Pt(size.X+1, 0))
	sp.SetOrientation(tank.Mirrored)
	sp.CompositeOnto(img)
	return img
}

func enlarge(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*previewScale, b.Dy()*previewScale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// --- stats ---

func runStats(path string) int {
	l, err := layout.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("%s (%s)\n\n", l.Name, l.Extent())

	for _, ic := range l.Icons {
		sp, err := tank.LoadSprite(ic.Image, ic.Options(l.Extent()))
		if err != nil {
			fmt.Printf("  %-12s ERROR: %v\n", ic.Name, err)
			continue
		}

		total := len(sp.Mask().Pix)
		transparent := 0
		for _, a := range sp.Mask().Pix {
			if a == 0 {
				transparent++
			}
		}

		pct := float64(transparent) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/5))
		fmt.Printf("  %-12s %3dx%-3d %-6s transparent %5d/%-5d (%5.1f%%) %s\n",
			ic.Name, ic.Width, ic.Height, ic.Mode, transparent, total, pct, bar)
	}
	return 0
}
