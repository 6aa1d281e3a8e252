package render

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func testFrame() *image.NRGBA {
	// 3 columns x 4 rows; pixel (x,y) = (x*10, y*10, 7)
	img := image.NewNRGBA(image.Rect(0, 0, 3, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	return img
}

func TestPixelCell(t *testing.T) {
	frame := testFrame()

	tests := []struct {
		name     string
		origin   image.Point
		col, row int
		want     Cell
	}{
		{"top-left", image.Pt(0, 0), 0, 0, Cell{Ch: HalfBlock, FgR: 0, FgG: 0, FgB: 7, BgR: 0, BgG: 10, BgB: 7}},
		{"second row pair", image.Pt(0, 0), 2, 1, Cell{Ch: HalfBlock, FgR: 20, FgG: 20, FgB: 7, BgR: 20, BgG: 30, BgB: 7}},
		{"right of frame", image.Pt(0, 0), 3, 0, Cell{Ch: HalfBlock}},
		{"below frame", image.Pt(0, 0), 0, 2, Cell{Ch: HalfBlock}},
		{"origin shifts right", image.Pt(1, 0), 1, 0, Cell{Ch: HalfBlock, FgB: 7, BgG: 10, BgB: 7}},
		{"odd origin splits rows", image.Pt(0, 1), 0, 0, Cell{Ch: HalfBlock, BgB: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelCell(frame, tt.origin, tt.col, tt.row); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEngineDiff(t *testing.T) {
	frame := testFrame()
	e := NewEngine(4, 3)

	first := e.Render(frame, image.Point{}, 4, 3, "tank")
	if got := strings.Count(first, string(HalfBlock)); got != 4*2 {
		t.Errorf("first frame drew %d half blocks, want 8", got)
	}
	if !strings.Contains(first, "\x1b[0;38;2;160;160;175;48;2;0;0;0mt") {
		t.Error("status text missing from first frame")
	}

	if again := e.Render(frame, image.Point{}, 4, 3, "tank"); again != "" {
		t.Errorf("unchanged frame emitted %q", again)
	}

	frame.SetNRGBA(1, 3, color.NRGBA{R: 255, A: 255})
	changed := e.Render(frame, image.Point{}, 4, 3, "tank")
	if !strings.HasPrefix(changed, MoveTo(2, 2)) {
		t.Errorf("changed output should start at row 2 col 2, got %q", changed)
	}
	if got := strings.Count(changed, string(HalfBlock)); got != 1 {
		t.Errorf("changed output drew %d cells, want 1", got)
	}
	if !strings.HasSuffix(changed, Reset) {
		t.Error("output should end with a reset")
	}
}

func TestEngineResizeRepaints(t *testing.T) {
	frame := testFrame()
	e := NewEngine(4, 3)
	e.Render(frame, image.Point{}, 4, 3, "")

	out := e.Render(frame, image.Point{}, 5, 3, "")
	if got := strings.Count(out, string(HalfBlock)); got != 5*2 {
		t.Errorf("resized frame drew %d half blocks, want 10", got)
	}
}

func TestEngineStatusClipped(t *testing.T) {
	e := NewEngine(3, 2)
	out := e.Render(testFrame(), image.Point{}, 3, 2, "abcdef")
	if strings.Contains(out, "d") {
		t.Errorf("status should be clipped to the terminal width: %q", out)
	}
}
