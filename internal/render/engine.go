package render

import (
	"image"
	"strings"
)

// StatusRows is the number of terminal rows reserved below the tank.
const StatusRows = 1

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch            rune
	FgR, FgG, FgB uint8
	BgR, BgG, BgB uint8
	Bold          bool
}

var sentinel = Cell{Ch: '\x00', FgR: 255, BgB: 255, Bold: true}

var blank = Cell{Ch: ' '}

// PixelCell returns the half-block cell at terminal column col and row row
// for frame drawn with its top-left pixel at origin. Each row covers two
// pixel rows. Pixels outside the frame are black; alpha is ignored.
func PixelCell(frame *image.NRGBA, origin image.Point, col, row int) Cell {
	c := Cell{Ch: HalfBlock}
	px := col - origin.X
	top := image.Pt(px, 2*row-origin.Y).Add(frame.Rect.Min)
	bottom := top.Add(image.Pt(0, 1))
	if top.In(frame.Rect) {
		p := frame.NRGBAAt(top.X, top.Y)
		c.FgR, c.FgG, c.FgB = p.R, p.G, p.B
	}
	if bottom.In(frame.Rect) {
		p := frame.NRGBAAt(bottom.X, bottom.Y)
		c.BgR, c.BgG, c.BgB = p.R, p.G, p.B
	}
	return c
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(blank)
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(blank)
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output that turns the previous frame into
// this one. origin is in pixels; the tank is clipped to the terminal and the
// last StatusRows rows show status.
func (e *Engine) Render(frame *image.NRGBA, origin image.Point, termW, termH int, status string) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	tankRows := e.height - StatusRows
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if y < tankRows {
				e.next[y][x] = PixelCell(frame, origin, x, y)
			} else {
				e.next[y][x] = blank
			}
		}
	}
	if tankRows >= 0 && tankRows < e.height {
		e.writeText(tankRows, 0, status)
	}

	// Diff and emit
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

func (e *Engine) writeText(row, col int, text string) {
	for _, r := range text {
		if col >= e.width {
			return
		}
		e.next[row][col] = Cell{Ch: r, FgR: 160, FgG: 160, FgB: 175}
		col++
	}
}
