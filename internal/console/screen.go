package console

import (
	"image"

	"github.com/gdamore/tcell/v2"

	"pixel-tank/internal/game"
	"pixel-tank/internal/render"
)

// Source is the input source name used for console key events.
const Source = "console"

// Screen shows the tank on a local terminal and reads steering keys from it.
type Screen struct {
	screen tcell.Screen
}

// New initialises s for drawing. The caller owns s and must call Close.
func New(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Open creates a Screen on the process's terminal.
func Open() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(s)
}

// Close restores the terminal.
func (c *Screen) Close() {
	c.screen.Fini()
}

// Show draws frame with half-block cells, two pixel rows per terminal row.
func (c *Screen) Show(frame *image.NRGBA, origin image.Point) error {
	w, h := c.screen.Size()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			cell := render.PixelCell(frame, origin, col, row)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(cell.FgR), int32(cell.FgG), int32(cell.FgB))).
				Background(tcell.NewRGBColor(int32(cell.BgR), int32(cell.BgG), int32(cell.BgB)))
			c.screen.SetContent(col, row, cell.Ch, nil, style)
		}
	}
	c.screen.Show()
	return nil
}

// Pump forwards key presses to events until the screen is finalised or a
// quit key is pressed, then closes quit.
func (c *Screen) Pump(events chan<- game.InputEvent, quit chan<- struct{}) {
	defer close(quit)
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			action := keyAction(ev)
			if action == game.ActionQuit {
				return
			}
			if action == game.ActionNone {
				continue
			}
			select {
			case events <- game.InputEvent{Source: Source, Action: action}:
			default:
			}
		case *tcell.EventResize:
			c.screen.Sync()
		}
	}
}

// keyAction maps arrow keys, WASD, Esc, q and Ctrl-C to actions.
func keyAction(ev *tcell.EventKey) game.Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.ActionUp
	case tcell.KeyDown:
		return game.ActionDown
	case tcell.KeyLeft:
		return game.ActionLeft
	case tcell.KeyRight:
		return game.ActionRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return game.ActionUp
		case 's', 'S':
			return game.ActionDown
		case 'a', 'A':
			return game.ActionLeft
		case 'd', 'D':
			return game.ActionRight
		case 'q', 'Q':
			return game.ActionQuit
		}
	}
	return game.ActionNone
}
