package console

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"pixel-tank/internal/game"
	"pixel-tank/internal/render"
)

func newSimScreen(t *testing.T, w, h int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := New(sim)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.SetSize(w, h)
	return scr, sim
}

func TestShowDrawsHalfBlocks(t *testing.T) {
	scr, sim := newSimScreen(t, 3, 2)
	defer scr.Close()

	frame := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	frame.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	frame.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	frame.SetNRGBA(1, 2, color.NRGBA{B: 255, A: 255})

	if err := scr.Show(frame, image.Point{}); err != nil {
		t.Fatalf("Show: %v", err)
	}

	rgb := func(r, g, b int32) tcell.Color { return tcell.NewRGBColor(r, g, b) }
	tests := []struct {
		col, row int
		fg, bg   tcell.Color
	}{
		{0, 0, rgb(255, 0, 0), rgb(0, 255, 0)},
		{1, 1, rgb(0, 0, 255), rgb(0, 0, 0)},
		{2, 0, rgb(0, 0, 0), rgb(0, 0, 0)},
	}
	for _, tt := range tests {
		mainc, _, style, _ := sim.GetContent(tt.col, tt.row)
		if mainc != render.HalfBlock {
			t.Errorf("(%d,%d) rune = %q, want half block", tt.col, tt.row, mainc)
		}
		want := tcell.StyleDefault.Foreground(tt.fg).Background(tt.bg)
		if style != want {
			t.Errorf("(%d,%d) style = %v, want %v", tt.col, tt.row, style, want)
		}
	}
}

func TestPumpForwardsKeys(t *testing.T) {
	scr, sim := newSimScreen(t, 10, 5)
	defer scr.Close()

	events := make(chan game.InputEvent, 8)
	quit := make(chan struct{})
	go scr.Pump(events, quit)

	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	sim.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not stop on q")
	}

	want := []game.Action{game.ActionLeft, game.ActionRight, game.ActionUp}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, a := range want {
		ev := <-events
		if ev.Action != a || ev.Source != Source {
			t.Errorf("event %d = %+v, want %v from %s", i, ev, a, Source)
		}
	}
}
