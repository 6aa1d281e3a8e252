package layout

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pixel-tank/internal/tank"
)

const forestJSON = `{
  "name": "Forest",
  "panel": {"rows": 32, "columns": 32, "horizontal": 5, "vertical": 3},
  "background": "images/forest_tank.png",
  "icons": [
    {
      "name": "owl",
      "image": "images/bird1.png",
      "width": 20, "height": 20,
      "transparent": {"r": [0, 100], "g": [150, 255], "b": [0, 100]}
    },
    {
      "name": "clownfish",
      "image": "images/clownfish.png",
      "width": 16, "height": 10,
      "transparent": {"r": [0, 10], "g": [0, 10], "b": [0, 10]},
      "timeout_seconds": 2.5,
      "speed": 3,
      "mode": "wander",
      "start": {"x": -16, "y": 40}
    }
  ]
}`

func writeLayout(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "tank.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(writeLayout(t, dir, forestJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if l.Name != "Forest" {
		t.Errorf("Name = %q", l.Name)
	}
	if got := l.Extent(); got != (tank.Extent{Columns: 160, Rows: 96}) {
		t.Errorf("Extent = %v, want 160x96", got)
	}
	if want := filepath.Join(dir, "images", "forest_tank.png"); l.Background != want {
		t.Errorf("Background = %q, want %q", l.Background, want)
	}
	if len(l.Icons) != 2 {
		t.Fatalf("got %d icons, want 2", len(l.Icons))
	}

	owl := l.Icons[0]
	if owl.Start != image.Pt(50, 50) {
		t.Errorf("owl start = %v, want default (50,50)", owl.Start)
	}
	if owl.Mode != tank.SharedSteering {
		t.Errorf("owl mode = %v, want steer", owl.Mode)
	}
	if owl.Transparent.G != (tank.ChannelRange{Min: 150, Max: 255}) {
		t.Errorf("owl green range = %v", owl.Transparent.G)
	}

	fish := l.Icons[1]
	if fish.Mode != tank.AutonomousWander || fish.Speed != 3 {
		t.Errorf("fish mode/speed = %v/%d", fish.Mode, fish.Speed)
	}
	if fish.Timeout != 2500*time.Millisecond {
		t.Errorf("fish timeout = %v, want 2.5s", fish.Timeout)
	}
	if fish.Start != image.Pt(-16, 40) {
		t.Errorf("fish start = %v", fish.Start)
	}

	opts := fish.Options(l.Extent())
	if opts.Extent != l.Extent() || opts.Width != 16 || opts.Height != 10 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	icon := func(extra string) string {
		return `{"panel": {"rows": 8, "columns": 8, "horizontal": 1, "vertical": 1},
  "icons": [{"name": "a", "image": "a.png", "width": 4, "height": 4,
    "transparent": {"r": [0, 0], "g": [0, 0], "b": [0, 0]}` + extra + `}]}`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
		invalid bool
	}{
		{"bad json", `{"panel":`, "parse layout JSON", false},
		{"zero panel", `{"panel": {"rows": 0, "columns": 8, "horizontal": 1, "vertical": 1}}`, "panel", true},
		{"unknown mode", icon(`, "mode": "swim"`), "unknown mode", false},
		{"inverted range", strings.Replace(icon(""), `"r": [0, 0]`, `"r": [9, 3]`, 1), "transparency range r", false},
		{"range above 255", strings.Replace(icon(""), `"b": [0, 0]`, `"b": [0, 300]`, 1), "transparency range b", false},
		{"zero width", strings.Replace(icon(""), `"width": 4`, `"width": 0`, 1), "size 0x4", true},
		{"negative timeout", icon(`, "timeout_seconds": -1`), "negative timeout", false},
		{
			"duplicate names",
			`{"panel": {"rows": 8, "columns": 8, "horizontal": 1, "vertical": 1}, "icons": [
			  {"name": "a", "image": "a.png", "width": 1, "height": 1, "transparent": {"r": [0,0], "g": [0,0], "b": [0,0]}},
			  {"name": "a", "image": "b.png", "width": 1, "height": 1, "transparent": {"r": [0,0], "g": [0,0], "b": [0,0]}}]}`,
			"duplicate icon name", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeLayout(t, t.TempDir(), tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantErr)
			}
			if got := errors.Is(err, tank.ErrInvalidDimensions); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidDimensions) = %v, want %v", got, tt.invalid)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing layout")
	}
}

func TestBuildScene(t *testing.T) {
	dir := t.TempDir()
	green := color.NRGBA{0, 200, 0, 255}
	writePNG(t, filepath.Join(dir, "images", "forest_tank.png"), 16, 8, color.NRGBA{30, 60, 30, 255})
	writePNG(t, filepath.Join(dir, "images", "bird1.png"), 5, 5, green)
	writePNG(t, filepath.Join(dir, "images", "clownfish.png"), 8, 5, color.NRGBA{250, 120, 0, 255})

	l, err := Load(writeLayout(t, dir, forestJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	scene, err := l.BuildScene()
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	sprites := scene.Sprites()
	if len(sprites) != 2 {
		t.Fatalf("got %d sprites, want 2", len(sprites))
	}
	if sprites[0].Size() != image.Pt(20, 20) || sprites[1].Size() != image.Pt(16, 10) {
		t.Errorf("sizes = %v, %v", sprites[0].Size(), sprites[1].Size())
	}
	if sprites[1].Mode() != tank.AutonomousWander {
		t.Errorf("fish mode = %v", sprites[1].Mode())
	}
	// The owl is pure green, which its rule makes transparent.
	for _, a := range sprites[0].Mask().Pix {
		if a != 0 {
			t.Fatal("owl mask should be fully transparent")
		}
	}
	if got := scene.Background().NRGBAAt(159, 95); got != (color.NRGBA{30, 60, 30, 255}) {
		t.Errorf("background corner = %v", got)
	}
}

func TestBuildSceneMissingIcon(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "images", "forest_tank.png"), 4, 4, color.NRGBA{A: 255})

	l, err := Load(writeLayout(t, dir, forestJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = l.BuildScene()
	if err == nil || !strings.Contains(err.Error(), `icon "owl"`) {
		t.Errorf("err = %v, want failure naming the owl", err)
	}
}

func TestDefault(t *testing.T) {
	l := Default()
	if got := l.Extent(); got != (tank.Extent{Columns: 160, Rows: 96}) {
		t.Errorf("Extent = %v, want 160x96", got)
	}
	if len(l.Icons) != 1 || l.Icons[0].Name != "owl" {
		t.Fatalf("Icons = %+v", l.Icons)
	}
}

func TestBundledLayout(t *testing.T) {
	l, err := Load(filepath.Join("..", "..", "assets", "tank.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	scene, err := l.BuildScene()
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if got := len(scene.Sprites()); got != len(l.Icons) {
		t.Errorf("scene has %d sprites, want %d", got, len(l.Icons))
	}
	if scene.Extent() != (tank.Extent{Columns: 160, Rows: 96}) {
		t.Errorf("extent = %v, want 160x96", scene.Extent())
	}

	// The owl's green backdrop must be masked out.
	owl := scene.Sprites()[0]
	if a := owl.Mask().AlphaAt(0, 0).A; a != 0 {
		t.Errorf("owl corner mask = %d, want 0", a)
	}
	if a := owl.Mask().AlphaAt(10, 10).A; a != 255 {
		t.Errorf("owl body mask = %d, want 255", a)
	}
}
