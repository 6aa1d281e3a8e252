package layout

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"pixel-tank/internal/tank"
)

// Panel describes the chained LED panels that make up the display.
type Panel struct {
	Rows       int // pixel rows per panel
	Columns    int // pixel columns per panel
	Horizontal int // panels chained left to right
	Vertical   int // panels stacked top to bottom
}

// Icon is one sprite in the tank description.
type Icon struct {
	Name          string
	Image         string
	Width, Height int
	Transparent   tank.TransparencyRule
	Timeout       time.Duration
	Speed         int
	Mode          tank.Mode
	Start         image.Point
}

// Layout is a loaded tank description. Icons are listed back to front.
type Layout struct {
	Name       string
	Panel      Panel
	Background string
	Icons      []Icon
}

// jsonLayout is the on-disk JSON format.
type jsonLayout struct {
	Name       string     `json:"name"`
	Panel      jsonPanel  `json:"panel"`
	Background string     `json:"background,omitempty"`
	Icons      []jsonIcon `json:"icons"`
}

type jsonPanel struct {
	Rows       int `json:"rows"`
	Columns    int `json:"columns"`
	Horizontal int `json:"horizontal"`
	Vertical   int `json:"vertical"`
}

type jsonIcon struct {
	Name           string     `json:"name"`
	Image          string     `json:"image"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Transparent    jsonRule   `json:"transparent"`
	TimeoutSeconds float64    `json:"timeout_seconds,omitempty"`
	Speed          int        `json:"speed,omitempty"`
	Mode           string     `json:"mode,omitempty"`
	Start          *jsonPoint `json:"start,omitempty"`
}

type jsonRule struct {
	R [2]int `json:"r"`
	G [2]int `json:"g"`
	B [2]int `json:"b"`
}

type jsonPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// defaultStart is where an icon appears when the layout does not say.
var defaultStart = image.Pt(50, 50)

// Load reads a JSON layout file. Relative image paths are resolved against
// the directory containing the file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var jl jsonLayout
	if err := json.Unmarshal(data, &jl); err != nil {
		return nil, fmt.Errorf("parse layout JSON: %w", err)
	}

	l, err := fromJSON(jl, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

func fromJSON(jl jsonLayout, baseDir string) (*Layout, error) {
	p := Panel(jl.Panel)
	if p.Rows <= 0 || p.Columns <= 0 || p.Horizontal <= 0 || p.Vertical <= 0 {
		return nil, fmt.Errorf("panel %dx%d chained %dx%d: %w", p.Columns, p.Rows, p.Horizontal, p.Vertical, tank.ErrInvalidDimensions)
	}

	l := &Layout{
		Name:       jl.Name,
		Panel:      p,
		Background: resolve(baseDir, jl.Background),
		Icons:      make([]Icon, 0, len(jl.Icons)),
	}

	seen := make(map[string]bool)
	for i, ji := range jl.Icons {
		if ji.Name == "" {
			return nil, fmt.Errorf("icon %d has no name", i)
		}
		if seen[ji.Name] {
			return nil, fmt.Errorf("duplicate icon name %q", ji.Name)
		}
		seen[ji.Name] = true

		if ji.Image == "" {
			return nil, fmt.Errorf("icon %q has no image", ji.Name)
		}
		if ji.Width <= 0 || ji.Height <= 0 {
			return nil, fmt.Errorf("icon %q size %dx%d: %w", ji.Name, ji.Width, ji.Height, tank.ErrInvalidDimensions)
		}
		rule, err := ji.Transparent.rule()
		if err != nil {
			return nil, fmt.Errorf("icon %q: %w", ji.Name, err)
		}
		mode, err := tank.ParseMode(ji.Mode)
		if err != nil {
			return nil, fmt.Errorf("icon %q: %w", ji.Name, err)
		}
		if ji.TimeoutSeconds < 0 {
			return nil, fmt.Errorf("icon %q: negative timeout %v", ji.Name, ji.TimeoutSeconds)
		}

		start := defaultStart
		if ji.Start != nil {
			start = image.Pt(ji.Start.X, ji.Start.Y)
		}

		l.Icons = append(l.Icons, Icon{
			Name:        ji.Name,
			Image:       resolve(baseDir, ji.Image),
			Width:       ji.Width,
			Height:      ji.Height,
			Transparent: rule,
			Timeout:     time.Duration(ji.TimeoutSeconds * float64(time.Second)),
			Speed:       ji.Speed,
			Mode:        mode,
			Start:       start,
		})
	}

	return l, nil
}

func (jr jsonRule) rule() (tank.TransparencyRule, error) {
	var rule tank.TransparencyRule
	channels := []struct {
		name string
		in   [2]int
		out  *tank.ChannelRange
	}{
		{"r", jr.R, &rule.R},
		{"g", jr.G, &rule.G},
		{"b", jr.B, &rule.B},
	}
	for _, c := range channels {
		lo, hi := c.in[0], c.in[1]
		if lo < 0 || hi > 255 || lo > hi {
			return rule, fmt.Errorf("transparency range %s=[%d,%d] must satisfy 0 <= min <= max <= 255", c.name, lo, hi)
		}
		*c.out = tank.ChannelRange{Min: uint8(lo), Max: uint8(hi)}
	}
	return rule, nil
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Extent returns the total pixel size of the chained panels.
func (l *Layout) Extent() tank.Extent {
	return tank.PanelExtent(l.Panel.Rows, l.Panel.Columns, l.Panel.Horizontal, l.Panel.Vertical)
}

// Options converts the icon into sprite construction options for a tank of
// the given extent.
func (ic Icon) Options(extent tank.Extent) tank.Options {
	return tank.Options{
		Width:       ic.Width,
		Height:      ic.Height,
		Transparent: ic.Transparent,
		Timeout:     ic.Timeout,
		Extent:      extent,
		Mode:        ic.Mode,
		Speed:       ic.Speed,
		Start:       ic.Start,
	}
}

// BuildScene loads the background and every icon, adding icons to the scene
// in layout order.
func (l *Layout) BuildScene() (*tank.Scene, error) {
	extent := l.Extent()
	scene, err := tank.NewScene(extent)
	if err != nil {
		return nil, err
	}

	if l.Background != "" {
		if err := scene.LoadBackground(l.Background); err != nil {
			return nil, err
		}
	}

	for _, ic := range l.Icons {
		sp, err := tank.LoadSprite(ic.Image, ic.Options(extent))
		if err != nil {
			return nil, fmt.Errorf("icon %q: %w", ic.Name, err)
		}
		scene.AddSprite(sp)
		log.Printf("Icon loaded: %s (%dx%d, %s)", ic.Name, ic.Width, ic.Height, ic.Mode)
	}

	return scene, nil
}

// Default returns the built-in forest tank: five by three chained 32x32
// panels with a single steerable owl.
func Default() *Layout {
	return &Layout{
		Name: "Forest",
		Panel: Panel{
			Rows:       32,
			Columns:    32,
			Horizontal: 5,
			Vertical:   3,
		},
		Background: filepath.Join("assets", "images", "forest_tank.png"),
		Icons: []Icon{
			{
				Name:   "owl",
				Image:  filepath.Join("assets", "images", "bird1.png"),
				Width:  20,
				Height: 20,
				Transparent: tank.TransparencyRule{
					R: tank.ChannelRange{Min: 0, Max: 100},
					G: tank.ChannelRange{Min: 150, Max: 255},
					B: tank.ChannelRange{Min: 0, Max: 100},
				},
				Mode:  tank.SharedSteering,
				Start: defaultStart,
			},
		},
	}
}
