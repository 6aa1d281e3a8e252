package tank

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when a sprite or scene is given a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Extent is the total pixel size of the tank.
type Extent struct {
	Columns int
	Rows    int
}

// PanelExtent derives the tank extent from chained panel geometry.
func PanelExtent(panelRows, panelColumns, horizPanels, vertPanels int) Extent {
	return Extent{
		Columns: panelColumns * horizPanels,
		Rows:    panelRows * vertPanels,
	}
}

// Valid reports whether both dimensions are positive.
func (e Extent) Valid() bool {
	return e.Columns > 0 && e.Rows > 0
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Columns, e.Rows)
}

// Orientation controls the paint-time horizontal flip of a sprite.
type Orientation int

const (
	Forward  Orientation = iota // as loaded; moving right in wander mode
	Mirrored                    // flipped left-right; moving left in wander mode
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Mirrored:
		return "mirrored"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// step is the horizontal wander step for the orientation.
func (o Orientation) step() int {
	if o == Mirrored {
		return -1
	}
	return 1
}

// Visibility tracks whether a wandering sprite is waiting off screen.
type Visibility int

const (
	OnScreen Visibility = iota
	OffScreenTimedOut
)

func (v Visibility) String() string {
	switch v {
	case OnScreen:
		return "on-screen"
	case OffScreenTimedOut:
		return "off-screen"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// Mode selects how a sprite moves each tick.
type Mode int

const (
	// SharedSteering moves the sprite one pixel in the tick's command direction.
	SharedSteering Mode = iota
	// AutonomousWander swims the sprite horizontally across the tank and
	// re-seeds it on the far side after a timeout once it leaves.
	AutonomousWander
)

func (m Mode) String() string {
	switch m {
	case SharedSteering:
		return "steer"
	case AutonomousWander:
		return "wander"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a layout mode name to a Mode. An empty name is SharedSteering.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "steer":
		return SharedSteering, nil
	case "wander":
		return AutonomousWander, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Command is the steering direction shared by every sprite for one tick.
type Command int

const (
	Stop Command = iota
	Up
	Down
	Left
	Right
)

func (c Command) String() string {
	switch c {
	case Stop:
		return "stop"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// delta returns the one-pixel translation for the command.
func (c Command) delta() (dx, dy int) {
	switch c {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}
