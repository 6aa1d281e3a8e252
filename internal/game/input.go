package game

import "pixel-tank/internal/tank"

// Action represents a viewer input action.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionQuit
)

// InputEvent carries an action from an input source into the loop.
type InputEvent struct {
	Source string
	Action Action
}

// Command maps a directional action to the tank steering command.
// Anything else is Stop.
func (a Action) Command() tank.Command {
	switch a {
	case ActionUp:
		return tank.Up
	case ActionDown:
		return tank.Down
	case ActionLeft:
		return tank.Left
	case ActionRight:
		return tank.Right
	}
	return tank.Stop
}

// Directional reports whether the action steers the tank.
func (a Action) Directional() bool {
	return a.Command() != tank.Stop
}
