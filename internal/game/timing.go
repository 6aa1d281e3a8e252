package game

import "time"

const TickRate = 20 // ticks per second

// TickInterval is the wall-clock time between ticks.
const TickInterval = time.Second / TickRate

// SecsToTicks converts a duration in seconds to loop ticks.
func SecsToTicks(s float64) int {
	t := int(s * TickRate)
	if t < 1 {
		t = 1
	}
	return t
}

// StatusInterval is how often the loop logs a heartbeat.
var StatusInterval = SecsToTicks(60)
