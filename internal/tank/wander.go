package tank

import (
	"log"
	"time"
)

// Advance updates the sprite for one tick. In SharedSteering mode the sprite
// follows cmd; in AutonomousWander mode cmd is ignored.
func (s *Sprite) Advance(cmd Command) {
	switch s.mode {
	case AutonomousWander:
		s.wander()
	default:
		dx, dy := cmd.delta()
		s.pos.X += dx
		s.pos.Y += dy
	}
}

func (s *Sprite) wander() {
	if s.visibility == OffScreenTimedOut {
		if s.now().After(s.deadline) {
			s.visibility = OnScreen
		}
		return
	}

	if s.moveCount < s.speed {
		s.moveCount++
		return
	}

	w, h := s.image.Rect.Dx(), s.image.Rect.Dy()
	if s.pos.X < -w || s.pos.X > s.extent.Columns {
		s.reseed(w, h)
	}

	s.pos.X += s.orientation.step()
	s.moveCount = 1
}

// reseed parks the sprite just outside a random side of the tank and starts
// its off-screen timeout.
func (s *Sprite) reseed(w, h int) {
	s.visibility = OffScreenTimedOut
	s.deadline = s.now().Add(s.timeout)

	if (s.rng.IntN(11)+1)%2 == 0 {
		s.orientation = Forward
		s.pos.X = -w
	} else {
		s.orientation = Mirrored
		s.pos.X = s.extent.Columns
	}

	rows := s.extent.Rows
	if h >= rows {
		s.pos.Y = s.rng.IntN(rows + 1)
	} else {
		s.pos.Y = s.rng.IntN(rows - h + 1)
	}

	log.Printf("%s off screen, re-entering %s at y=%d after %s", s.name, s.orientation, s.pos.Y, s.timeout.Round(time.Millisecond))
}

// Deadline returns when an off-screen sprite becomes eligible to re-enter.
func (s *Sprite) Deadline() time.Time { return s.deadline }
