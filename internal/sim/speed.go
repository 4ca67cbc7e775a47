package sim

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/universe"
)

// SpeedControl adjusts Universe.Speed. It remembers the speed in use before
// a pause so Resume can restore it.
type SpeedControl struct {
	u        *universe.Universe
	previous float64
}

func NewSpeedControl(u *universe.Universe) *SpeedControl {
	prev := u.Speed
	if !(prev > 0) {
		prev = 1
	}
	return &SpeedControl{u: u, previous: prev}
}

func (s *SpeedControl) Speed() float64 { return s.u.Speed }

func (s *SpeedControl) Paused() bool { return !(s.u.Speed > 0) }

func (s *SpeedControl) Pause() {
	if s.u.Speed > 0 {
		s.previous = s.u.Speed
	}
	s.u.Speed = 0
}

func (s *SpeedControl) Resume() {
	if s.u.Speed > 0 {
		return
	}
	s.u.Speed = s.previous
}

func (s *SpeedControl) Toggle() {
	if s.Paused() {
		s.Resume()
		return
	}
	s.Pause()
}

// FastForward doubles the speed, starting over at 1 once the dial is at its
// maximum or the simulation is paused.
func (s *SpeedControl) FastForward() {
	sp := s.u.Speed
	if !(sp > 0) || sp >= universe.SpeedDialMax {
		s.u.Speed = 1
	} else {
		s.u.Speed = math.Min(sp*2, universe.SpeedDialMax)
	}
	s.previous = s.u.Speed
}

// Slower halves the speed down to 1/SpeedDialMax.
func (s *SpeedControl) Slower() {
	if s.Paused() {
		return
	}
	s.u.Speed = math.Max(s.u.Speed/2, 1/universe.SpeedDialMax)
	s.previous = s.u.Speed
}

// Set clamps v to [0, SpeedDialMax]. Zero pauses.
func (s *SpeedControl) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = math.Max(0, math.Min(v, universe.SpeedDialMax))
	if v == 0 {
		s.Pause()
		return
	}
	s.u.Speed = v
	s.previous = v
}
