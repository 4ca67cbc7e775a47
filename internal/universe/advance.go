package universe

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
)

// Advance integrates the wall-clock interval deltaMicros scaled by
// TimeScale and Speed. Zero or negative intervals, a paused universe and an
// empty universe are no-ops.
func (u *Universe) Advance(deltaMicros int64) error {
	if deltaMicros <= 0 || u.Speed <= 0 {
		return nil
	}
	return u.Simulate(float64(deltaMicros) * TimeScale * u.Speed)
}

// Simulate integrates duration units of simulated time. The duration is
// split into the smallest number of equal substeps no longer than StepSize,
// so long requests cost more substeps rather than larger ones and no time
// is dropped. Each substep is one force evaluation pass of the integrator
// followed by a trail sample for every body.
//
// If a substep would produce a non-finite state the bodies keep the last
// finite state and the error wraps dynamo.ErrUnstable.
func (u *Universe) Simulate(duration float64) error {
	if !(duration > 0) || u.bodies.Len() == 0 {
		return nil
	}

	step := u.StepSize
	if !(step > 0) {
		step = DefaultStepSize
	}
	n := int(math.Ceil(duration / step))
	if n < 1 {
		n = 1
	}
	h := duration / float64(n)

	u.pack()
	x := u.state
	if err := dynamo.CheckDim(u.Gravity, x); err != nil {
		return err
	}
	var err error
	for i := 0; i < n; i++ {
		next := u.Integrator.Step(u.Gravity, x, h)
		if !next.IsValid() {
			err = &dynamo.SimulationError{Step: i, Time: u.time, Wrapped: dynamo.ErrUnstable}
			break
		}
		x = next
		u.time += h
		u.unpack(x)
	}
	u.state = x
	return err
}

// unpack writes the integration state back to the bodies and offers every
// body a trail sample.
func (u *Universe) unpack(x dynamo.State) {
	for i, k := range u.keys {
		b, ok := u.bodies.Get(k)
		if !ok {
			continue
		}
		b.Position = x.Position(i)
		b.Velocity = x.Velocity(i)
		b.trail.Record(b.Position, u.trailDist2, u.trailLength)
	}
}
