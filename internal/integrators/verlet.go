package integrators

import "github.com/Fuatnow/planets-3d/internal/dynamo"

// Verlet is velocity Verlet. Positions use the current acceleration, the
// velocity update averages the old and new accelerations.
type Verlet struct {
	acc, accNext []float64
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	half := x.Half()
	v.acc = resize(v.acc, half)
	v.accNext = resize(v.accNext, half)
	accelerations(sys, x, v.acc)

	next := make(dynamo.State, len(x))
	copy(next[half:], x[half:])
	for i, a := range v.acc {
		next[i] = x[i] + dt*(x[half+i]+0.5*dt*a)
	}

	accelerations(sys, next, v.accNext)
	for i := range v.acc {
		next[half+i] += 0.5 * dt * (v.acc[i] + v.accNext[i])
	}
	return next
}

// Leapfrog is kick-drift-kick. It needs two force passes per step but,
// unlike Euler, is time-reversible, so orbits keep their energy over long
// runs.
type Leapfrog struct {
	acc []float64
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	half := x.Half()
	l.acc = resize(l.acc, half)
	accelerations(sys, x, l.acc)

	next := make(dynamo.State, len(x))
	pos, vel := next[:half], next[half:]
	for i, a := range l.acc {
		vel[i] = x[half+i] + 0.5*dt*a
		pos[i] = x[i] + dt*vel[i]
	}

	accelerations(sys, next, l.acc)
	for i, a := range l.acc {
		vel[i] += 0.5 * dt * a
	}
	return next
}
