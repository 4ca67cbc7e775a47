package integrators

import "github.com/Fuatnow/planets-3d/internal/dynamo"

// accelerations writes the velocity derivative of x into acc, asking the
// system directly when it can skip the position half.
func accelerations(sys dynamo.System, x dynamo.State, acc []float64) {
	if a, ok := sys.(dynamo.Accelerator); ok {
		a.Accelerations(x, acc)
		return
	}
	copy(acc, sys.Derive(x)[x.Half():])
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// Euler is the semi-implicit (symplectic) Euler scheme: velocities are
// kicked first and positions drift with the new velocities.
type Euler struct {
	acc []float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	half := x.Half()
	e.acc = resize(e.acc, half)
	accelerations(sys, x, e.acc)

	next := make(dynamo.State, len(x))
	pos, vel := next[:half], next[half:]
	for i, a := range e.acc {
		vel[i] = x[half+i] + dt*a
		pos[i] = x[i] + dt*vel[i]
	}
	return next
}
