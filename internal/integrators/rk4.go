package integrators

import "github.com/Fuatnow/planets-3d/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta scheme. It is not symplectic:
// orbits slowly lose energy, but each step is more accurate than the split
// schemes at the same dt.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// rk4Nodes are the fractions of dt at which stages two to four sample.
var rk4Nodes = [3]float64{0.5, 0.5, 1}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	for i := range r.k {
		r.k[i] = resize(r.k[i], n)
	}
	r.scratch = resize(r.scratch, n)

	copy(r.k[0], sys.Derive(x))
	for s, c := range rk4Nodes {
		h := c * dt
		for i := range x {
			r.scratch[i] = x[i] + h*r.k[s][i]
		}
		copy(r.k[s+1], sys.Derive(r.scratch))
	}

	next := make(dynamo.State, n)
	k1, k2, k3, k4 := r.k[0], r.k[1], r.k[2], r.k[3]
	for i := range x {
		next[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}
