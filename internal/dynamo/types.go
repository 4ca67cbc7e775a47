package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a flat phase-space vector. For n bodies the layout is the n
// positions (x, y, z each) followed by the n velocities.
type State []float64

// NewState allocates the state of n bodies.
func NewState(n int) State { return make(State, n*6) }

// Bodies is the number of bodies the state holds.
func (s State) Bodies() int { return len(s) / 6 }

// Half returns the number of position components, i.e. the index at which
// velocities start.
func (s State) Half() int { return len(s) / 2 }

func (s State) Position(i int) mgl64.Vec3 {
	return mgl64.Vec3{s[i*3], s[i*3+1], s[i*3+2]}
}

func (s State) Velocity(i int) mgl64.Vec3 {
	h := s.Half() + i*3
	return mgl64.Vec3{s[h], s[h+1], s[h+2]}
}

// SetBody stores the position and velocity of body i.
func (s State) SetBody(i int, pos, vel mgl64.Vec3) {
	copy(s[i*3:i*3+3], pos[:])
	h := s.Half() + i*3
	copy(s[h:h+3], vel[:])
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous first-order ODE dX/dt = f(X).
type System interface {
	Derive(x State) State
	Dim() int
}

// Accelerator is a second-order System whose derivative is the velocity
// half of the state followed by accelerations. Accelerations overwrites
// acc, which has one entry per position component.
type Accelerator interface {
	System
	Accelerations(x State, acc []float64)
}

type Hamiltonian interface {
	Energy(x State) float64
}

// CheckDim returns ErrDimensionMismatch unless x has sys.Dim() components.
func CheckDim(sys System, x State) error {
	if len(x) != sys.Dim() {
		return fmt.Errorf("%w: state has %d components, system wants %d", ErrDimensionMismatch, len(x), sys.Dim())
	}
	return nil
}

// Energy evaluates the energy of x under sys.
func Energy(sys System, x State) (float64, error) {
	h, ok := sys.(Hamiltonian)
	if !ok {
		return 0, ErrNotHamiltonian
	}
	if err := CheckDim(sys, x); err != nil {
		return 0, err
	}
	return h.Energy(x), nil
}

// Integrator advances a System by dt. Implementations must be deterministic:
// the same input always yields the same output.
type Integrator interface {
	Step(sys System, x State, dt float64) State
}
