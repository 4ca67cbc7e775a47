package physics

import (
	"fmt"
	"math"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// GravityConst is the engine's gravitational constant.
	GravityConst = 6.67e-11

	DefaultSoftening = 0.01
	DefaultTheta     = 0.5

	// BarnesHutMin is the body count below which the tree costs more than
	// it saves and the direct sum is used instead.
	BarnesHutMin = 64
)

type Solver string

const (
	SolverDirect    Solver = "direct"
	SolverBarnesHut Solver = "barneshut"
)

func ParseSolver(name string) (Solver, error) {
	switch Solver(name) {
	case SolverDirect, "":
		return SolverDirect, nil
	case SolverBarnesHut:
		return SolverBarnesHut, nil
	}
	return "", fmt.Errorf("unknown solver %q", name)
}

// Gravity is the Newtonian n-body system in three dimensions. State layout
// is [x0 y0 z0 x1 ... | vx0 vy0 vz0 vx1 ...].
type Gravity struct {
	Masses    []float64
	G         float64
	Softening float64
	Solver    Solver
	Theta     float64

	particles []*particle
	ps        []barneshut.Particle3
}

var (
	_ dynamo.Accelerator = (*Gravity)(nil)
	_ dynamo.Hamiltonian = (*Gravity)(nil)
)

func NewGravity(masses []float64) *Gravity {
	return &Gravity{
		Masses:    masses,
		G:         GravityConst,
		Softening: DefaultSoftening,
		Solver:    SolverDirect,
		Theta:     DefaultTheta,
	}
}

func (g *Gravity) Dim() int { return len(g.Masses) * 6 }

func (g *Gravity) Derive(x dynamo.State) dynamo.State {
	half := len(g.Masses) * 3
	dx := make(dynamo.State, len(x))
	copy(dx[:half], x[half:])
	g.Accelerations(x, dx[half:])
	return dx
}

// Accelerations writes the acceleration of every body into acc, using the
// tree when the solver asks for it and there are enough bodies.
func (g *Gravity) Accelerations(x dynamo.State, acc []float64) {
	if g.Solver == SolverBarnesHut && len(g.Masses) >= BarnesHutMin {
		if g.accelerationsTree(x, acc) {
			return
		}
	}
	clear(acc)
	g.accelerationsDirect(x, acc)
}

// accelerationsDirect is the pairwise O(n²) sum. The softening length keeps
// coincident bodies finite.
func (g *Gravity) accelerationsDirect(x dynamo.State, acc []float64) {
	n := len(g.Masses)
	eps2 := g.Softening * g.Softening

	for i := 0; i < n; i++ {
		xi, yi, zi := x[i*3], x[i*3+1], x[i*3+2]

		for j := i + 1; j < n; j++ {
			rx := x[j*3] - xi
			ry := x[j*3+1] - yi
			rz := x[j*3+2] - zi
			r2 := rx*rx + ry*ry + rz*rz + eps2
			if r2 == 0 {
				continue
			}

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := g.G * g.Masses[j] * r3Inv
			acc[i*3] += fij * rx
			acc[i*3+1] += fij * ry
			acc[i*3+2] += fij * rz

			fji := g.G * g.Masses[i] * r3Inv
			acc[j*3] -= fji * rx
			acc[j*3+1] -= fji * ry
			acc[j*3+2] -= fji * rz
		}
	}
}

type particle struct {
	pos  r3.Vec
	mass float64
}

func (p *particle) Coord3() r3.Vec { return p.pos }
func (p *particle) Mass() float64  { return p.mass }

func (g *Gravity) accelerationsTree(x dynamo.State, acc []float64) bool {
	n := len(g.Masses)
	if len(g.particles) != n {
		g.particles = make([]*particle, n)
		g.ps = make([]barneshut.Particle3, n)
		for i := range g.particles {
			g.particles[i] = &particle{}
			g.ps[i] = g.particles[i]
		}
	}
	for i, p := range g.particles {
		p.pos = r3.Vec{X: x[i*3], Y: x[i*3+1], Z: x[i*3+2]}
		p.mass = g.Masses[i]
	}

	vol, err := barneshut.NewVolume(g.ps)
	if err != nil {
		return false
	}

	eps2 := g.Softening * g.Softening
	softened := func(_, _ barneshut.Particle3, m1, m2 float64, v r3.Vec) r3.Vec {
		d2 := r3.Norm2(v) + eps2
		if d2 == 0 {
			return r3.Vec{}
		}
		return r3.Scale(m1*m2/(d2*math.Sqrt(d2)), v)
	}

	for i, p := range g.particles {
		f := vol.ForceOn(p, g.Theta, softened)
		s := g.G / p.mass
		acc[i*3] = f.X * s
		acc[i*3+1] = f.Y * s
		acc[i*3+2] = f.Z * s
	}
	return true
}

func (g *Gravity) Energy(x dynamo.State) float64 {
	n := len(g.Masses)
	half := n * 3
	eps2 := g.Softening * g.Softening
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		vx, vy, vz := x[half+i*3], x[half+i*3+1], x[half+i*3+2]
		ke += 0.5 * g.Masses[i] * (vx*vx + vy*vy + vz*vz)

		for j := i + 1; j < n; j++ {
			rx := x[j*3] - x[i*3]
			ry := x[j*3+1] - x[i*3+1]
			rz := x[j*3+2] - x[i*3+2]
			r := math.Sqrt(rx*rx + ry*ry + rz*rz + eps2)
			if r == 0 {
				continue
			}
			pe -= g.G * g.Masses[i] * g.Masses[j] / r
		}
	}

	return ke + pe
}

func (g *Gravity) Momentum(x dynamo.State) mgl64.Vec3 {
	var p mgl64.Vec3
	for i, m := range g.Masses {
		p = p.Add(x.Velocity(i).Mul(m))
	}
	return p
}

func (g *Gravity) AngularMomentum(x dynamo.State) mgl64.Vec3 {
	var l mgl64.Vec3
	for i, m := range g.Masses {
		l = l.Add(x.Position(i).Cross(x.Velocity(i)).Mul(m))
	}
	return l
}
