package metrics

import (
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

// Stability is the fraction of observations in which every body stayed
// within radius of the system's centre of mass. Ejected bodies lower it.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(u *universe.Universe, t float64) {
	s.samples++

	var com mgl64.Vec3
	var mass float64
	for _, b := range u.All() {
		com = com.Add(b.Position.Mul(b.Mass))
		mass += b.Mass
	}
	if mass == 0 {
		return
	}
	com = com.Mul(1 / mass)

	for _, b := range u.All() {
		if b.Position.Sub(com).Len() > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
