package metrics

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

// EnergyDrift tracks the largest relative departure of the total energy
// from its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *universe.Universe, t float64) {
	energy := u.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest change of total momentum, relative to the
// summed magnitude of the bodies' momenta at the first observation.
type MomentumDrift struct {
	initial  mgl64.Vec3
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(u *universe.Universe, t float64) {
	p := u.Momentum()
	if m.samples == 0 {
		m.initial = p
		for _, b := range u.All() {
			m.scale += b.Velocity.Len() * b.Mass
		}
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len()/m.scale)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
