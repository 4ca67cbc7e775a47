package universe

import (
	"iter"
	"math"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/integrators"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/rand"
)

const (
	// VelocityFactor converts authored velocities into internal units.
	VelocityFactor = 1e-4

	// TimeScale is simulated time per microsecond of wall time at speed 1.
	TimeScale = 0.02

	DefaultTrailLength   = 200
	DefaultTrailDistance = 0.05
	DefaultStepSize      = 5.0
	SpeedDialMax         = 10.0
)

// Body is a point mass. Velocity is in internal units.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64

	trail Trail
}

func (b *Body) Radius() float64 { return physics.RadiusFromMass(b.Mass) }

func (b *Body) Trail() *Trail { return &b.trail }

// Universe owns every body of a session together with the selection and the
// settings that govern integration and trail recording.
type Universe struct {
	// Selected is the current selection; handles.None means no selection.
	// Every read goes through IsSelectedValid or GetSelected, so a removed
	// body never acts as a dangling selection.
	Selected handles.Key

	VelocityFactor float64

	// Speed multiplies wall time into simulated time. Zero pauses.
	Speed float64

	// StepSize bounds the simulated duration of a single substep.
	StepSize float64

	Integrator dynamo.Integrator
	Gravity    *physics.Gravity

	bodies        *handles.Table[Body]
	trailLength   int
	trailDistance float64
	trailDist2    float64
	rng           *rand.Rand
	time          float64

	keys  []handles.Key
	state dynamo.State
}

func New(seed uint64) *Universe {
	u := &Universe{
		VelocityFactor: VelocityFactor,
		Speed:          1,
		StepSize:       DefaultStepSize,
		Integrator:     integrators.NewLeapfrog(),
		Gravity:        physics.NewGravity(nil),
		bodies:         handles.New[Body](),
		trailLength:    DefaultTrailLength,
		rng:            rand.New(rand.NewSource(seed)),
	}
	u.SetTrailDistance(DefaultTrailDistance)
	return u
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// AddPlanet creates a body. vel must already be scaled by VelocityFactor.
func (u *Universe) AddPlanet(pos, vel mgl64.Vec3, mass float64) (handles.Key, error) {
	if !(mass > 0) || math.IsInf(mass, 0) || !finite(pos) || !finite(vel) {
		return handles.None, ErrInvalidBody
	}
	return u.bodies.Add(Body{Position: pos, Velocity: vel, Mass: mass}), nil
}

// Remove deletes a body. A stale key returns ErrNotFound and changes
// nothing. Removing the selected body clears the selection.
func (u *Universe) Remove(k handles.Key) error {
	if !u.bodies.Remove(k) {
		return notFound("remove", k)
	}
	if u.Selected == k {
		u.Selected = handles.None
	}
	return nil
}

func (u *Universe) RemoveSelected() error {
	if u.Selected == handles.None {
		return ErrNoSelection
	}
	return u.Remove(u.Selected)
}

// DeleteAll removes every body and resets the selection.
func (u *Universe) DeleteAll() {
	u.bodies.Clear()
	u.Selected = handles.None
}

func (u *Universe) SetPlanetVelocity(k handles.Key, vel mgl64.Vec3) error {
	b, ok := u.bodies.Get(k)
	if !ok {
		return notFound("set velocity", k)
	}
	if !finite(vel) {
		return ErrInvalidBody
	}
	b.Velocity = vel
	return nil
}

// Get returns the body named by k. The pointer is invalidated by the next
// add or remove.
func (u *Universe) Get(k handles.Key) (*Body, error) {
	b, ok := u.bodies.Get(k)
	if !ok {
		return nil, notFound("get", k)
	}
	return b, nil
}

func (u *Universe) IsValid(k handles.Key) bool { return u.bodies.Contains(k) }

// NextKey walks bodies in insertion order. NextKey(None) is the first body,
// the last body is followed by None.
func (u *Universe) NextKey(k handles.Key) handles.Key { return u.bodies.Next(k) }

func (u *Universe) PrevKey(k handles.Key) handles.Key { return u.bodies.Prev(k) }

func (u *Universe) All() iter.Seq2[handles.Key, *Body] { return u.bodies.All() }

// Keys lists the live keys in insertion order.
func (u *Universe) Keys() []handles.Key { return u.bodies.Keys() }

func (u *Universe) Size() int { return u.bodies.Len() }

func (u *Universe) IsEmpty() bool { return u.bodies.Len() == 0 }

func (u *Universe) IsSelectedValid() bool {
	return u.Selected != handles.None && u.bodies.Contains(u.Selected)
}

func (u *Universe) GetSelected() (*Body, error) {
	if u.Selected == handles.None {
		return nil, ErrNoSelection
	}
	b, ok := u.bodies.Get(u.Selected)
	if !ok {
		return nil, notFound("get selected", u.Selected)
	}
	return b, nil
}

func (u *Universe) ResetSelected() { u.Selected = handles.None }

func (u *Universe) TrailLength() int { return u.trailLength }

// SetTrailLength changes the per-body sample limit. Trails holding more
// samples than the new limit are cleared.
func (u *Universe) SetTrailLength(n int) {
	if n < 0 {
		n = 0
	}
	u.trailLength = n
	for _, b := range u.bodies.All() {
		b.trail.Resize(n)
	}
}

func (u *Universe) TrailDistance() float64 { return u.trailDistance }

// SetTrailDistance sets the minimum travel between trail samples. The
// comparison is done on squared distances; d <= 0 records every update.
func (u *Universe) SetTrailDistance(d float64) {
	u.trailDistance = d
	if d <= 0 {
		u.trailDist2 = 0
		return
	}
	u.trailDist2 = d * d
}

// Time is the simulated time integrated so far.
func (u *Universe) Time() float64 { return u.time }

// Seed reseeds the scenario generator.
func (u *Universe) Seed(seed uint64) { u.rng.Seed(seed) }

// CenterAll moves the mass-weighted centre of position and velocity to the
// origin and clears every trail.
func (u *Universe) CenterAll() {
	var pos, vel mgl64.Vec3
	total := 0.0
	for _, b := range u.bodies.All() {
		pos = pos.Add(b.Position.Mul(b.Mass))
		vel = vel.Add(b.Velocity.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return
	}
	pos = pos.Mul(1 / total)
	vel = vel.Mul(1 / total)
	for _, b := range u.bodies.All() {
		b.Position = b.Position.Sub(pos)
		b.Velocity = b.Velocity.Sub(vel)
		b.trail.Clear()
	}
}

// Energy is the total kinetic plus (softened) potential energy, or NaN
// when the packed state does not fit the gravity system.
func (u *Universe) Energy() float64 {
	if u.bodies.Len() == 0 {
		return 0
	}
	u.pack()
	e, err := dynamo.Energy(u.Gravity, u.state)
	if err != nil {
		return math.NaN()
	}
	return e
}

func (u *Universe) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range u.bodies.All() {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// pack copies bodies into the flat integration state.
func (u *Universe) pack() {
	n := u.bodies.Len()
	u.keys = u.keys[:0]
	if cap(u.state) < n*6 {
		u.state = dynamo.NewState(n)
	}
	u.state = u.state[:n*6]
	if cap(u.Gravity.Masses) < n {
		u.Gravity.Masses = make([]float64, n)
	}
	u.Gravity.Masses = u.Gravity.Masses[:n]

	i := 0
	for k, b := range u.bodies.All() {
		u.keys = append(u.keys, k)
		u.Gravity.Masses[i] = b.Mass
		u.state.SetBody(i, b.Position, b.Velocity)
		i++
	}
}
