package universe

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxRandom caps how many bodies a single generation request creates.
	MaxRandom = 50

	// Orbital bodies start between these multiples of the reference radius.
	OrbitMinRadiusFactor = 2.0
	OrbitMaxRadiusFactor = 50.0

	// OrbitMassRatio bounds an orbital body's mass relative to its reference.
	OrbitMassRatio = 0.01
)

func clampCount(count int) int {
	return max(0, min(count, MaxRandom))
}

// unitVector is uniform on the unit sphere.
func (u *Universe) unitVector() mgl64.Vec3 {
	z := 2*u.rng.Float64() - 1
	phi := 2 * math.Pi * u.rng.Float64()
	r := math.Sqrt(1 - z*z)
	return mgl64.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// positiveUpTo is uniform in (0, limit].
func (u *Universe) positiveUpTo(limit float64) float64 {
	return limit * (1 - u.rng.Float64())
}

// GenerateRandom adds count bodies (at most MaxRandom) with positions
// uniform in the cube [-posRange, posRange]³, velocities of uniform
// magnitude up to maxSpeed in a uniform direction, and masses uniform in
// (0, maxMass]. maxSpeed is in internal units.
func (u *Universe) GenerateRandom(count int, posRange, maxSpeed, maxMass float64) []handles.Key {
	count = clampCount(count)
	if !(maxMass > 0) {
		return nil
	}
	keys := make([]handles.Key, 0, count)
	for i := 0; i < count; i++ {
		pos := mgl64.Vec3{
			posRange * (2*u.rng.Float64() - 1),
			posRange * (2*u.rng.Float64() - 1),
			posRange * (2*u.rng.Float64() - 1),
		}
		vel := u.unitVector().Mul(maxSpeed * u.rng.Float64())
		k, err := u.AddPlanet(pos, vel, u.positiveUpTo(maxMass))
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// GenerateRandomOrbital adds count bodies (at most MaxRandom) on circular
// orbits around ref. It creates nothing and fails when ref is none or stale.
func (u *Universe) GenerateRandomOrbital(count int, ref handles.Key) ([]handles.Key, error) {
	if ref == handles.None {
		return nil, ErrNoSelection
	}
	b, err := u.Get(ref)
	if err != nil {
		return nil, &KeyError{Op: "generate orbital", Key: ref, Err: ErrNotFound}
	}
	center, centerVel, centerMass, radius := b.Position, b.Velocity, b.Mass, b.Radius()

	count = clampCount(count)
	keys := make([]handles.Key, 0, count)
	for i := 0; i < count; i++ {
		dist := radius * (OrbitMinRadiusFactor + (OrbitMaxRadiusFactor-OrbitMinRadiusFactor)*u.rng.Float64())
		dir := u.unitVector()
		tangent := physics.Tangent(dir, u.unitVector())
		speed := physics.OrbitalSpeed(u.Gravity.G, centerMass, dist)

		pos := center.Add(dir.Mul(dist))
		vel := centerVel.Add(tangent.Mul(speed))
		k, err := u.AddPlanet(pos, vel, u.positiveUpTo(centerMass*OrbitMassRatio))
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// OrbitalVelocity is the velocity that puts a body at pos on a circular
// orbit around ref in the plane with the given normal.
func (u *Universe) OrbitalVelocity(ref handles.Key, pos, normal mgl64.Vec3) (mgl64.Vec3, error) {
	b, err := u.Get(ref)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	radial := pos.Sub(b.Position)
	r := radial.Len()
	if r == 0 {
		return mgl64.Vec3{}, ErrInvalidBody
	}
	speed := physics.OrbitalSpeed(u.Gravity.G, b.Mass, r)
	return b.Velocity.Add(physics.Tangent(radial, normal).Mul(speed)), nil
}

// AddOrbital creates a body at pos orbiting ref in the plane with the given
// normal.
func (u *Universe) AddOrbital(ref handles.Key, pos, normal mgl64.Vec3, mass float64) (handles.Key, error) {
	vel, err := u.OrbitalVelocity(ref, pos, normal)
	if err != nil {
		return handles.None, err
	}
	return u.AddPlanet(pos, vel, mass)
}
