package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RadiusFromMass maps mass to a display radius: the radius of a sphere of
// unit density holding that mass, scaled down by ten.
func RadiusFromMass(mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return math.Cbrt(3*mass/(4*math.Pi)) / 10
}

// OrbitalSpeed is the circular-orbit speed sqrt(G·M/r).
func OrbitalSpeed(g, mass, r float64) float64 {
	if r <= 0 || mass <= 0 {
		return 0
	}
	return math.Sqrt(g * mass / r)
}

// Tangent returns a unit vector perpendicular to radial that lies in the
// plane whose normal is normal. When normal is parallel to radial a
// perpendicular axis is picked instead.
func Tangent(radial, normal mgl64.Vec3) mgl64.Vec3 {
	t := normal.Cross(radial)
	if t.Len() < 1e-12*radial.Len() || t.Len() == 0 {
		for _, axis := range []mgl64.Vec3{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}} {
			t = axis.Cross(radial)
			if t.Len() > 1e-9 {
				break
			}
		}
	}
	if t.Len() == 0 {
		return mgl64.Vec3{}
	}
	return t.Normalize()
}
