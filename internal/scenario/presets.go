package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"golang.org/x/exp/rand"
)

var presets = map[string]func() *Document{
	"default": defaultPreset,
	"binary":  binaryPreset,
	"solar":   solarPreset,
	"cluster": clusterPreset,
}

func Preset(name string) (*Document, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return build(), nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// circular is the authored speed of a circular orbit of radius r around
// mass.
func circular(mass, r float64) float64 {
	return physics.OrbitalSpeed(physics.GravityConst, mass, r) / universe.VelocityFactor
}

func defaultPreset() *Document {
	const sun = 1.0e6
	doc := &Document{Name: "default", Planets: []Planet{{Mass: sun}}}
	for _, r := range []float64{20, 35, 55} {
		doc.Planets = append(doc.Planets, Planet{
			Mass:     sun * 1e-4,
			Position: [3]float64{r, 0, 0},
			Velocity: [3]float64{0, circular(sun, r), 0},
		})
	}
	return doc
}

func binaryPreset() *Document {
	const m, sep = 5.0e5, 30.0
	// Each star circles the barycentre at sep/2 under the other's pull.
	v := math.Sqrt(physics.GravityConst*m/(2*sep)) / universe.VelocityFactor
	return &Document{Name: "binary", Planets: []Planet{
		{Mass: m, Position: [3]float64{-sep / 2, 0, 0}, Velocity: [3]float64{0, -v, 0}},
		{Mass: m, Position: [3]float64{sep / 2, 0, 0}, Velocity: [3]float64{0, v, 0}},
		{Mass: 10, Position: [3]float64{120, 0, 0}, Velocity: [3]float64{0, circular(2*m, 120), 0}},
	}}
}

func solarPreset() *Document {
	const sun = 2.0e6
	doc := &Document{Name: "solar", Planets: []Planet{{Mass: sun}}}
	radii := []float64{15, 25, 40, 60, 90, 130, 180, 240}
	masses := []float64{2, 30, 40, 5, 800, 500, 150, 120}
	for i, r := range radii {
		angle := float64(i) * 2.4
		s, c := math.Sincos(angle)
		v := circular(sun, r)
		doc.Planets = append(doc.Planets, Planet{
			Mass:     masses[i],
			Position: [3]float64{r * c, r * s, 0},
			Velocity: [3]float64{-v * s, v * c, 0},
		})
	}
	return doc
}

func clusterPreset() *Document {
	rng := rand.New(rand.NewSource(42))
	doc := &Document{Name: "cluster", Planets: make([]Planet, 0, universe.MaxRandom)}
	for i := 0; i < universe.MaxRandom; i++ {
		doc.Planets = append(doc.Planets, Planet{
			Mass: 1 + 999*rng.Float64(),
			Position: [3]float64{
				200 * (rng.Float64() - 0.5),
				200 * (rng.Float64() - 0.5),
				200 * (rng.Float64() - 0.5),
			},
			Velocity: [3]float64{
				rng.NormFloat64(),
				rng.NormFloat64(),
				rng.NormFloat64(),
			},
		})
	}
	return doc
}
