package integrators

import (
	"testing"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/physics"
)

func benchState(n int) (*physics.Gravity, dynamo.State) {
	masses := make([]float64, n)
	x := dynamo.NewState(n)
	for i := range masses {
		masses[i] = 100
		x[i*3] = float64(i%7) * 3
		x[i*3+1] = float64(i%5) * 3
		x[i*3+2] = float64(i%3) * 3
	}
	return physics.NewGravity(masses), x
}

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator, n int) {
	g, x := benchState(n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(g, x, 4)
	}
}

func BenchmarkEuler_NBody50(b *testing.B)    { benchmarkIntegrator(b, NewEuler(), 50) }
func BenchmarkLeapfrog_NBody50(b *testing.B) { benchmarkIntegrator(b, NewLeapfrog(), 50) }
func BenchmarkVerlet_NBody50(b *testing.B)   { benchmarkIntegrator(b, NewVerlet(), 50) }
func BenchmarkRK4_NBody50(b *testing.B)      { benchmarkIntegrator(b, NewRK4(), 50) }

func BenchmarkLeapfrog_BarnesHut500(b *testing.B) {
	g, x := benchState(500)
	g.Solver = physics.SolverBarnesHut
	integ := NewLeapfrog()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(g, x, 4)
	}
}
