package integrators

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/physics"
)

func TestIntegratorsFollowOscillator(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q): %v", name, err)
			}

			x := dynamo.State{1.0, 0.0}
			dt := 0.001
			steps := 1000
			for i := 0; i < steps; i++ {
				x = integ.Step(oscillator{}, x, dt)
			}

			want := math.Cos(float64(steps) * dt)
			if math.Abs(x[0]-want) > 2e-3 {
				t.Errorf("x(1) = %.6f, want %.6f", x[0], want)
			}
		})
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	for _, name := range []string{"euler", "leapfrog", "verlet"} {
		t.Run(name, func(t *testing.T) {
			integ, _ := Get(name)
			x := dynamo.State{1.0, 0.0}
			for i := 0; i < 100000; i++ {
				x = integ.Step(oscillator{}, x, 0.05)
			}
			e := 0.5 * (x[0]*x[0] + x[1]*x[1])
			if math.Abs(e-0.5) > 0.05 {
				t.Errorf("energy after long run = %v, want about 0.5", e)
			}
		})
	}
}

func TestIntegratorsDeterministic(t *testing.T) {
	g := physics.NewGravity([]float64{1e6, 2e6, 5e5})
	x0 := dynamo.State{0, 0, 0, 1, 0, 0, 0, 2, 1, 0, 1e-4, 0, 0, -1e-4, 0, 1e-5, 0, 0}

	for _, name := range Names() {
		a, _ := Get(name)
		b, _ := Get(name)
		xa, xb := x0.Clone(), x0.Clone()
		for i := 0; i < 50; i++ {
			xa = a.Step(g, xa, 2)
			xb = b.Step(g, xb, 2)
		}
		if !slices.Equal(xa, xb) {
			t.Errorf("%s: runs diverged: %v vs %v", name, xa, xb)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("rk45"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("Get(rk45) error = %v, want ErrUnknownIntegrator", err)
	}
	integ, err := Get("")
	if err != nil {
		t.Fatalf("Get(\"\"): %v", err)
	}
	if _, ok := integ.(*Leapfrog); !ok {
		t.Errorf("default integrator = %T, want *Leapfrog", integ)
	}
}
