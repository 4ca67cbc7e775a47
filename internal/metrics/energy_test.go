package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

func orbit(t *testing.T) *universe.Universe {
	t.Helper()
	u := universe.New(1)
	sun, err := u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, 1e6)
	if err != nil {
		t.Fatalf("AddPlanet: %v", err)
	}
	if _, err := u.AddOrbital(sun, mgl64.Vec3{30, 0, 0}, mgl64.Vec3{0, 0, 1}, 10); err != nil {
		t.Fatalf("AddOrbital: %v", err)
	}
	return u
}

func TestEnergyDriftStartsAtZero(t *testing.T) {
	u := orbit(t)
	m := NewEnergyDrift()

	m.Observe(u, 0)
	if m.Value() != 0 {
		t.Errorf("drift after one sample = %v, want 0", m.Value())
	}
	if m.Current() != u.Energy() {
		t.Errorf("Current() = %v, want %v", m.Current(), u.Energy())
	}

	b, _ := u.Get(u.NextKey(handles.None))
	b.Velocity = b.Velocity.Add(mgl64.Vec3{1e-3, 0, 0})
	m.Observe(u, 1)
	if m.Value() == 0 {
		t.Error("expected drift after an energy change")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	u := orbit(t)
	m := NewMomentumDrift()
	m.Observe(u, 0)

	if err := u.Simulate(1000); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	m.Observe(u, 1)
	if m.Value() > 1e-9 {
		t.Errorf("momentum drift = %v, want ~0", m.Value())
	}

	k := u.NextKey(handles.None)
	b, _ := u.Get(k)
	if err := u.SetPlanetVelocity(k, b.Velocity.Add(mgl64.Vec3{0, 0, 1})); err != nil {
		t.Fatalf("SetPlanetVelocity: %v", err)
	}
	m.Observe(u, 2)
	if m.Value() < 1 {
		t.Errorf("momentum drift = %v after a kick, want > 1", m.Value())
	}
}

func TestCountsAndStability(t *testing.T) {
	u := orbit(t)
	r := sim.NewRunner()
	bodies := NewBodyCount()
	trails := NewTrailSamples()
	near := NewStability(100)
	tight := NewStability(1)
	r.AddMetric(bodies)
	r.AddMetric(trails)
	r.AddMetric(near)
	r.AddMetric(tight)
	r.AddMetric(NewEnergyDrift())

	result, err := r.Run(context.Background(), u, sim.Config{FrameDelay: 16_667, Frames: 20})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["bodies"] != 2 {
		t.Errorf("bodies = %v, want 2", result.Metrics["bodies"])
	}
	if result.Metrics["trail_samples"] <= 0 {
		t.Errorf("trail_samples = %v, want > 0", result.Metrics["trail_samples"])
	}
	if near.Value() != 1 {
		t.Errorf("stability(100) = %v, want 1", near.Value())
	}
	if tight.Value() != 0 {
		t.Errorf("stability(1) = %v, want 0", tight.Value())
	}
	if d := result.Metrics["energy_drift"]; math.IsNaN(d) || d > 1e-3 {
		t.Errorf("energy_drift = %v", d)
	}
}
