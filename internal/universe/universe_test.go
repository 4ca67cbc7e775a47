package universe

import (
	"errors"
	"math"
	"testing"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func mustAdd(t *testing.T, u *Universe, pos, vel mgl64.Vec3, mass float64) handles.Key {
	t.Helper()
	k, err := u.AddPlanet(pos, vel, mass)
	if err != nil {
		t.Fatalf("AddPlanet: %v", err)
	}
	return k
}

func closeTo(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestAddPlanetValidation(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl64.Vec3
		mass float64
		ok   bool
	}{
		{"valid", mgl64.Vec3{1, 2, 3}, 10, true},
		{"zero mass", mgl64.Vec3{}, 0, false},
		{"negative mass", mgl64.Vec3{}, -1, false},
		{"NaN mass", mgl64.Vec3{}, math.NaN(), false},
		{"Inf position", mgl64.Vec3{math.Inf(1), 0, 0}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(1)
			_, err := u.AddPlanet(tt.pos, mgl64.Vec3{}, tt.mass)
			if (err == nil) != tt.ok {
				t.Errorf("AddPlanet error = %v, want ok=%v", err, tt.ok)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidBody) {
				t.Errorf("error = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestRemoveStaleKey(t *testing.T) {
	u := New(1)
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	other := mustAdd(t, u, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, 1)

	if err := u.Remove(k); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := u.Get(k); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
	}
	if err := u.Remove(k); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
	if err := u.SetPlanetVelocity(k, mgl64.Vec3{1, 0, 0}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPlanetVelocity error = %v, want ErrNotFound", err)
	}

	if u.Size() != 1 || u.NextKey(handles.None) != other || u.NextKey(other) != handles.None {
		t.Error("failed Remove disturbed the iteration order")
	}

	var ke *KeyError
	if err := u.Remove(k); !errors.As(err, &ke) || ke.Op != "remove" || ke.Key != k {
		t.Errorf("error = %#v, want KeyError for remove of %v", err, k)
	}
}

func TestSelection(t *testing.T) {
	u := New(1)
	if u.IsSelectedValid() {
		t.Error("empty selection reported valid")
	}
	if _, err := u.GetSelected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("GetSelected error = %v, want ErrNoSelection", err)
	}

	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 5)
	u.Selected = k
	if b, err := u.GetSelected(); err != nil || b.Mass != 5 {
		t.Errorf("GetSelected = %v, %v", b, err)
	}

	if err := u.RemoveSelected(); err != nil {
		t.Fatalf("RemoveSelected: %v", err)
	}
	if u.Selected != handles.None || u.IsSelectedValid() {
		t.Error("removing the selected body must clear the selection")
	}

	u.Selected = k
	if u.IsSelectedValid() {
		t.Error("stale selection reported valid")
	}
	if _, err := u.GetSelected(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSelected on stale key error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAll(t *testing.T) {
	u := New(1)
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	u.Selected = k

	u.DeleteAll()
	if !u.IsEmpty() || u.Selected != handles.None || u.NextKey(handles.None) != handles.None {
		t.Error("DeleteAll left bodies or a selection behind")
	}
}

func TestTwoBodiesAttract(t *testing.T) {
	u := New(1)
	a := mustAdd(t, u, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, 1e6)
	b := mustAdd(t, u, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, 2e6)

	if err := u.Advance(1000); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	ba, _ := u.Get(a)
	bb, _ := u.Get(b)
	if ba.Position.X() <= 0 {
		t.Errorf("lighter body x = %v, want > 0", ba.Position.X())
	}
	if bb.Position.X() >= 1 {
		t.Errorf("heavier body x = %v, want < 1", bb.Position.X())
	}
	if ba.Position.X()-0 <= 1-bb.Position.X() {
		t.Error("lighter body should move farther than the heavier one")
	}
}

func TestIsolatedBodyMovesInStraightLine(t *testing.T) {
	u := New(1)
	vel := mgl64.Vec3{1e-3, -2e-4, 5e-5}
	k := mustAdd(t, u, mgl64.Vec3{1, 1, 1}, vel, 10)

	for i := 0; i < 10; i++ {
		u.Advance(1000)
	}

	b, _ := u.Get(k)
	elapsed := 10 * 1000 * TimeScale
	want := mgl64.Vec3{1, 1, 1}.Add(vel.Mul(elapsed))
	if !closeTo(b.Position, want, 1e-12) {
		t.Errorf("position = %v, want %v", b.Position, want)
	}
	if b.Velocity != vel {
		t.Errorf("velocity = %v, want %v", b.Velocity, vel)
	}
}

func TestAdvanceZeroIsNoOp(t *testing.T) {
	u := New(1)
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1)
	mustAdd(t, u, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}, 1e6)
	u.Advance(100)

	before, _ := u.Get(k)
	pos, vel, samples := before.Position, before.Velocity, before.Trail().Len()

	u.Advance(0)
	u.Advance(-50)

	after, _ := u.Get(k)
	if after.Position != pos || after.Velocity != vel || after.Trail().Len() != samples {
		t.Error("Advance(0) changed the body")
	}
}

func TestPausedUniverseDoesNotMove(t *testing.T) {
	u := New(1)
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1)
	u.Speed = 0
	u.Advance(1_000_000)

	if b, _ := u.Get(k); b.Position != (mgl64.Vec3{}) {
		t.Errorf("paused body moved to %v", b.Position)
	}
}

func threeBody(t *testing.T) (*Universe, []handles.Key) {
	u := New(1)
	keys := []handles.Key{
		mustAdd(t, u, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}, 1e7),
		mustAdd(t, u, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 1.2e-2, 0}, 1e3),
		mustAdd(t, u, mgl64.Vec3{0, -7, 1}, mgl64.Vec3{9e-3, 0, 0}, 5e2),
	}
	return u, keys
}

func TestLongAdvanceMatchesRepeatedShortOnes(t *testing.T) {
	for _, stepSize := range []float64{5, 20} {
		long, keys := threeBody(t)
		short, _ := threeBody(t)
		long.StepSize = stepSize
		short.StepSize = stepSize

		long.Advance(3000)
		for i := 0; i < 3; i++ {
			short.Advance(1000)
		}

		for _, k := range keys {
			a, _ := long.Get(k)
			b, _ := short.Get(k)
			if !closeTo(a.Position, b.Position, 1e-9) {
				t.Errorf("step %v: position %v vs %v", stepSize, a.Position, b.Position)
			}
			if !closeTo(a.Velocity, b.Velocity, 1e-12) {
				t.Errorf("step %v: velocity %v vs %v", stepSize, a.Velocity, b.Velocity)
			}
		}
		if math.Abs(long.Time()-short.Time()) > 1e-9 {
			t.Errorf("simulated time %v vs %v", long.Time(), short.Time())
		}
	}
}

func TestTrailSpacingAndCap(t *testing.T) {
	u := New(1)
	u.SetTrailLength(20)
	u.SetTrailDistance(0.05)
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{1e-3, 0, 0}, 1)

	for i := 0; i < 20; i++ {
		u.Advance(1000)
	}
	b, _ := u.Get(k)
	pts := b.Trail().Points()
	if len(pts) < 2 {
		t.Fatalf("only %d samples recorded", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if d := pts[i].Sub(pts[i-1]).Len(); d < 0.05-1e-12 {
			t.Errorf("samples %d and %d are %v apart, want >= 0.05", i-1, i, d)
		}
	}

	for i := 0; i < 2000; i++ {
		u.Advance(1000)
	}
	if n := b.Trail().Len(); n != 20 {
		t.Errorf("trail length = %d, want the cap of 20", n)
	}

	u.SetTrailLength(10)
	if n := b.Trail().Len(); n != 0 {
		t.Errorf("shrinking the cap below the length should clear the trail, got %d", n)
	}
}

func TestTrailWithoutThresholdRecordsEverySubstep(t *testing.T) {
	u := New(1)
	u.SetTrailDistance(0)
	u.StepSize = 5
	k := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1)

	u.Advance(1000) // 20 time units in 4 substeps
	b, _ := u.Get(k)
	if n := b.Trail().Len(); n != 4 {
		t.Errorf("trail length = %d, want 4", n)
	}
}

func TestGenerateRandom(t *testing.T) {
	u := New(3)
	keys := u.GenerateRandom(60, 100, 2e-4, 1e3)
	if len(keys) != MaxRandom || u.Size() != MaxRandom {
		t.Fatalf("generated %d bodies (size %d), want %d", len(keys), u.Size(), MaxRandom)
	}

	for _, b := range u.All() {
		for _, c := range b.Position {
			if math.Abs(c) > 100 {
				t.Errorf("position %v outside range", b.Position)
			}
		}
		if b.Velocity.Len() > 2e-4+1e-15 {
			t.Errorf("speed %v above maximum", b.Velocity.Len())
		}
		if b.Mass <= 0 || b.Mass > 1e3 {
			t.Errorf("mass %v outside (0, 1e3]", b.Mass)
		}
	}

	if got := u.GenerateRandom(-1, 100, 0, 1); len(got) != 0 {
		t.Errorf("negative count generated %d bodies", len(got))
	}
}

func TestGenerateRandomOrbital(t *testing.T) {
	u := New(5)
	refPos := mgl64.Vec3{1, 2, 3}
	refVel := mgl64.Vec3{1e-4, 0, 0}
	ref := mustAdd(t, u, refPos, refVel, 1e6)

	keys, err := u.GenerateRandomOrbital(MaxRandom+5, ref)
	if err != nil {
		t.Fatalf("GenerateRandomOrbital: %v", err)
	}
	if len(keys) != MaxRandom {
		t.Errorf("generated %d bodies, want %d", len(keys), MaxRandom)
	}

	for _, k := range keys {
		b, _ := u.Get(k)
		radial := b.Position.Sub(refPos)
		rel := b.Velocity.Sub(refVel)
		r := radial.Len()

		want := physics.OrbitalSpeed(physics.GravityConst, 1e6, r)
		if math.Abs(rel.Len()-want)/want > 1e-9 {
			t.Errorf("orbital speed = %v, want %v", rel.Len(), want)
		}
		if cos := rel.Dot(radial) / (rel.Len() * r); math.Abs(cos) > 1e-9 {
			t.Errorf("velocity not perpendicular to radius: cos = %v", cos)
		}
	}
}

func TestGenerateRandomOrbitalFailures(t *testing.T) {
	u := New(1)
	stale := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1)
	u.Remove(stale)

	if _, err := u.GenerateRandomOrbital(3, handles.None); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ref none: error = %v, want ErrNoSelection", err)
	}
	if _, err := u.GenerateRandomOrbital(3, stale); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale ref: error = %v, want ErrNotFound", err)
	}
	if u.Size() != 0 {
		t.Errorf("failed generation created %d bodies", u.Size())
	}
}

func TestAddOrbital(t *testing.T) {
	u := New(1)
	ref := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1e6)

	k, err := u.AddOrbital(ref, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{0, 0, 1}, 10)
	if err != nil {
		t.Fatalf("AddOrbital: %v", err)
	}
	b, _ := u.Get(k)
	want := physics.OrbitalSpeed(physics.GravityConst, 1e6, 5)
	if !closeTo(b.Velocity, mgl64.Vec3{0, want, 0}, 1e-15) {
		t.Errorf("velocity = %v, want [0 %v 0]", b.Velocity, want)
	}

	if _, err := u.AddOrbital(ref, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 10); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("orbit at the reference position: error = %v, want ErrInvalidBody", err)
	}
}

func TestCenterAll(t *testing.T) {
	u := New(2)
	u.GenerateRandom(10, 50, 1e-3, 100)
	u.Advance(10_000)
	u.CenterAll()

	var com mgl64.Vec3
	total := 0.0
	for _, b := range u.All() {
		com = com.Add(b.Position.Mul(b.Mass))
		total += b.Mass
		if b.Trail().Len() != 0 {
			t.Error("CenterAll should clear trails")
		}
	}
	if com.Mul(1/total).Len() > 1e-9 {
		t.Errorf("centre of mass = %v, want origin", com.Mul(1/total))
	}
	if p := u.Momentum(); p.Len() > 1e-9 {
		t.Errorf("momentum = %v, want 0", p)
	}
}

func TestEnergyConservedOnOrbit(t *testing.T) {
	u := New(1)
	ref := mustAdd(t, u, mgl64.Vec3{}, mgl64.Vec3{}, 1e7)
	u.AddOrbital(ref, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{0, 0, 1}, 1)

	e0 := u.Energy()
	for i := 0; i < 500; i++ {
		if err := u.Advance(16_667); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if drift := math.Abs(u.Energy()-e0) / math.Abs(e0); drift > 1e-3 {
		t.Errorf("relative energy drift = %v", drift)
	}
}
