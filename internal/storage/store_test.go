package storage

import (
	"context"
	"testing"

	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

func run(t *testing.T) *sim.Result {
	t.Helper()
	u := universe.New(1)
	sun, _ := u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, 1e6)
	if _, err := u.GenerateRandomOrbital(3, sun); err != nil {
		t.Fatalf("GenerateRandomOrbital: %v", err)
	}
	result, err := sim.NewRunner().Run(context.Background(), u, sim.Config{FrameDelay: 10_000, Frames: 6, SampleEvery: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestSaveLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result := run(t)
	id, err := s.Save(RunMetadata{Scenario: "test", Seed: 1, Integrator: "leapfrog"}, result)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != id || meta.Bodies != 4 || meta.Frames != 6 || meta.Integrator != "leapfrog" {
		t.Errorf("metadata = %+v", meta)
	}

	samples, err := s.LoadSamples(id)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}
	if want := len(result.Snapshots) * 4; len(samples) != want {
		t.Fatalf("got %d samples, want %d", len(samples), want)
	}

	last := result.Snapshots[len(result.Snapshots)-1].Bodies[2]
	got := samples[len(samples)-2]
	if got.Key != last.Key || got.Position != last.Position || got.Velocity != last.Velocity || got.Mass != last.Mass {
		t.Errorf("sample = %+v, want %+v", got, last)
	}

	keys, tracks := Tracks(samples)
	if len(keys) != 4 {
		t.Fatalf("got %d tracks, want 4", len(keys))
	}
	if n := len(tracks[keys[0]]); n != len(result.Snapshots) {
		t.Errorf("track length = %d, want %d", n, len(result.Snapshots))
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("List() on empty store = %v, %v", runs, err)
	}

	result := run(t)
	first, _ := s.Save(RunMetadata{Scenario: "a"}, result)
	second, _ := s.Save(RunMetadata{Scenario: "b"}, result)

	runs, err = s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("List order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); err == nil {
		t.Error("expected error")
	}
	if _, err := s.LoadSamples("nope"); err == nil {
		t.Error("expected error")
	}
}
