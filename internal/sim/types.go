package sim

import (
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

type Metric interface {
	Name() string
	Observe(u *universe.Universe, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(u *universe.Universe, frame int)
}

// Config drives a headless run. FrameDelay is the wall-clock interval, in
// microseconds, that every frame hands to Advance.
type Config struct {
	FrameDelay  int64
	Frames      int
	SampleEvery int
	StopOnError bool
}

type BodyState struct {
	Key      handles.Key
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

type Snapshot struct {
	Time   float64
	Bodies []BodyState
}

// Capture copies the current bodies in key order.
func Capture(u *universe.Universe) Snapshot {
	s := Snapshot{Time: u.Time(), Bodies: make([]BodyState, 0, u.Size())}
	for k, b := range u.All() {
		s.Bodies = append(s.Bodies, BodyState{
			Key:      k,
			Position: b.Position,
			Velocity: b.Velocity,
			Mass:     b.Mass,
		})
	}
	return s
}

type Result struct {
	Frames      int
	Times       []float64
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	Errors      []error
}
