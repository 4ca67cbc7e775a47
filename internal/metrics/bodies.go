package metrics

import "github.com/Fuatnow/planets-3d/internal/universe"

// BodyCount reports the number of bodies at the last observation.
type BodyCount struct {
	count int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (b *BodyCount) Name() string { return "bodies" }

func (b *BodyCount) Observe(u *universe.Universe, t float64) { b.count = u.Size() }

func (b *BodyCount) Value() float64 { return float64(b.count) }

func (b *BodyCount) Reset() { b.count = 0 }

// TrailSamples reports the total number of recorded trail points at the
// last observation.
type TrailSamples struct {
	total int
}

func NewTrailSamples() *TrailSamples { return &TrailSamples{} }

func (s *TrailSamples) Name() string { return "trail_samples" }

func (s *TrailSamples) Observe(u *universe.Universe, t float64) {
	s.total = 0
	for _, b := range u.All() {
		s.total += b.Trail().Len()
	}
}

func (s *TrailSamples) Value() float64 { return float64(s.total) }

func (s *TrailSamples) Reset() { s.total = 0 }
