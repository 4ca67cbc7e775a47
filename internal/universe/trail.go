package universe

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
)

// Trail is a bounded history of sampled positions, oldest first.
type Trail struct {
	buf   []mgl64.Vec3
	start int
	n     int
}

// Record appends p when it lies farther than sqrt(minDist2) from the last
// sample. A non-positive minDist2 records every call. Once max samples are
// stored the oldest one is dropped.
func (t *Trail) Record(p mgl64.Vec3, minDist2 float64, max int) bool {
	if max <= 0 {
		t.Clear()
		return false
	}
	if len(t.buf) != max {
		t.Resize(max)
	}
	if t.n > 0 && minDist2 > 0 {
		d := p.Sub(t.at(t.n - 1))
		if d.Dot(d) <= minDist2 {
			return false
		}
	}

	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = p
		t.n++
	} else {
		t.buf[t.start] = p
		t.start = (t.start + 1) % len(t.buf)
	}
	return true
}

func (t *Trail) at(i int) mgl64.Vec3 {
	return t.buf[(t.start+i)%len(t.buf)]
}

func (t *Trail) Len() int { return t.n }

// Last returns the newest sample.
func (t *Trail) Last() (mgl64.Vec3, bool) {
	if t.n == 0 {
		return mgl64.Vec3{}, false
	}
	return t.at(t.n - 1), true
}

func (t *Trail) Clear() {
	t.start, t.n = 0, 0
}

// Resize changes the capacity. Shrinking below the stored count clears the
// trail; growing keeps every sample.
func (t *Trail) Resize(max int) {
	if max < 0 {
		max = 0
	}
	if max < t.n {
		t.Clear()
	}
	buf := make([]mgl64.Vec3, max)
	for i := 0; i < t.n; i++ {
		buf[i] = t.at(i)
	}
	t.buf = buf
	t.start = 0
}

// Points returns a copy of the samples, oldest first.
func (t *Trail) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, t.n)
	for i := range out {
		out[i] = t.at(i)
	}
	return out
}

// All iterates the samples recorded so far, oldest first. The sequence can
// be ranged over any number of times.
func (t *Trail) All() iter.Seq[mgl64.Vec3] {
	return func(yield func(mgl64.Vec3) bool) {
		for i := 0; i < t.n; i++ {
			if !yield(t.at(i)) {
				return
			}
		}
	}
}
