package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// MinSamples is the shortest series OrbitalPeriod accepts.
const MinSamples = 8

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrNoPeriod = errors.New("analysis: no dominant period")
)

// PowerSpectrum returns |X_k|² for k = 0..n/2 of the real series data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	coeffs := fft.FFTReal(data)
	ps := make([]float64, len(coeffs)/2+1)
	for i := range ps {
		a := cmplx.Abs(coeffs[i])
		ps[i] = a * a
	}
	return ps
}

// OrbitalPeriod estimates the dominant period of series sampled every dt.
// The mean is removed and a Hann window applied before the transform; the
// spectral peak is refined by fitting a parabola through its neighbours.
func OrbitalPeriod(series []float64, dt float64) (float64, error) {
	n := len(series)
	if n < MinSamples {
		return 0, fmt.Errorf("%w: %d samples", ErrTooShort, n)
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("dt must be positive, got %g", dt)
	}

	x, mean, std := detrend(series)
	if std <= 1e-9*math.Max(math.Abs(mean), 1e-300) {
		return 0, ErrNoPeriod
	}
	window.Apply(x, window.Hann)
	ps := PowerSpectrum(x)

	k := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[k] {
			k = i
		}
	}
	if ps[k] == 0 {
		return 0, ErrNoPeriod
	}

	delta := 0.0
	if k > 1 && k < len(ps)-1 {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if den := a - 2*b + c; den != 0 {
			delta = 0.5 * (a - c) / den
		}
	}

	freq := (float64(k) + delta) / (float64(n) * dt)
	return 1 / freq, nil
}

func detrend(series []float64) (x []float64, mean, std float64) {
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	x = make([]float64, len(series))
	for i, v := range series {
		x[i] = v - mean
		std += x[i] * x[i]
	}
	std = math.Sqrt(std / float64(len(series)))
	return x, mean, std
}
