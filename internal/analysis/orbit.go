package analysis

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Distances returns |a[i] - b[i]| for the common prefix of two paths.
func Distances(a, b []mgl64.Vec3) []float64 {
	n := min(len(a), len(b))
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = a[i].Sub(b[i]).Len()
	}
	return d
}

// Eccentricity of a bound orbit from its extreme distances.
func Eccentricity(distances []float64) float64 {
	if len(distances) == 0 {
		return 0
	}
	lo, hi := distances[0], distances[0]
	for _, d := range distances {
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	if lo+hi == 0 {
		return 0
	}
	return (hi - lo) / (hi + lo)
}

// Apsides returns the sample times of local distance minima (periapses)
// and maxima (apoapses).
func Apsides(times, distances []float64) (peri, apo []float64) {
	n := min(len(times), len(distances))
	for i := 1; i < n-1; i++ {
		prev, cur, next := distances[i-1], distances[i], distances[i+1]
		switch {
		case cur < prev && cur <= next:
			peri = append(peri, times[i])
		case cur > prev && cur >= next:
			apo = append(apo, times[i])
		}
	}
	return peri, apo
}

// PlotXY draws the path projected onto the XY plane, with axes where they
// cross the visible area.
func PlotXY(path []mgl64.Vec3, width, height int) string {
	if len(path) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := path[0].X(), path[0].X()
	minY, maxY := path[0].Y(), path[0].Y()
	for _, p := range path {
		minX = math.Min(minX, p.X())
		maxX = math.Max(maxX, p.X())
		minY = math.Min(minY, p.Y())
		maxY = math.Max(maxY, p.Y())
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range path {
		col := int((p.X() - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y()-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
