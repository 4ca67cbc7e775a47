// Package export renders simulation output as SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/Fuatnow/planets-3d/internal/viz"
	"github.com/go-gl/mathgl/mgl64"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format, one circle per lit
// dot in the color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background)

	sw, sh := canvas.SubSize()
	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if color := canvas.Colors[y/4][x/2]; color != "" {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color)
			} else {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Track is one body's path seen from above, ending at the body.
type Track struct {
	Points []mgl64.Vec3
	Color  string
	// Radius of the marker drawn at the last point, in world units.
	Radius float64
}

// TracksToSVG draws tracks projected onto the xy plane with a shared,
// aspect-preserving scale. It returns "" when no track has a point.
func TracksToSVG(tracks []Track, width, height int) string {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, tr := range tracks {
		for _, p := range tr.Points {
			minX, maxX = math.Min(minX, p.X()-tr.Radius), math.Max(maxX, p.X()+tr.Radius)
			minY, maxY = math.Min(minY, p.Y()-tr.Radius), math.Max(maxY, p.Y()+tr.Radius)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := math.Min(float64(width), float64(height)) / span
	toScreen := func(p mgl64.Vec3) (float64, float64) {
		return float64(width)/2 + (p.X()-cx)*scale, float64(height)/2 - (p.Y()-cy)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, tr := range tracks {
		if len(tr.Points) == 0 {
			continue
		}
		color := tr.Color
		if color == "" {
			color = "#ffffff"
		}
		if len(tr.Points) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1.5" d="M`, color)
			for i, p := range tr.Points {
				x, y := toScreen(p)
				if i == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := toScreen(tr.Points[len(tr.Points)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, math.Max(tr.Radius*scale, 1.5), color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
