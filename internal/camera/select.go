package camera

import (
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/go-gl/mathgl/mgl64"
)

// SelectUnder picks the body under a screen point and makes it the
// selection. A body qualifies when the edge of its projected disc lies
// within tolerance pixels of the point, so larger bodies are easier to hit.
// The closest edge wins and ties go to the body nearer the camera. When
// nothing qualifies the selection is cleared.
func (c *Camera) SelectUnder(point mgl64.Vec2, tolerance float64) handles.Key {
	best := handles.None
	bestEdge, bestDepth := 0.0, 0.0

	for k, b := range c.universe.All() {
		screen, depth, visible := c.Project(b.Position)
		if !visible {
			continue
		}
		edge := screen.Sub(point).Len() - c.PixelRadius(b.Radius(), depth)
		if edge < 0 {
			edge = 0
		}
		if edge > tolerance {
			continue
		}
		if best == handles.None || edge < bestEdge || (edge == bestEdge && depth < bestDepth) {
			best, bestEdge, bestDepth = k, edge, depth
		}
	}

	c.universe.Selected = best
	return best
}
