package viz

import (
	"math"
	"sort"

	"github.com/Fuatnow/planets-3d/internal/camera"
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ArrowScale is world units of velocity arrow per authored speed unit.
	ArrowScale = 1.0
	// orbitSegments is the number of chords in a previewed orbit.
	orbitSegments = 48
	// selectionGap is the sub-pixel gap between a body and its selection ring.
	selectionGap = 2
)

// Scene is everything one frame draws.
type Scene struct {
	Universe *universe.Universe
	Camera   *camera.Camera
	Placing  *placing.Session
	Theme    Theme
}

type projected struct {
	key   handles.Key
	x, y  int
	r     int
	depth float64
	color string
}

func point(v mgl64.Vec2) (int, int) {
	return int(math.Round(v.X())), int(math.Round(v.Y()))
}

// Draw clears c and draws trails, bodies back to front, the selection ring
// and any placement draft. The camera must already be set up for this
// frame with a viewport matching c's sub-pixel size.
func (s Scene) Draw(c *Canvas) {
	c.Clear()
	u, cam := s.Universe, s.Camera

	var bodies []projected
	for k, b := range u.All() {
		color := BodyColor(s.Theme, b.Mass)
		s.drawPath(c, b.Trail().Points(), TrailColor(s.Theme, color))

		screen, depth, _ := cam.Project(b.Position)
		if depth <= 0 {
			continue
		}
		x, y := point(screen)
		bodies = append(bodies, projected{
			key:   k,
			x:     x,
			y:     y,
			r:     int(cam.PixelRadius(b.Radius(), depth)),
			depth: depth,
			color: color,
		})
	}

	sort.SliceStable(bodies, func(i, j int) bool { return bodies[i].depth > bodies[j].depth })
	for _, p := range bodies {
		c.Pen = p.color
		c.FillDisc(p.x, p.y, p.r)
		if p.key == u.Selected {
			c.Pen = string(s.Theme.Accent)
			c.Ring(p.x, p.y, p.r+selectionGap)
		}
	}

	if s.Placing != nil {
		s.drawDraft(c)
	}
	c.Pen = ""
}

// drawPath joins consecutive points that lie in front of the camera.
func (s Scene) drawPath(c *Canvas, pts []mgl64.Vec3, color string) {
	c.Pen = color
	var px, py int
	prev := false
	for _, p := range pts {
		screen, depth, _ := s.Camera.Project(p)
		if depth <= 0 {
			prev = false
			continue
		}
		x, y := point(screen)
		if prev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, prev = x, y, true
	}
}

func (s Scene) drawDraft(c *Canvas) {
	p := s.Placing
	if !p.Active() {
		return
	}
	cam := s.Camera
	draft := p.Planet

	if p.Mode() == placing.ModeOrbital {
		if ref, err := s.Universe.Get(p.Reference); err == nil {
			tangent := draft.Velocity.Sub(ref.Velocity)
			s.drawPath(c, orbitPoints(ref.Position, draft.Position, tangent), string(s.Theme.Muted))
		}
	}

	screen, depth, _ := cam.Project(draft.Position)
	if depth <= 0 {
		return
	}
	x, y := point(screen)
	c.Pen = string(s.Theme.Secondary)
	c.Ring(x, y, max(int(cam.PixelRadius(physics.RadiusFromMass(draft.Mass), depth)), 1))

	if p.Step == placing.FreeVelocity || p.Mode() == placing.ModeOrbital {
		tip := draft.Position.Add(draft.Velocity.Mul(ArrowScale / s.Universe.VelocityFactor))
		s.drawPath(c, []mgl64.Vec3{draft.Position, tip}, string(s.Theme.Warning))
	}
}

// orbitPoints is a closed circle through pos centred on centre, in the
// plane spanned by the radius and tangent.
func orbitPoints(centre, pos, tangent mgl64.Vec3) []mgl64.Vec3 {
	radial := pos.Sub(centre)
	r := radial.Len()
	if r == 0 {
		return nil
	}
	ax := radial.Normalize()
	ay := tangent.Sub(ax.Mul(tangent.Dot(ax)))
	if ay.Len() < 1e-12 {
		ay = physics.Tangent(radial, mgl64.Vec3{0, 0, 1})
	}
	ay = ay.Normalize()

	pts := make([]mgl64.Vec3, 0, orbitSegments+1)
	for i := 0; i <= orbitSegments; i++ {
		th := 2 * math.Pi * float64(i) / orbitSegments
		pts = append(pts, centre.Add(ax.Mul(r*math.Cos(th))).Add(ay.Mul(r*math.Sin(th))))
	}
	return pts
}
