// Package camera implements the orbiting viewpoint and screen-space body
// selection.
//
// The camera orbits a target point at Distance, tilted by XRotation
// (elevation) and turned by ZRotation (azimuth), both in degrees. Every
// mutator clamps immediately; [Camera.Bound] re-applies the limits after
// fields were written directly.
package camera

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinDistance     = 10.0
	MaxDistance     = 1.0e4
	DefaultDistance = 100.0

	MinXRotation     = -90.0
	MaxXRotation     = 90.0
	DefaultXRotation = 45.0

	DefaultFOV  = 45.0
	DefaultNear = 0.1
	DefaultFar  = 1.0e6
)

type FollowMode int

const (
	FollowNone FollowMode = iota
	FollowSingle
	FollowPlainAverage
	FollowWeightedAverage
)

func (m FollowMode) String() string {
	switch m {
	case FollowSingle:
		return "single"
	case FollowPlainAverage:
		return "average"
	case FollowWeightedAverage:
		return "weighted"
	}
	return "none"
}

type Camera struct {
	Distance  float64
	XRotation float64
	ZRotation float64

	// Position is the point the camera orbits. Follow modes overwrite it on
	// every Setup.
	Position mgl64.Vec3

	FOV, Near, Far float64

	Mode      FollowMode
	Following handles.Key

	universe      *universe.Universe
	width, height int
	matrix        mgl64.Mat4
}

func New(u *universe.Universe) *Camera {
	c := &Camera{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		universe: u,
		width:    1,
		height:   1,
	}
	c.Reset()
	return c
}

func (c *Camera) ResizeViewport(width, height int) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

func (c *Camera) Viewport() (width, height int) { return c.width, c.height }

// Bound clamps distance and elevation and wraps the azimuth into [0, 360).
func (c *Camera) Bound() {
	if math.IsNaN(c.Distance) {
		c.Distance = DefaultDistance
	}
	if math.IsNaN(c.XRotation) {
		c.XRotation = DefaultXRotation
	}
	if math.IsNaN(c.ZRotation) || math.IsInf(c.ZRotation, 0) {
		c.ZRotation = 0
	}
	c.Distance = mgl64.Clamp(c.Distance, MinDistance, MaxDistance)
	c.XRotation = mgl64.Clamp(c.XRotation, MinXRotation, MaxXRotation)
	c.ZRotation = math.Mod(c.ZRotation, 360)
	if c.ZRotation < 0 {
		c.ZRotation += 360
	}
}

// Reset restores the default orbit. The target point and follow mode are
// left alone.
func (c *Camera) Reset() {
	c.Distance = DefaultDistance
	c.XRotation = DefaultXRotation
	c.ZRotation = 0
}

// Zoom moves the camera towards (factor < 1) or away from the target.
func (c *Camera) Zoom(factor float64) {
	c.Distance *= factor
	c.Bound()
}

func (c *Camera) SetDistance(d float64) {
	c.Distance = d
	c.Bound()
}

// Rotate adds to the elevation and azimuth, in degrees.
func (c *Camera) Rotate(dx, dz float64) {
	c.XRotation += dx
	c.ZRotation += dz
	c.Bound()
}

func (c *Camera) aspect() float64 { return float64(c.width) / float64(c.height) }

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.aspect(), c.Near, c.Far)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.Translate3D(0, 0, -c.Distance).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(c.XRotation - 90))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(c.ZRotation))).
		Mul4(mgl64.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

// Setup refreshes the follow target from the live bodies, clamps, and
// returns the combined projection·view transform.
func (c *Camera) Setup() mgl64.Mat4 {
	c.updateFollow()
	c.Bound()
	c.matrix = c.Projection().Mul4(c.View())
	return c.matrix
}

// Matrix is the transform computed by the last Setup.
func (c *Camera) Matrix() mgl64.Mat4 { return c.matrix }

// Eye is the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	return c.View().Inv().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

// Project maps a world point to screen pixels with the origin at the top
// left. depth is the distance along the view axis; visible is false for
// points behind the camera or outside the viewport.
func (c *Camera) Project(p mgl64.Vec3) (screen mgl64.Vec2, depth float64, visible bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return mgl64.Vec2{}, w, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	screen = mgl64.Vec2{
		(ndc.X() + 1) / 2 * float64(c.width),
		(1 - ndc.Y()) / 2 * float64(c.height),
	}
	visible = ndc.Z() >= -1 && ndc.Z() <= 1 &&
		screen.X() >= 0 && screen.X() <= float64(c.width) &&
		screen.Y() >= 0 && screen.Y() <= float64(c.height)
	return screen, w, visible
}

// PixelRadius is the on-screen radius of a sphere of radius r at depth.
func (c *Camera) PixelRadius(r, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	focal := float64(c.height) / 2 / math.Tan(mgl64.DegToRad(c.FOV)/2)
	return r * focal / depth
}

// Ray returns the world-space ray under a screen point.
func (c *Camera) Ray(screen mgl64.Vec2) (origin, dir mgl64.Vec3, err error) {
	view, proj := c.View(), c.Projection()
	winY := float64(c.height) - screen.Y()

	near, err := mgl64.UnProject(mgl64.Vec3{screen.X(), winY, 0}, view, proj, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	far, err := mgl64.UnProject(mgl64.Vec3{screen.X(), winY, 1}, view, proj, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return near, far.Sub(near).Normalize(), nil
}
