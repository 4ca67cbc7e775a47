// Package interaction routes pointer and keyboard input to the placement
// session, the camera and the universe.
//
// Pointer events are offered to the placement session first and reach the
// camera only when the session does not consume them, so a placement step
// can take over a gesture the camera would otherwise handle.
package interaction

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/camera"
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

const (
	// DefaultPickTolerance is the selection slack around a body, in pixels.
	DefaultPickTolerance = 4.0
	// ZoomStep is the distance factor per wheel notch.
	ZoomStep = 1.1
	// DragZoomRate is the log-distance change per pixel of middle drag.
	DragZoomRate = 0.01
	// DragRotateRate is degrees per pixel of right drag.
	DragRotateRate = 0.5
)

// RandomParams configure ActionRandom. Speed is in authored units.
type RandomParams struct {
	Count int
	Range float64
	Speed float64
	Mass  float64
}

func DefaultRandomParams() RandomParams {
	return RandomParams{Count: 10, Range: 100, Speed: 10, Mass: 100}
}

type Controller struct {
	Universe *universe.Universe
	Camera   *camera.Camera
	Placing  *placing.Session
	Speed    *sim.SpeedControl

	PickTolerance float64
	Random        RandomParams

	last    mgl64.Vec2
	hasLast bool
}

func New(u *universe.Universe, cam *camera.Camera) *Controller {
	return &Controller{
		Universe:      u,
		Camera:        cam,
		Placing:       placing.New(u),
		Speed:         sim.NewSpeedControl(u),
		PickTolerance: DefaultPickTolerance,
		Random:        DefaultRandomParams(),
	}
}

// MouseMove handles a pointer move with held being the button down, if any.
// It reports whether the front end should keep the pointer captured.
func (c *Controller) MouseMove(pos mgl64.Vec2, held Button) bool {
	var delta mgl64.Vec2
	if c.hasLast {
		delta = pos.Sub(c.last)
	}
	c.last, c.hasLast = pos, true

	if consumed, hold := c.Placing.HandleMouseMove(pos, delta, c.Camera); consumed {
		return hold
	}

	switch held {
	case ButtonMiddle:
		c.Camera.Zoom(math.Exp(delta.Y() * DragZoomRate))
	case ButtonRight:
		c.Camera.Rotate(-delta.Y()*DragRotateRate, delta.X()*DragRotateRate)
		return true
	}
	return false
}

// MouseClick handles a button press. A left click the placement session
// does not use selects the body under the pointer.
func (c *Controller) MouseClick(pos mgl64.Vec2, b Button) bool {
	if b != ButtonLeft {
		return false
	}
	if c.Placing.HandleMouseClick(pos, c.Camera) {
		return true
	}
	c.Camera.SelectUnder(pos, c.PickTolerance)
	return true
}

// DoubleClick with the left button follows the selection, or stops
// following and recentres on the origin when nothing is selected. It is
// ignored while placing. Middle and right double clicks reset the camera.
func (c *Controller) DoubleClick(pos mgl64.Vec2, b Button) {
	switch b {
	case ButtonLeft:
		if c.Placing.Step != placing.NotPlacing {
			return
		}
		if c.Universe.IsSelectedValid() {
			c.Camera.FollowSelection()
		} else {
			c.Camera.ClearFollow()
			c.Camera.Position = mgl64.Vec3{}
		}
	case ButtonMiddle, ButtonRight:
		c.Camera.Reset()
	}
}

// Wheel handles delta notches of scrolling; positive scrolls up.
func (c *Controller) Wheel(delta float64) {
	if c.Placing.HandleMouseWheel(delta) {
		return
	}
	c.Camera.Zoom(math.Pow(ZoomStep, -delta))
}

// Frame advances the universe by deltaMicros unless a placement is in
// progress and returns the camera transform for this frame. The transform
// is valid even when the advance reports an error.
func (c *Controller) Frame(deltaMicros int64) (mgl64.Mat4, error) {
	var err error
	if c.Placing.AllowsAdvance() {
		err = c.Universe.Advance(deltaMicros)
	}
	return c.Camera.Setup(), err
}
