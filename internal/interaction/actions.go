package interaction

import (
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

type Action int

const (
	ActionNone Action = iota
	ActionBeginFree
	ActionBeginOrbital
	ActionToggleFiring
	ActionCancel
	ActionDeleteSelected
	ActionStopSelected
	ActionCenterAll
	ActionFollowNext
	ActionFollowPrevious
	ActionFollowAverage
	ActionFollowWeighted
	ActionClearFollow
	ActionResetCamera
	ActionTogglePause
	ActionSpeedUp
	ActionSlowDown
	ActionRandom
	ActionRandomOrbital
	ActionClear
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionBeginFree:      "place",
	ActionBeginOrbital:   "place-orbital",
	ActionToggleFiring:   "fire",
	ActionCancel:         "cancel",
	ActionDeleteSelected: "delete",
	ActionStopSelected:   "stop",
	ActionCenterAll:      "center",
	ActionFollowNext:     "follow-next",
	ActionFollowPrevious: "follow-previous",
	ActionFollowAverage:  "follow-average",
	ActionFollowWeighted: "follow-weighted",
	ActionClearFollow:    "follow-clear",
	ActionResetCamera:    "reset-camera",
	ActionTogglePause:    "pause",
	ActionSpeedUp:        "faster",
	ActionSlowDown:       "slower",
	ActionRandom:         "random",
	ActionRandomOrbital:  "random-orbital",
	ActionClear:          "clear",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Do performs a keyboard action.
func (c *Controller) Do(a Action) error {
	u := c.Universe
	switch a {
	case ActionBeginFree:
		c.Placing.BeginInteractiveCreation()
	case ActionBeginOrbital:
		if !c.Placing.BeginOrbitalCreation() {
			return universe.ErrNoSelection
		}
	case ActionToggleFiring:
		c.Placing.EnableFiringMode(c.Placing.Mode() != placing.ModeFiring)
	case ActionCancel:
		c.Placing.Cancel()
	case ActionDeleteSelected:
		return u.RemoveSelected()
	case ActionStopSelected:
		if !u.IsSelectedValid() {
			return universe.ErrNoSelection
		}
		return u.SetPlanetVelocity(u.Selected, mgl64.Vec3{})
	case ActionCenterAll:
		u.CenterAll()
	case ActionFollowNext:
		c.Camera.FollowNext()
	case ActionFollowPrevious:
		c.Camera.FollowPrevious()
	case ActionFollowAverage:
		c.Camera.FollowPlainAverage()
	case ActionFollowWeighted:
		c.Camera.FollowWeightedAverage()
	case ActionClearFollow:
		c.Camera.ClearFollow()
	case ActionResetCamera:
		c.Camera.Reset()
	case ActionTogglePause:
		c.Speed.Toggle()
	case ActionSpeedUp:
		c.Speed.FastForward()
	case ActionSlowDown:
		c.Speed.Slower()
	case ActionRandom:
		r := c.Random
		u.GenerateRandom(r.Count, r.Range, r.Speed*u.VelocityFactor, r.Mass)
	case ActionRandomOrbital:
		_, err := u.GenerateRandomOrbital(c.Random.Count, u.Selected)
		return err
	case ActionClear:
		c.Placing.Cancel()
		c.Camera.ClearFollow()
		u.DeleteAll()
	}
	return nil
}
