package camera

import (
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/go-gl/mathgl/mgl64"
)

// FollowSelection tracks the selected body, or stops following when the
// selection is empty or stale.
func (c *Camera) FollowSelection() {
	if !c.universe.IsSelectedValid() {
		c.ClearFollow()
		return
	}
	c.Following = c.universe.Selected
	c.Mode = FollowSingle
}

// FollowNext tracks the body after the current one, wrapping to the first.
func (c *Camera) FollowNext() {
	c.followStep(c.universe.NextKey)
}

// FollowPrevious tracks the body before the current one, wrapping to the last.
func (c *Camera) FollowPrevious() {
	c.followStep(c.universe.PrevKey)
}

func (c *Camera) followStep(step func(handles.Key) handles.Key) {
	cur := handles.None
	if c.Mode == FollowSingle {
		cur = c.Following
	}
	next := step(cur)
	if next == handles.None {
		next = step(handles.None)
	}
	if next == handles.None {
		c.ClearFollow()
		return
	}
	c.Following = next
	c.Mode = FollowSingle
}

func (c *Camera) FollowPlainAverage() {
	c.Following = handles.None
	c.Mode = FollowPlainAverage
}

func (c *Camera) FollowWeightedAverage() {
	c.Following = handles.None
	c.Mode = FollowWeightedAverage
}

// ClearFollow stops following. The target stays where it is.
func (c *Camera) ClearFollow() {
	c.Following = handles.None
	c.Mode = FollowNone
}

// updateFollow re-reads the live position of whatever is followed. A
// followed body that no longer exists cancels the follow and leaves the
// target frozen at its last known position.
func (c *Camera) updateFollow() {
	switch c.Mode {
	case FollowSingle:
		b, err := c.universe.Get(c.Following)
		if err != nil {
			c.ClearFollow()
			return
		}
		c.Position = b.Position

	case FollowPlainAverage:
		if c.universe.IsEmpty() {
			return
		}
		var sum mgl64.Vec3
		for _, b := range c.universe.All() {
			sum = sum.Add(b.Position)
		}
		c.Position = sum.Mul(1 / float64(c.universe.Size()))

	case FollowWeightedAverage:
		var sum mgl64.Vec3
		total := 0.0
		for _, b := range c.universe.All() {
			sum = sum.Add(b.Position.Mul(b.Mass))
			total += b.Mass
		}
		if total > 0 {
			c.Position = sum.Mul(1 / total)
		}
	}
}
