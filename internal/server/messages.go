package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/scenario"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/Fuatnow/planets-3d/internal/viz"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrUnknownCommand = errors.New("server: unknown command")
	ErrRateLimited    = errors.New("server: rate limited")
	ErrClosed         = errors.New("server: closed")
)

// commandOps are the ops apply understands.
var commandOps = map[string]bool{
	"random": true, "orbital": true, "add": true, "remove": true, "select": true,
	"velocity": true, "clear": true, "center": true, "speed": true, "load": true,
}

// opLabel maps ops outside commandOps to "unknown", keeping metric label
// values to a fixed set whatever clients send.
func opLabel(op string) string {
	if commandOps[op] {
		return op
	}
	return "unknown"
}

const (
	MessageFrame = "frame"
	MessageReply = "reply"
)

// Message is what the server writes to a client. Exactly one of Frame and
// Reply is set, as named by Type.
type Message struct {
	Type  string `json:"type"`
	Frame *Frame `json:"frame,omitempty"`
	Reply *Reply `json:"reply,omitempty"`
}

// Frame is a snapshot of the universe. Velocities are in authored units.
type Frame struct {
	Time     float64     `json:"time"`
	Speed    float64     `json:"speed"`
	Selected handles.Key `json:"selected"`
	Bodies   []BodyFrame `json:"bodies"`
}

type BodyFrame struct {
	Key      handles.Key  `json:"key"`
	Position [3]float64   `json:"position"`
	Velocity [3]float64   `json:"velocity"`
	Mass     float64      `json:"mass"`
	Radius   float64      `json:"radius"`
	Color    string       `json:"color"`
	Trail    [][3]float64 `json:"trail,omitempty"`
}

// Command is a request from a client. Velocities are in authored units.
//
//	{"op": "random", "count": 10}
//	{"op": "add", "position": [0, 0, 0], "velocity": [0, 1, 0], "mass": 100}
//	{"op": "load", "document": "planets:\n  - {mass: 1, ...}"}
type Command struct {
	ID       int         `json:"id,omitempty"`
	Op       string      `json:"op"`
	Key      handles.Key `json:"key,omitempty"`
	Count    int         `json:"count,omitempty"`
	Position [3]float64  `json:"position,omitempty"`
	Velocity [3]float64  `json:"velocity,omitempty"`
	Mass     float64     `json:"mass,omitempty"`
	Speed    float64     `json:"speed,omitempty"`
	Document string      `json:"document,omitempty"`
}

type Reply struct {
	ID    int           `json:"id,omitempty"`
	Op    string        `json:"op"`
	OK    bool          `json:"ok"`
	Error string        `json:"error,omitempty"`
	Keys  []handles.Key `json:"keys,omitempty"`
}

// RandomDefaults fill in random commands that leave fields zero.
type RandomDefaults struct {
	Count int
	Range float64
	Speed float64
	Mass  float64
}

// apply runs cmd against u. It must only be called by the goroutine that
// owns u.
func apply(u *universe.Universe, speed *sim.SpeedControl, def RandomDefaults, cmd Command) ([]handles.Key, error) {
	switch cmd.Op {
	case "random":
		count := cmd.Count
		if count <= 0 {
			count = def.Count
		}
		return u.GenerateRandom(count, def.Range, def.Speed*u.VelocityFactor, def.Mass), nil

	case "orbital":
		ref := cmd.Key
		if ref == handles.None {
			ref = u.Selected
		}
		count := cmd.Count
		if count <= 0 {
			count = def.Count
		}
		return u.GenerateRandomOrbital(count, ref)

	case "add":
		k, err := u.AddPlanet(mgl64.Vec3(cmd.Position), mgl64.Vec3(cmd.Velocity).Mul(u.VelocityFactor), cmd.Mass)
		if err != nil {
			return nil, err
		}
		return []handles.Key{k}, nil

	case "remove":
		return nil, u.Remove(cmd.Key)

	case "select":
		if cmd.Key != handles.None && !u.IsValid(cmd.Key) {
			return nil, fmt.Errorf("select %s: %w", cmd.Key, universe.ErrNotFound)
		}
		u.Selected = cmd.Key
		return nil, nil

	case "velocity":
		return nil, u.SetPlanetVelocity(cmd.Key, mgl64.Vec3(cmd.Velocity).Mul(u.VelocityFactor))

	case "clear":
		u.DeleteAll()
		return nil, nil

	case "center":
		u.CenterAll()
		return nil, nil

	case "speed":
		speed.Set(cmd.Speed)
		return nil, nil

	case "load":
		doc, err := scenario.Decode(strings.NewReader(cmd.Document), scenario.FormatYAML)
		if err != nil {
			return nil, err
		}
		if _, err := scenario.Load(u, doc); err != nil {
			return nil, err
		}
		return u.Keys(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Op)
}

// snapshot builds a frame from u, with trails when withTrails is set.
func snapshot(u *universe.Universe, th viz.Theme, withTrails bool) *Frame {
	f := &Frame{
		Time:     u.Time(),
		Speed:    u.Speed,
		Selected: handles.None,
		Bodies:   make([]BodyFrame, 0, u.Size()),
	}
	if u.IsSelectedValid() {
		f.Selected = u.Selected
	}
	for k, b := range u.All() {
		bf := BodyFrame{
			Key:      k,
			Position: b.Position,
			Velocity: b.Velocity.Mul(1 / u.VelocityFactor),
			Mass:     b.Mass,
			Radius:   b.Radius(),
			Color:    viz.BodyColor(th, b.Mass),
		}
		if withTrails {
			pts := b.Trail().Points()
			bf.Trail = make([][3]float64, len(pts))
			for i, p := range pts {
				bf.Trail[i] = p
			}
		}
		f.Bodies = append(f.Bodies, bf)
	}
	return f
}
