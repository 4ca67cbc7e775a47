// Package placing implements the interactive body-creation workflow.
//
// A [Session] is a finite-state machine advanced by one call per input
// event. Free placement walks FreePositionXY → FreePositionZ → FreeVelocity
// and commits on the third click. Orbital placement needs a selected
// reference body and walks OrbitalPlanet → OrbitalPlane before committing a
// body on a circular orbit. Firing mode launches a body along the view ray
// on every click and, unlike the other steps, lets the simulation run.
package placing

import (
	"math"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
)

type Step int

const (
	NotPlacing Step = iota
	FreePositionXY
	FreePositionZ
	FreeVelocity
	Firing
	OrbitalPlanet
	OrbitalPlane
)

func (s Step) String() string {
	switch s {
	case FreePositionXY:
		return "position xy"
	case FreePositionZ:
		return "position z"
	case FreeVelocity:
		return "velocity"
	case Firing:
		return "firing"
	case OrbitalPlanet:
		return "orbit radius"
	case OrbitalPlane:
		return "orbit plane"
	}
	return "inactive"
}

type Mode int

const (
	ModeInactive Mode = iota
	ModeFree
	ModeOrbital
	ModeFiring
)

const (
	DefaultMass        = 100.0
	MinMass            = 1.0
	MaxMass            = 1.0e9
	DefaultFiringSpeed = 10.0
	DefaultFiringMass  = 10.0

	// MassWheelFactor scales the mass per wheel notch.
	MassWheelFactor = 1.1
	// SpeedStep is the authored-unit speed change per wheel notch.
	SpeedStep = 0.5
	// RotateRate is degrees of rotation per pixel of mouse travel.
	RotateRate = 0.5
	// HeightRate is height change per pixel, relative to the eye distance.
	HeightRate = 5.0e-3
)

// Viewer is the part of the camera the session needs.
type Viewer interface {
	Ray(screen mgl64.Vec2) (origin, dir mgl64.Vec3, err error)
	Eye() mgl64.Vec3
}

// Draft is the body being placed. Velocity is in internal units.
type Draft struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

type Session struct {
	Step   Step
	Planet Draft

	// Speed is the draft's authored speed during FreeVelocity.
	Speed float64

	// Rotation orients the draft velocity in free placement and the orbital
	// plane in orbital placement.
	Rotation mgl64.Mat4

	Reference     handles.Key
	OrbitalRadius float64

	FiringSpeed float64
	FiringMass  float64

	// Err is the result of the last commit: nil when it added a body.
	Err error

	universe *universe.Universe
}

func New(u *universe.Universe) *Session {
	return &Session{
		Planet:      Draft{Mass: DefaultMass},
		Rotation:    mgl64.Ident4(),
		FiringSpeed: DefaultFiringSpeed,
		FiringMass:  DefaultFiringMass,
		universe:    u,
	}
}

func (s *Session) Mode() Mode {
	switch s.Step {
	case FreePositionXY, FreePositionZ, FreeVelocity:
		return ModeFree
	case OrbitalPlanet, OrbitalPlane:
		return ModeOrbital
	case Firing:
		return ModeFiring
	}
	return ModeInactive
}

// Active reports whether a draft body is being edited.
func (s *Session) Active() bool {
	m := s.Mode()
	return m == ModeFree || m == ModeOrbital
}

// AllowsAdvance reports whether the simulation may run. Time stands still
// while a body is being placed.
func (s *Session) AllowsAdvance() bool {
	return s.Step == NotPlacing || s.Step == Firing
}

func (s *Session) reset() {
	s.Planet.Position = mgl64.Vec3{}
	s.Planet.Velocity = mgl64.Vec3{}
	if !(s.Planet.Mass > 0) {
		s.Planet.Mass = DefaultMass
	}
	s.Speed = 0
	s.Rotation = mgl64.Ident4()
	s.Reference = handles.None
	s.OrbitalRadius = 0
}

// BeginInteractiveCreation starts free placement and clears the selection.
func (s *Session) BeginInteractiveCreation() {
	s.reset()
	s.Step = FreePositionXY
	s.universe.ResetSelected()
}

// BeginOrbitalCreation starts orbital placement around the selected body.
// It does nothing and reports false without a valid selection.
func (s *Session) BeginOrbitalCreation() bool {
	ref, err := s.universe.GetSelected()
	if err != nil {
		return false
	}
	s.reset()
	s.Step = OrbitalPlanet
	s.Reference = s.universe.Selected
	s.OrbitalRadius = ref.Radius() * universe.OrbitMinRadiusFactor
	s.Planet.Mass = math.Max(MinMass, ref.Mass*universe.OrbitMassRatio)
	s.Planet.Position = ref.Position.Add(mgl64.Vec3{s.OrbitalRadius, 0, 0})
	s.previewOrbit()
	return true
}

// EnableFiringMode switches firing on or off. Turning it on abandons any
// placement in progress.
func (s *Session) EnableFiringMode(on bool) {
	if on {
		s.reset()
		s.Step = Firing
		return
	}
	if s.Step == Firing {
		s.Step = NotPlacing
	}
}

// Cancel abandons the session without touching the universe.
func (s *Session) Cancel() {
	s.Step = NotPlacing
	s.Reference = handles.None
}

// reference resolves the orbital reference body. A reference that has
// disappeared ends the session.
func (s *Session) reference() (*universe.Body, bool) {
	b, err := s.universe.Get(s.Reference)
	if err != nil {
		s.Cancel()
		return nil, false
	}
	return b, true
}

func (s *Session) planeNormal() mgl64.Vec3 {
	return s.Rotation.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3()
}

func (s *Session) updateVelocity() {
	dir := s.Rotation.Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Vec3()
	s.Planet.Velocity = dir.Mul(s.Speed * s.universe.VelocityFactor)
}

func (s *Session) previewOrbit() {
	v, err := s.universe.OrbitalVelocity(s.Reference, s.Planet.Position, s.planeNormal())
	if err == nil {
		s.Planet.Velocity = v
	}
}

// intersectPlane returns where the ray meets the plane through point with
// the given normal.
func intersectPlane(origin, dir, point, normal mgl64.Vec3) (mgl64.Vec3, bool) {
	denom := dir.Dot(normal)
	if math.Abs(denom) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	t := point.Sub(origin).Dot(normal) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

func dragRotation(delta mgl64.Vec2) mgl64.Mat4 {
	yaw := mgl64.DegToRad(delta.X() * RotateRate)
	pitch := mgl64.DegToRad(delta.Y() * RotateRate)
	return mgl64.HomogRotate3DZ(yaw).Mul4(mgl64.HomogRotate3DX(pitch))
}

// HandleMouseMove offers a pointer move to the session. consumed is false
// when the camera should handle the move instead; hold asks the front end
// to keep the cursor captured while a drag adjusts the draft.
func (s *Session) HandleMouseMove(pos, delta mgl64.Vec2, v Viewer) (consumed, hold bool) {
	switch s.Step {
	case FreePositionXY:
		origin, dir, err := v.Ray(pos)
		if err != nil {
			return true, false
		}
		if hit, ok := intersectPlane(origin, dir, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}); ok {
			s.Planet.Position = hit
		}
		return true, false

	case FreePositionZ:
		dist := v.Eye().Sub(s.Planet.Position).Len()
		s.Planet.Position[2] -= delta.Y() * dist * HeightRate
		return true, true

	case FreeVelocity:
		s.Rotation = dragRotation(delta).Mul4(s.Rotation)
		s.updateVelocity()
		return true, true

	case OrbitalPlanet:
		ref, ok := s.reference()
		if !ok {
			return false, false
		}
		origin, dir, err := v.Ray(pos)
		if err != nil {
			return true, false
		}
		hit, ok := intersectPlane(origin, dir, ref.Position, s.planeNormal())
		if !ok {
			return true, false
		}
		offset := hit.Sub(ref.Position)
		if offset.Len() == 0 {
			return true, false
		}
		s.OrbitalRadius = math.Max(offset.Len(), ref.Radius())
		s.Planet.Position = ref.Position.Add(offset.Normalize().Mul(s.OrbitalRadius))
		s.previewOrbit()
		return true, false

	case OrbitalPlane:
		ref, ok := s.reference()
		if !ok {
			return false, false
		}
		rot := dragRotation(delta)
		s.Rotation = rot.Mul4(s.Rotation)
		offset := rot.Mul4x1(s.Planet.Position.Sub(ref.Position).Vec4(0)).Vec3()
		s.Planet.Position = ref.Position.Add(offset)
		s.previewOrbit()
		return true, true
	}
	return false, false
}

// HandleMouseClick advances the workflow. It reports false when the click
// should fall through to the camera.
func (s *Session) HandleMouseClick(pos mgl64.Vec2, v Viewer) bool {
	switch s.Step {
	case FreePositionXY:
		s.Step = FreePositionZ
		return true

	case FreePositionZ:
		s.Step = FreeVelocity
		s.Rotation = mgl64.Ident4()
		s.updateVelocity()
		return true

	case FreeVelocity:
		k, err := s.universe.AddPlanet(s.Planet.Position, s.Planet.Velocity, s.Planet.Mass)
		if err == nil {
			s.universe.Selected = k
		}
		s.Err = err
		s.Step = NotPlacing
		return true

	case Firing:
		origin, dir, err := v.Ray(pos)
		if err != nil {
			s.Err = err
			return true
		}
		vel := dir.Mul(s.FiringSpeed * s.universe.VelocityFactor)
		_, s.Err = s.universe.AddPlanet(origin, vel, s.FiringMass)
		return true

	case OrbitalPlanet:
		if _, ok := s.reference(); !ok {
			return false
		}
		s.Step = OrbitalPlane
		return true

	case OrbitalPlane:
		if _, ok := s.reference(); !ok {
			return false
		}
		k, err := s.universe.AddOrbital(s.Reference, s.Planet.Position, s.planeNormal(), s.Planet.Mass)
		if err == nil {
			s.universe.Selected = k
		}
		s.Err = err
		s.Step = NotPlacing
		s.Reference = handles.None
		return true
	}
	return false
}

// HandleMouseWheel changes the draft mass while positioning and the draft
// speed while aiming.
func (s *Session) HandleMouseWheel(delta float64) bool {
	switch s.Step {
	case FreePositionXY, FreePositionZ, OrbitalPlanet, OrbitalPlane:
		s.Planet.Mass = mgl64.Clamp(s.Planet.Mass*math.Pow(MassWheelFactor, delta), MinMass, MaxMass)
		return true

	case FreeVelocity:
		s.Speed = math.Max(0, s.Speed+delta*SpeedStep)
		s.updateVelocity()
		return true
	}
	return false
}
