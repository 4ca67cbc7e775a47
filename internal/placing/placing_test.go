package placing_test

import (
	"errors"
	"math"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// overhead looks straight down the z axis; screen coordinates are world x
// and y.
type overhead struct{}

func (overhead) Ray(screen mgl64.Vec2) (mgl64.Vec3, mgl64.Vec3, error) {
	return mgl64.Vec3{screen.X(), screen.Y(), 100}, mgl64.Vec3{0, 0, -1}, nil
}

func (overhead) Eye() mgl64.Vec3 { return mgl64.Vec3{0, 0, 100} }

var errBlind = errors.New("no ray")

// blind cannot cast rays.
type blind struct{ overhead }

func (blind) Ray(mgl64.Vec2) (mgl64.Vec3, mgl64.Vec3, error) {
	return mgl64.Vec3{}, mgl64.Vec3{}, errBlind
}

var _ = Describe("Session", func() {
	var (
		u *universe.Universe
		s *placing.Session
		v overhead
	)

	BeforeEach(func() {
		u = universe.New(1)
		s = placing.New(u)
	})

	It("starts inactive and ignores input", func() {
		Expect(s.Mode()).To(Equal(placing.ModeInactive))
		consumed, hold := s.HandleMouseMove(mgl64.Vec2{1, 1}, mgl64.Vec2{1, 1}, v)
		Expect(consumed).To(BeFalse())
		Expect(hold).To(BeFalse())
		Expect(s.HandleMouseClick(mgl64.Vec2{}, v)).To(BeFalse())
		Expect(s.HandleMouseWheel(1)).To(BeFalse())
		Expect(s.AllowsAdvance()).To(BeTrue())
	})

	Describe("free placement", func() {
		BeforeEach(func() {
			k, err := u.AddPlanet(mgl64.Vec3{50, 0, 0}, mgl64.Vec3{}, 10)
			Expect(err).NotTo(HaveOccurred())
			u.Selected = k
			s.BeginInteractiveCreation()
		})

		It("clears the selection and pauses the simulation", func() {
			Expect(s.Step).To(Equal(placing.FreePositionXY))
			Expect(u.Selected).To(Equal(handles.None))
			Expect(s.AllowsAdvance()).To(BeFalse())
		})

		It("tracks the pointer on the z=0 plane", func() {
			consumed, hold := s.HandleMouseMove(mgl64.Vec2{3, -4}, mgl64.Vec2{}, v)
			Expect(consumed).To(BeTrue())
			Expect(hold).To(BeFalse())
			Expect(s.Planet.Position).To(Equal(mgl64.Vec3{3, -4, 0}))
		})

		It("scales the mass with the wheel within bounds", func() {
			before := s.Planet.Mass
			Expect(s.HandleMouseWheel(2)).To(BeTrue())
			Expect(s.Planet.Mass).To(BeNumerically("~", before*placing.MassWheelFactor*placing.MassWheelFactor, 1e-9))

			s.HandleMouseWheel(-1000)
			Expect(s.Planet.Mass).To(Equal(placing.MinMass))
			s.HandleMouseWheel(1000)
			Expect(s.Planet.Mass).To(Equal(placing.MaxMass))
		})

		It("walks through height and velocity and commits on the third click", func() {
			s.HandleMouseMove(mgl64.Vec2{3, 4}, mgl64.Vec2{}, v)
			Expect(s.HandleMouseClick(mgl64.Vec2{3, 4}, v)).To(BeTrue())
			Expect(s.Step).To(Equal(placing.FreePositionZ))

			consumed, hold := s.HandleMouseMove(mgl64.Vec2{}, mgl64.Vec2{0, -10}, v)
			Expect(consumed).To(BeTrue())
			Expect(hold).To(BeTrue())
			Expect(s.Planet.Position.Z()).To(BeNumerically(">", 0))
			Expect(s.Planet.Position.X()).To(Equal(3.0))

			Expect(s.HandleMouseClick(mgl64.Vec2{}, v)).To(BeTrue())
			Expect(s.Step).To(Equal(placing.FreeVelocity))

			Expect(s.HandleMouseWheel(4)).To(BeTrue())
			Expect(s.Speed).To(Equal(4 * placing.SpeedStep))
			want := mgl64.Vec3{0, s.Speed * u.VelocityFactor, 0}
			Expect(s.Planet.Velocity.Sub(want).Len()).To(BeNumerically("<", 1e-15))

			draft := s.Planet
			Expect(s.HandleMouseClick(mgl64.Vec2{}, v)).To(BeTrue())
			Expect(s.Step).To(Equal(placing.NotPlacing))
			Expect(u.Size()).To(Equal(2))

			b, err := u.GetSelected()
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Position).To(Equal(draft.Position))
			Expect(b.Velocity).To(Equal(draft.Velocity))
			Expect(b.Mass).To(Equal(draft.Mass))
		})

		It("never lets the speed go negative", func() {
			s.HandleMouseClick(mgl64.Vec2{}, v)
			s.HandleMouseClick(mgl64.Vec2{}, v)
			s.HandleMouseWheel(-3)
			Expect(s.Speed).To(BeZero())
		})

		It("rotates the velocity direction while dragging", func() {
			s.HandleMouseClick(mgl64.Vec2{}, v)
			s.HandleMouseClick(mgl64.Vec2{}, v)
			s.HandleMouseWheel(2)
			speed := s.Planet.Velocity.Len()

			s.HandleMouseMove(mgl64.Vec2{}, mgl64.Vec2{180, 0}, v)
			Expect(s.Planet.Velocity.Len()).To(BeNumerically("~", speed, 1e-15))
			Expect(s.Planet.Velocity.X()).To(BeNumerically("<", 0))
		})

		It("leaves the universe untouched on cancel", func() {
			s.HandleMouseClick(mgl64.Vec2{}, v)
			s.Cancel()
			Expect(s.Step).To(Equal(placing.NotPlacing))
			Expect(u.Size()).To(Equal(1))
		})
	})

	Describe("orbital placement", func() {
		var sun handles.Key

		BeforeEach(func() {
			var err error
			sun, err = u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, 1e6)
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses to start without a selection", func() {
			Expect(s.BeginOrbitalCreation()).To(BeFalse())
			Expect(s.Step).To(Equal(placing.NotPlacing))
		})

		Context("around the selected body", func() {
			BeforeEach(func() {
				u.Selected = sun
				Expect(s.BeginOrbitalCreation()).To(BeTrue())
			})

			It("places the draft at the pointer distance with a circular velocity", func() {
				Expect(s.Mode()).To(Equal(placing.ModeOrbital))
				s.HandleMouseMove(mgl64.Vec2{10, 0}, mgl64.Vec2{}, v)
				Expect(s.OrbitalRadius).To(BeNumerically("~", 10, 1e-9))
				Expect(s.Planet.Position.Sub(mgl64.Vec3{10, 0, 0}).Len()).To(BeNumerically("<", 1e-9))

				want := physics.OrbitalSpeed(u.Gravity.G, 1e6, 10)
				Expect(s.Planet.Velocity.Len()).To(BeNumerically("~", want, want*1e-9))
				Expect(s.Planet.Velocity.Dot(s.Planet.Position)).To(BeNumerically("~", 0, 1e-12))
			})

			It("keeps the radius while the plane tilts and commits an orbiting body", func() {
				s.HandleMouseMove(mgl64.Vec2{10, 0}, mgl64.Vec2{}, v)
				Expect(s.HandleMouseClick(mgl64.Vec2{}, v)).To(BeTrue())
				Expect(s.Step).To(Equal(placing.OrbitalPlane))

				consumed, hold := s.HandleMouseMove(mgl64.Vec2{}, mgl64.Vec2{40, 60}, v)
				Expect(consumed).To(BeTrue())
				Expect(hold).To(BeTrue())
				Expect(s.Planet.Position.Len()).To(BeNumerically("~", 10, 1e-9))

				Expect(s.HandleMouseClick(mgl64.Vec2{}, v)).To(BeTrue())
				Expect(s.Step).To(Equal(placing.NotPlacing))
				Expect(u.Size()).To(Equal(2))
				Expect(u.Selected).NotTo(Equal(sun))

				b, err := u.GetSelected()
				Expect(err).NotTo(HaveOccurred())
				speed := physics.OrbitalSpeed(u.Gravity.G, 1e6, 10)
				Expect(b.Velocity.Len()).To(BeNumerically("~", speed, speed*1e-9))
				Expect(math.Abs(b.Velocity.Dot(b.Position))).To(BeNumerically("<", 1e-12))
			})

			It("cancels when the reference disappears", func() {
				Expect(u.Remove(sun)).To(Succeed())
				consumed, _ := s.HandleMouseMove(mgl64.Vec2{10, 0}, mgl64.Vec2{}, v)
				Expect(consumed).To(BeFalse())
				Expect(s.Step).To(Equal(placing.NotPlacing))
				Expect(u.Size()).To(BeZero())
			})
		})
	})

	Describe("firing mode", func() {
		BeforeEach(func() {
			s.EnableFiringMode(true)
		})

		It("lets the simulation run and passes moves through", func() {
			Expect(s.Mode()).To(Equal(placing.ModeFiring))
			Expect(s.AllowsAdvance()).To(BeTrue())
			consumed, _ := s.HandleMouseMove(mgl64.Vec2{}, mgl64.Vec2{5, 5}, v)
			Expect(consumed).To(BeFalse())
		})

		It("launches a body along the view ray on every click", func() {
			Expect(s.HandleMouseClick(mgl64.Vec2{1, 2}, v)).To(BeTrue())
			Expect(s.HandleMouseClick(mgl64.Vec2{1, 2}, v)).To(BeTrue())
			Expect(u.Size()).To(Equal(2))
			Expect(s.Step).To(Equal(placing.Firing))

			k := u.NextKey(handles.None)
			b, err := u.Get(k)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Position).To(Equal(mgl64.Vec3{1, 2, 100}))
			Expect(b.Velocity).To(Equal(mgl64.Vec3{0, 0, -s.FiringSpeed * u.VelocityFactor}))
			Expect(b.Mass).To(Equal(s.FiringMass))
		})

		It("reports a rejected launch and keeps firing", func() {
			s.FiringMass = 0
			Expect(s.HandleMouseClick(mgl64.Vec2{1, 2}, v)).To(BeTrue())
			Expect(s.Err).To(MatchError(universe.ErrInvalidBody))
			Expect(u.Size()).To(Equal(0))
			Expect(s.Step).To(Equal(placing.Firing))

			s.FiringMass = 5
			Expect(s.HandleMouseClick(mgl64.Vec2{1, 2}, v)).To(BeTrue())
			Expect(s.Err).NotTo(HaveOccurred())
			Expect(u.Size()).To(Equal(1))
		})

		It("reports a failed view ray", func() {
			Expect(s.HandleMouseClick(mgl64.Vec2{}, blind{})).To(BeTrue())
			Expect(s.Err).To(MatchError(errBlind))
			Expect(u.Size()).To(Equal(0))
		})

		It("turns off", func() {
			s.EnableFiringMode(false)
			Expect(s.Step).To(Equal(placing.NotPlacing))
		})
	})
})
