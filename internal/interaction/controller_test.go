package interaction_test

import (
	"github.com/Fuatnow/planets-3d/internal/camera"
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/interaction"
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var center = mgl64.Vec2{400, 300}

var _ = Describe("Controller", func() {
	var (
		u   *universe.Universe
		cam *camera.Camera
		c   *interaction.Controller
		sun handles.Key
	)

	BeforeEach(func() {
		u = universe.New(1)
		var err error
		sun, err = u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, 1e6)
		Expect(err).NotTo(HaveOccurred())

		cam = camera.New(u)
		cam.ResizeViewport(800, 600)
		cam.XRotation = 90
		cam.Setup()
		c = interaction.New(u, cam)
	})

	Describe("pointer routing", func() {
		It("rotates the camera on a right drag and captures the pointer", func() {
			c.MouseMove(center, interaction.ButtonNone)
			hold := c.MouseMove(center.Add(mgl64.Vec2{20, 10}), interaction.ButtonRight)
			Expect(hold).To(BeTrue())
			Expect(cam.ZRotation).To(BeNumerically("~", 20*interaction.DragRotateRate, 1e-9))
			Expect(cam.XRotation).To(BeNumerically("<", 90))
		})

		It("zooms on a middle drag", func() {
			c.MouseMove(center, interaction.ButtonNone)
			hold := c.MouseMove(center.Add(mgl64.Vec2{0, 30}), interaction.ButtonMiddle)
			Expect(hold).To(BeFalse())
			Expect(cam.Distance).To(BeNumerically(">", camera.DefaultDistance))
		})

		It("gives the placement session precedence over the camera", func() {
			Expect(c.Do(interaction.ActionBeginFree)).To(Succeed())
			c.MouseMove(center, interaction.ButtonNone)
			c.MouseMove(center.Add(mgl64.Vec2{20, 10}), interaction.ButtonRight)

			Expect(cam.ZRotation).To(BeZero())
			Expect(cam.XRotation).To(Equal(90.0))
			Expect(c.Placing.Planet.Position.X()).To(BeNumerically(">", 0))
			Expect(c.Placing.Planet.Position.Z()).To(BeNumerically("~", 0, 1e-9))
		})

		It("selects the body under a left click and clears on a miss", func() {
			Expect(c.MouseClick(center, interaction.ButtonLeft)).To(BeTrue())
			Expect(u.Selected).To(Equal(sun))

			c.MouseClick(mgl64.Vec2{10, 10}, interaction.ButtonLeft)
			Expect(u.Selected).To(Equal(handles.None))

			Expect(c.MouseClick(center, interaction.ButtonRight)).To(BeFalse())
			Expect(u.Selected).To(Equal(handles.None))
		})

		It("zooms with the wheel unless a placement wants it", func() {
			c.Wheel(1)
			Expect(cam.Distance).To(BeNumerically("<", camera.DefaultDistance))

			d := cam.Distance
			c.Do(interaction.ActionBeginFree)
			mass := c.Placing.Planet.Mass
			c.Wheel(1)
			Expect(cam.Distance).To(Equal(d))
			Expect(c.Placing.Planet.Mass).To(BeNumerically(">", mass))
		})
	})

	Describe("double click", func() {
		It("follows the selection", func() {
			u.Selected = sun
			c.DoubleClick(center, interaction.ButtonLeft)
			Expect(cam.Mode).To(Equal(camera.FollowSingle))
			Expect(cam.Following).To(Equal(sun))
		})

		It("stops following and recentres without a selection", func() {
			u.Selected = sun
			c.DoubleClick(center, interaction.ButtonLeft)
			cam.Position = mgl64.Vec3{5, 5, 5}
			u.ResetSelected()

			c.DoubleClick(center, interaction.ButtonLeft)
			Expect(cam.Mode).To(Equal(camera.FollowNone))
			Expect(cam.Position).To(Equal(mgl64.Vec3{}))
		})

		It("is ignored while placing", func() {
			c.Do(interaction.ActionBeginFree)
			u.Selected = sun
			c.DoubleClick(center, interaction.ButtonLeft)
			Expect(cam.Mode).To(Equal(camera.FollowNone))
		})

		It("resets the camera with the middle or right button", func() {
			cam.Rotate(-30, 40)
			cam.SetDistance(500)
			c.DoubleClick(center, interaction.ButtonRight)
			Expect(cam.Distance).To(Equal(camera.DefaultDistance))
			Expect(cam.XRotation).To(Equal(camera.DefaultXRotation))
			Expect(cam.ZRotation).To(BeZero())
		})
	})

	Describe("frames", func() {
		BeforeEach(func() {
			_, err := u.AddOrbital(sun, mgl64.Vec3{20, 0, 0}, mgl64.Vec3{0, 0, 1}, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("advances the universe and returns the camera transform", func() {
			m, err := c.Frame(16_667)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Time()).To(BeNumerically(">", 0))
			Expect(m).To(Equal(cam.Matrix()))
		})

		It("holds time still while a body is being placed", func() {
			c.Do(interaction.ActionBeginFree)
			c.Frame(16_667)
			Expect(u.Time()).To(BeZero())

			c.Do(interaction.ActionCancel)
			c.Do(interaction.ActionToggleFiring)
			Expect(c.Placing.Mode()).To(Equal(placing.ModeFiring))
			c.Frame(16_667)
			Expect(u.Time()).To(BeNumerically(">", 0))
		})

		It("does not advance while paused", func() {
			c.Do(interaction.ActionTogglePause)
			c.Frame(16_667)
			Expect(u.Time()).To(BeZero())

			c.Do(interaction.ActionTogglePause)
			Expect(u.Speed).To(Equal(1.0))
		})
	})

	Describe("actions", func() {
		It("generates random bodies", func() {
			c.Random.Count = 7
			Expect(c.Do(interaction.ActionRandom)).To(Succeed())
			Expect(u.Size()).To(Equal(8))
		})

		It("needs a selection for orbital work", func() {
			Expect(c.Do(interaction.ActionRandomOrbital)).To(MatchError(universe.ErrNoSelection))
			Expect(c.Do(interaction.ActionBeginOrbital)).To(MatchError(universe.ErrNoSelection))
			Expect(c.Do(interaction.ActionStopSelected)).To(MatchError(universe.ErrNoSelection))

			u.Selected = sun
			c.Random.Count = 3
			Expect(c.Do(interaction.ActionRandomOrbital)).To(Succeed())
			Expect(u.Size()).To(Equal(4))
			Expect(c.Do(interaction.ActionBeginOrbital)).To(Succeed())
			Expect(c.Placing.Mode()).To(Equal(placing.ModeOrbital))
		})

		It("stops and deletes the selection", func() {
			Expect(u.SetPlanetVelocity(sun, mgl64.Vec3{1, 0, 0})).To(Succeed())
			u.Selected = sun
			Expect(c.Do(interaction.ActionStopSelected)).To(Succeed())
			b, err := u.Get(sun)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Velocity).To(Equal(mgl64.Vec3{}))

			Expect(c.Do(interaction.ActionDeleteSelected)).To(Succeed())
			Expect(u.IsEmpty()).To(BeTrue())
			Expect(u.Selected).To(Equal(handles.None))
		})

		It("clears everything", func() {
			c.Do(interaction.ActionFollowNext)
			c.Do(interaction.ActionBeginFree)
			Expect(c.Do(interaction.ActionClear)).To(Succeed())
			Expect(u.IsEmpty()).To(BeTrue())
			Expect(cam.Mode).To(Equal(camera.FollowNone))
			Expect(c.Placing.Step).To(Equal(placing.NotPlacing))
		})

		It("names every action", func() {
			Expect(interaction.ActionRandomOrbital.String()).To(Equal("random-orbital"))
			Expect(interaction.Action(999).String()).To(Equal("unknown"))
		})
	})
})
