package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/Fuatnow/planets-3d/internal/camera"
	"github.com/Fuatnow/planets-3d/internal/integrators"
	"github.com/Fuatnow/planets-3d/internal/interaction"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSpeed         = 1.0
	DefaultMaxFrameDelay = 100_000
	DefaultSeed          = 1
	DefaultScenario      = "default"
	DefaultLogLevel      = "info"
)

type Config struct {
	Scenario        string       `yaml:"scenario"`
	VelocityFactor  float64      `yaml:"velocity_factor"`
	Speed           float64      `yaml:"speed"`
	TrailLength     int          `yaml:"trail_length"`
	TrailDistance   float64      `yaml:"trail_distance"`
	StepSize        float64      `yaml:"step_size"`
	MaxFrameDelayUs int64        `yaml:"max_frame_delay_us"`
	Integrator      string       `yaml:"integrator"`
	Solver          string       `yaml:"solver"`
	Theta           float64      `yaml:"theta"`
	Softening       float64      `yaml:"softening"`
	Seed            uint64       `yaml:"seed"`
	PickTolerance   float64      `yaml:"pick_tolerance"`
	Camera          CameraConfig `yaml:"camera"`
	Random          RandomConfig `yaml:"random"`
	LogLevel        string       `yaml:"log_level"`
}

type CameraConfig struct {
	Distance  float64 `yaml:"distance"`
	XRotation float64 `yaml:"x_rotation"`
	ZRotation float64 `yaml:"z_rotation"`
}

type RandomConfig struct {
	Count int     `yaml:"count"`
	Range float64 `yaml:"range"`
	Speed float64 `yaml:"speed"`
	Mass  float64 `yaml:"mass"`
}

func DefaultConfig() *Config {
	r := interaction.DefaultRandomParams()
	return &Config{
		Scenario:        DefaultScenario,
		VelocityFactor:  universe.VelocityFactor,
		Speed:           DefaultSpeed,
		TrailLength:     universe.DefaultTrailLength,
		TrailDistance:   universe.DefaultTrailDistance,
		StepSize:        universe.DefaultStepSize,
		MaxFrameDelayUs: DefaultMaxFrameDelay,
		Integrator:      integrators.Default,
		Solver:          string(physics.SolverDirect),
		Theta:           physics.DefaultTheta,
		Softening:       physics.DefaultSoftening,
		Seed:            DefaultSeed,
		PickTolerance:   interaction.DefaultPickTolerance,
		Camera: CameraConfig{
			Distance:  camera.DefaultDistance,
			XRotation: camera.DefaultXRotation,
		},
		Random: RandomConfig{
			Count: r.Count,
			Range: r.Range,
			Speed: r.Speed,
			Mass:  r.Mass,
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads path over a copy of base: keys the file leaves out keep
// base's values. base itself is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := *base
	cfg := &c
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.VelocityFactor > 0) {
		return fmt.Errorf("velocity_factor must be positive, got %g", c.VelocityFactor)
	}
	if c.Speed < 0 || c.Speed > universe.SpeedDialMax {
		return fmt.Errorf("speed must be within [0, %g], got %g", universe.SpeedDialMax, c.Speed)
	}
	if c.TrailLength < 0 {
		return fmt.Errorf("trail_length must not be negative, got %d", c.TrailLength)
	}
	if c.TrailDistance < 0 {
		return fmt.Errorf("trail_distance must not be negative, got %g", c.TrailDistance)
	}
	if !(c.StepSize > 0) {
		return fmt.Errorf("step_size must be positive, got %g", c.StepSize)
	}
	if c.MaxFrameDelayUs <= 0 {
		return fmt.Errorf("max_frame_delay_us must be positive, got %d", c.MaxFrameDelayUs)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	if _, err := physics.ParseSolver(c.Solver); err != nil {
		return err
	}
	if c.Theta < 0 {
		return fmt.Errorf("theta must not be negative, got %g", c.Theta)
	}
	// Softening bounds the pairwise force at close approach.
	if !(c.Softening > 0) || math.IsInf(c.Softening, 0) {
		return fmt.Errorf("softening must be positive, got %g", c.Softening)
	}
	if c.Random.Count < 0 || c.Random.Count > universe.MaxRandom {
		return fmt.Errorf("random.count must be within [0, %d], got %d", universe.MaxRandom, c.Random.Count)
	}
	return nil
}

// Apply copies the simulation settings onto u.
func (c *Config) Apply(u *universe.Universe) error {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return err
	}
	solver, err := physics.ParseSolver(c.Solver)
	if err != nil {
		return err
	}

	u.VelocityFactor = c.VelocityFactor
	u.Speed = c.Speed
	u.StepSize = c.StepSize
	u.Integrator = integ
	u.Gravity.Solver = solver
	u.Gravity.Theta = c.Theta
	u.Gravity.Softening = c.Softening
	u.SetTrailLength(c.TrailLength)
	u.SetTrailDistance(c.TrailDistance)
	u.Seed(c.Seed)
	return nil
}

func (c *Config) ApplyCamera(cam *camera.Camera) {
	cam.Distance = c.Camera.Distance
	cam.XRotation = c.Camera.XRotation
	cam.ZRotation = c.Camera.ZRotation
	cam.Bound()
}

func (c *Config) ApplyController(ctl *interaction.Controller) {
	ctl.PickTolerance = c.PickTolerance
	ctl.Random = interaction.RandomParams{
		Count: c.Random.Count,
		Range: c.Random.Range,
		Speed: c.Random.Speed,
		Mass:  c.Random.Mass,
	}
	if c.Speed > 0 {
		ctl.Speed.Set(c.Speed)
	}
}

func (c *Config) MaxFrameDelay() time.Duration {
	return time.Duration(c.MaxFrameDelayUs) * time.Microsecond
}
