package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"fast": func() *Config {
		c := DefaultConfig()
		c.Speed = 4
		c.StepSize = 10
		c.TrailLength = 100
		return c
	}(),
	"long-trails": func() *Config {
		c := DefaultConfig()
		c.TrailLength = 2000
		c.TrailDistance = 0.01
		return c
	}(),
	"cluster": func() *Config {
		c := DefaultConfig()
		c.Scenario = "cluster"
		c.Solver = "barneshut"
		c.Integrator = "leapfrog"
		c.Camera.Distance = 400
		c.Random.Count = 50
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
