package config

import "sort"

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"fast": preset(func(c *Config) {
		c.Render.PlaybackSpeed = 4
		c.Render.EndDelay = 1
	}),
	"slow": preset(func(c *Config) {
		c.Render.PlaybackSpeed = 0.25
	}),
	"preview": preset(func(c *Config) {
		c.Render.FrameRate = 15
		c.Render.CellPixelSize = 6
		c.Render.LaneSpacing = 12
	}),
	"quick": preset(func(c *Config) {
		c.Runs = 5
		c.Retry.MaxFailures = 5
	}),
	"sequential": preset(func(c *Config) {
		c.Algo = "seq"
	}),
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
