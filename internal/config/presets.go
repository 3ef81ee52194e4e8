package config

import "sort"

// Presets tweak a default configuration into a named show style.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"finale": func(c *Config) {
		c.Fireworks.CountBase = 200
		c.Fireworks.CountVariance = 160
		c.Fireworks.BurstThreshold = 0.4
		c.Input.RapidFireHz = 30
	},
	"willow": func(c *Config) {
		c.Fireworks.WillowTTLFactor = 2.0
		c.Fireworks.DecayExponent = 1.2
		c.Physics.Drag = 0.986
	},
	"calm": func(c *Config) {
		c.Fireworks.CountBase = 60
		c.Fireworks.CountVariance = 40
		c.Fireworks.StrobeChance = 0.1
		c.Input.RapidFireHz = 8
	},
	"lowpower": func(c *Config) {
		c.Quality.High = Tier{Name: "high", Scale: 0.8, Budget: 2000, SampleInterval: 2}
		c.Quality.Low = Tier{Name: "low", Scale: 0.5, Budget: 800, SampleInterval: 4}
		c.Starfield.MinStars = 30
	},
}

// GetPreset returns a default configuration with the named preset applied,
// or nil if the preset does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset mutates cfg in place. It reports whether the preset exists.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
