package config

import "sort"

// Presets tweak the default config. Each call of GetPreset starts from a
// fresh DefaultConfig.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"sparse": func(c *Config) {
		c.Counts = CountsConfig{Particles: 3000, Ornaments: 40, Photos: 6}
	},
	"blizzard": func(c *Config) {
		c.Counts.Particles = 40000
		c.Chaos.ParticleRadius = 16
		c.SmoothingRate = 4
		c.Kinds = KindConfig{Ball: 1, Gift: 0.5, Light: 3}
	},
	"clamped": func(c *Config) {
		c.OrnamentOvershoot = "clamp"
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
