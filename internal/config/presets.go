package config

import (
	"sort"

	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/swarm"
)

var Presets = map[string]func() *Config{
	"stage1": DefaultConfig,
	"sync": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "sync"
		cfg.Params.K = 1.0
		cfg.Params.J = 0.5
		cfg.Schedule = schedule.Constant(swarm.NoOp, 200)
		return cfg
	},
	"small": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "small"
		cfg.Params.N = 20
		cfg.Schedule = schedule.Schedule{
			{Action: swarm.NoOp, Frames: 20},
			{Action: swarm.HoldBoth, Frames: 20},
			{Action: swarm.NoOp, Frames: 20},
		}
		return cfg
	},
	"frequencies": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "frequencies"
		cfg.Params.OmegaVariation = 0.05
		cfg.Schedule = schedule.Constant(swarm.NoOp, 280)
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
