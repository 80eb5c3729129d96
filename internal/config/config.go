package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/swarm"
)

const (
	DefaultSeed    = 12345
	DefaultDataDir = ".swarmsim"
)

type Config struct {
	Name     string            `yaml:"name"`
	Seed     int64             `yaml:"seed"`
	Steps    int               `yaml:"steps"`
	Dt       float64           `yaml:"dt"`
	Params   swarm.Params      `yaml:"params"`
	Schedule schedule.Schedule `yaml:"schedule"`
	DataDir  string            `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "stage1",
		Seed:     DefaultSeed,
		Params:   swarm.DefaultParams(),
		Schedule: schedule.Parity(),
		DataDir:  DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Validate checks the physics parameters, the schedule and the run length.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("config: schedule: %w", err)
	}
	if c.Steps < 0 {
		return fmt.Errorf("config: steps must be non-negative, got %d", c.Steps)
	}
	if c.Dt < 0 {
		return fmt.Errorf("config: dt must be non-negative, got %f", c.Dt)
	}
	return nil
}

// TotalSteps is Steps when set, otherwise the schedule length.
func (c *Config) TotalSteps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return c.Schedule.Len()
}

// StepDt is Dt when set, otherwise the engine default.
func (c *Config) StepDt() float64 {
	if c.Dt > 0 {
		return c.Dt
	}
	return c.Params.Dt()
}
