package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRunNumber = 1
	DefaultPrimary   = "proton"
	DefaultEnergyGeV = 1000.0
	DefaultZenithDeg = 0.0
	DefaultObsLevelM = 0.0
)

// Config describes one CORSIKA run. Angles are in degrees, the primary
// energy in GeV and the observation level in metres above sea level;
// the input card writer converts to the units CORSIKA expects.
type Config struct {
	RunNumber int     `yaml:"run_number"`
	Primary   string  `yaml:"primary"`
	EnergyGeV float64 `yaml:"energy_gev"`
	ZenithDeg float64 `yaml:"zenith_deg"`
	ObsLevelM float64 `yaml:"obs_level_m"`

	// Seed is the base seed for the card's SEED lines. Zero means
	// fresh random seeds on every run.
	Seed int64 `yaml:"seed"`

	Paths PathsConfig `yaml:"paths"`
}

type PathsConfig struct {
	Executable string `yaml:"executable"`
	Template   string `yaml:"template"`
	OutputDir  string `yaml:"output_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		RunNumber: DefaultRunNumber,
		Primary:   DefaultPrimary,
		EnergyGeV: DefaultEnergyGeV,
		ZenithDeg: DefaultZenithDeg,
		ObsLevelM: DefaultObsLevelM,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate checks the physical parameters. Path checks stay with the
// runner so that card generation works without an installed binary.
func (c *Config) Validate() error {
	if c.RunNumber <= 0 {
		return fmt.Errorf("run_number must be positive, got %d", c.RunNumber)
	}
	if c.Primary == "" {
		return fmt.Errorf("primary particle not set")
	}
	if c.EnergyGeV <= 0 {
		return fmt.Errorf("energy_gev must be positive, got %g", c.EnergyGeV)
	}
	if c.ZenithDeg < 0 || c.ZenithDeg > 90 {
		return fmt.Errorf("zenith_deg must be in [0, 90], got %g", c.ZenithDeg)
	}
	if c.ObsLevelM < 0 {
		return fmt.Errorf("obs_level_m must be non-negative, got %g", c.ObsLevelM)
	}
	return nil
}
