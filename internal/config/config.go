// Package config loads confdrift settings from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
)

// DefaultRepository is the relative location of the configuration
// repository working copy when neither CLOUD_CONFIG_PATH nor configuration
// overrides it.
const DefaultRepository = "cloud-config"

// Config is the top-level configuration struct for confdrift.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	// Repository is the path to the local git working copy holding the
	// deployment configuration.
	Repository string `mapstructure:"repository"`
	// ConfigRoot is the directory inside the repository below which
	// environment subdirectories live. Empty means the repository root.
	ConfigRoot string `mapstructure:"config_root"`
	// Workers bounds concurrent per-file comparisons. Zero = CPU count.
	Workers      int                `mapstructure:"workers"`
	Environments EnvironmentsConfig `mapstructure:"environments"`
}

// EnvironmentsConfig names the two environments compared in
// cross-environment mode and their label strip rules.
type EnvironmentsConfig struct {
	Left  EnvironmentConfig `mapstructure:"left"`
	Right EnvironmentConfig `mapstructure:"right"`
}

// EnvironmentConfig describes one environment of the comparison pair.
type EnvironmentConfig struct {
	// Name is the environment subdirectory name (e.g. "pt").
	Name string `mapstructure:"name"`
	// Strip is the ordered list of literal substrings deleted from values
	// before cross-environment equality checks.
	Strip []string `mapstructure:"strip"`
}

// Validation errors.
var (
	ErrNoRepository    = errors.New("repository path must not be empty")
	ErrNegativeWorkers = errors.New("workers must not be negative")
	ErrEnvNameEmpty    = errors.New("environment name must not be empty")
)

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Repository == "" {
		return ErrNoRepository
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeWorkers, c.Workers)
	}

	if c.Environments.Left.Name == "" || c.Environments.Right.Name == "" {
		return ErrEnvNameEmpty
	}

	return nil
}
