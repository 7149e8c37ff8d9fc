package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".confdrift"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for confdrift settings.
const envPrefix = "CONFDRIFT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// repositoryEnvVar is the historical override for the repository location,
// honored alongside the prefixed form.
const repositoryEnvVar = "CLOUD_CONFIG_PATH"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	bindErr := viperCfg.BindEnv("repository", envPrefix+"_REPOSITORY", repositoryEnvVar)
	if bindErr != nil {
		return nil, fmt.Errorf("bind repository env: %w", bindErr)
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// applyDefaults sets the default values for all settings.
func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("repository", DefaultRepository)
	viperCfg.SetDefault("config_root", "")
	viperCfg.SetDefault("workers", 0)
	viperCfg.SetDefault("environments.left.name", "pt")
	viperCfg.SetDefault("environments.left.strip", []string{"pt-", "contents-pt"})
	viperCfg.SetDefault("environments.right.name", "prod")
	viperCfg.SetDefault("environments.right.strip", []string{"prod-", "prd-", "contents"})
}
