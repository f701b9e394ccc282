package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// INSURAIQ_SERVER_PORT=9090 overrides server.port.
const envPrefix = "INSURAIQ"

// Load reads configuration from the given file path (optional), applies
// environment variable overrides, fills defaults, and validates the result.
//
// Precedence, highest first: environment variables, config file, defaults.
// An empty path makes Load search ./configs and the working directory for a
// file named "config" with any supported extension; a missing file is not an
// error because every field has a default.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error; intended for main() startup paths
// where a broken configuration should abort immediately.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
