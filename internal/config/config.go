// Package config loads command defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/jparise/flexdur/duration"
)

// EnvPrefix is the name prefix of every environment variable read by Load.
const EnvPrefix = "FLEXDUR_"

// Config holds defaults that command-line flags override.
type Config struct {
	Mode    duration.Mode `env:"MODE" envDefault:"human"`
	Color   string        `env:"COLOR" envDefault:"auto"`
	Jobs    int           `env:"JOBS" envDefault:"10"`
	Verbose bool          `env:"VERBOSE"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads the configuration from the given variables instead of
// the process environment. Keys include the prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func load(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}
