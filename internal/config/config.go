// Package config loads the depengine CLI/daemon's configuration from
// environment variables, optionally preloaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the depengine binary. Every field is
// sourced from an environment variable, with the listed default applied
// when the variable is unset.
type Config struct {
	// Units locates the service-unit declarations the ingest adapter reads.
	Units string `env:"DEPENGINE_UNITS_DIR" envDefault:"./units"`

	// Mode is "once" (resolve, report, exit) or "watch" (resolve on an
	// interval until interrupted).
	Mode string `env:"DEPENGINE_MODE" envDefault:"once"`

	// Interval is how often watch mode re-invokes ResolveAll.
	Interval time.Duration `env:"DEPENGINE_INTERVAL" envDefault:"30s"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"DEPENGINE_LOG_LEVEL" envDefault:"info"`

	// Query, if non-empty, is a JMESPath expression evaluated against the
	// resolved graph report instead of printing the full report.
	Query string `env:"DEPENGINE_QUERY" envDefault:""`
}

// Load reads a .env file (if present) into the process environment, then
// parses Config from environment variables via struct tags. A missing .env
// file is not an error — it is expected in production, where configuration
// comes from the environment directly rather than a checked-in file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required fields are present and well-formed.
func (c *Config) Validate() error {
	switch c.Mode {
	case "once", "watch":
	default:
		return fmt.Errorf("invalid run mode: %q (must be \"once\" or \"watch\")", c.Mode)
	}

	if c.Units == "" {
		return errors.New("units directory must not be empty")
	}

	if c.Mode == "watch" && c.Interval <= 0 {
		return fmt.Errorf("interval must be positive in watch mode, got %s", c.Interval)
	}

	return nil
}
