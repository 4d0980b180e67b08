// Package config loads the user-editable YAML configuration: solver
// scoring weights, auto-play cadence, and logging options. Environment
// variables override file values at runtime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazu/flatlay/pkg/align"
	applog "github.com/chazu/flatlay/internal/log"
)

// Env var names used as overrides.
const (
	EnvAutoPlayMs = "FLATLAY_AUTOPLAY_MS"
	EnvLogLevel   = "FLATLAY_LOG_LEVEL"
	EnvLogFormat  = "FLATLAY_LOG_FORMAT"
	EnvLogFile    = "FLATLAY_LOG_FILE"
)

// Config is the full application configuration.
type Config struct {
	// Solver holds the alignment scoring weights. They are tunable,
	// empirically chosen values, not physical constants.
	Solver align.Weights `yaml:"solver"`
	// AutoPlayMs is the debug-step auto-play cadence in milliseconds.
	AutoPlayMs int `yaml:"autoplay_ms"`
	// Logging configures the application logger.
	Logging applog.Options `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() Config {
	return Config{
		Solver:     align.DefaultWeights(),
		AutoPlayMs: 750,
		Logging:    applog.Options{Level: "info", Format: "text"},
	}
}

// Load reads the config file at path if it exists, fills in defaults,
// and applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Defaults(), fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Defaults(), fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return Defaults(), err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Solver.LengthTolerance < 0 {
		return fmt.Errorf("config: solver length_tolerance %v must not be negative", c.Solver.LengthTolerance)
	}
	if c.AutoPlayMs <= 0 {
		return fmt.Errorf("config: autoplay_ms %d must be positive", c.AutoPlayMs)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAutoPlayMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AutoPlayMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
