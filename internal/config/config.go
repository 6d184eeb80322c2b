// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file: the -config flag, else ./tada.toml, else the user config
//    directory ($XDG_CONFIG_HOME/tada/tada.toml or the OS equivalent)
// 3. Environment variables (TADA_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config

import (
	"fmt"
	"time"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store"
)

// Default values.
const (
	DefaultVariant      = "timer"
	DefaultTimeLimit    = store.DefaultTimeLimit
	DefaultTickInterval = "1s"
	DefaultTheme        = "classic"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultCharLimit    = 200
	ConfigFileName      = "tada.toml"
)

// Config holds the full configuration for tada.
type Config struct {
	// Widget behavior
	Variant      string `toml:"variant"`
	TimeLimit    int    `toml:"time_limit"`
	TickInterval string `toml:"tick_interval"`
	CharLimit    int    `toml:"char_limit"`

	// Output
	Theme   string `toml:"theme"`
	NoColor bool   `toml:"no_color"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `toml:"-"`

	// Computed in finalize.
	variant  store.Variant
	interval time.Duration
}

func setDefaults(cfg *Config) {
	cfg.Variant = DefaultVariant
	cfg.TimeLimit = DefaultTimeLimit
	cfg.TickInterval = DefaultTickInterval
	cfg.CharLimit = DefaultCharLimit
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
}

// Default returns a finalized config with built-in defaults only.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	if err := finalizeConfig(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// StoreVariant returns the parsed widget variant.
func (c *Config) StoreVariant() store.Variant { return c.variant }

// Interval returns the parsed tick interval.
func (c *Config) Interval() time.Duration { return c.interval }

// ReducerOptions returns the store options this config selects.
func (c *Config) ReducerOptions() []store.Option {
	return []store.Option{
		store.WithVariant(c.variant),
		store.WithTimeLimit(c.TimeLimit),
	}
}

func finalizeConfig(cfg *Config) error {
	v, err := store.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}
	cfg.variant = v
	cfg.Variant = v.String()

	if cfg.TimeLimit <= 0 {
		return fmt.Errorf("time_limit must be positive, got %d", cfg.TimeLimit)
	}

	d, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return fmt.Errorf("tick_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", d)
	}
	cfg.interval = d

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := logging.ParseFormatter(cfg.LogFormat); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}

	if cfg.CharLimit <= 0 {
		cfg.CharLimit = DefaultCharLimit
	}
	return nil
}
