// Package config loads todomvc settings from defaults, TOML files, the
// environment and CLI flags.
package config

import (
	"fmt"
	"slices"

	"github.com/idilsaglam/todomvc/internal/model"
)

// Mode selects diagnostics only; it never changes application behavior.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

const (
	DefaultMode      = ModeProduction
	DefaultFilter    = string(model.FilterAll)
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	ProjectConfigFile = "todomvc.toml"
	EnvPrefix         = "TODOMVC_"
)

var themes = []string{"classic", "neon", "mono"}

// Config holds all runtime settings.
type Config struct {
	Mode      Mode   `toml:"mode"`
	Filter    string `toml:"filter"`
	SeedFile  string `toml:"seed_file"`
	Theme     string `toml:"theme"`
	NoColor   bool   `toml:"no_color"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	TraceFile string `toml:"trace_file"`

	// ConfigFile is the explicit --config path, if any.
	ConfigFile string `toml:"-"`
	// Files lists the config files that were applied, in order.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Mode = DefaultMode
	cfg.Filter = DefaultFilter
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Development reports whether mutation tracing is enabled.
func (c *Config) Development() bool { return c.Mode == ModeDevelopment }

// InitialFilter parses the configured filter.
func (c *Config) InitialFilter() (model.Filter, error) {
	return model.ParseFilter(c.Filter)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		return fmt.Errorf("mode: want %s or %s, got %q", ModeProduction, ModeDevelopment, c.Mode)
	}
	if _, err := c.InitialFilter(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if !slices.Contains(themes, c.Theme) {
		return fmt.Errorf("theme: want one of %v, got %q", themes, c.Theme)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: want text, json or logfmt, got %q", c.LogFormat)
	}
	return nil
}
