package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration from, in increasing priority:
// 1. Defaults
// 2. User config file (<user config dir>/todomvc/config.toml)
// 3. Project config file (./todomvc.toml)
// 4. The file named by --config
// 5. Environment variables (TODOMVC_*, NO_COLOR)
// 6. CLI flags
//
// It returns the positional arguments left after flag parsing.
func Load(fset *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if fset == nil {
		fset = flag.NewFlagSet("todomvc", flag.ContinueOnError)
	}
	flags := bindFlags(fset)
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}
	set := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}
	if set["config"] {
		cfg.ConfigFile = flags.config
		if err := loadConfigFile(cfg, flags.config); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", flags.config, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, nil, err
	}
	flags.apply(cfg, set)

	cfg.SeedFile = expandPath(cfg.SeedFile)
	cfg.TraceFile = expandPath(cfg.TraceFile)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fset.Args(), nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "todomvc", "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func findProjectConfigFile() string {
	if _, err := os.Stat(ProjectConfigFile); err == nil {
		return ProjectConfigFile
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	if v, ok := lookupEnv("MODE"); ok {
		cfg.Mode = Mode(v)
	}
	if v, ok := lookupEnv("FILTER"); ok {
		cfg.Filter = v
	}
	if v, ok := lookupEnv("SEED_FILE"); ok {
		cfg.SeedFile = v
	}
	if v, ok := lookupEnv("THEME"); ok {
		cfg.Theme = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookupEnv("TRACE_FILE"); ok {
		cfg.TraceFile = v
	}
	if v, ok := lookupEnv("NO_COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNO_COLOR: %w", EnvPrefix, err)
		}
		cfg.NoColor = b
	}
	// https://no-color.org: any non-empty value disables color
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

type flagValues struct {
	config    string
	mode      string
	filter    string
	seed      string
	theme     string
	noColor   bool
	logLevel  string
	logFormat string
	traceFile string
}

func bindFlags(fset *flag.FlagSet) *flagValues {
	f := &flagValues{}
	fset.StringVar(&f.config, "config", "", "Path to a TOML config file")
	fset.StringVar(&f.mode, "mode", string(DefaultMode), "production or development (development traces store mutations)")
	fset.StringVar(&f.filter, "filter", DefaultFilter, "Initial filter: all, active or completed")
	fset.StringVar(&f.seed, "seed", "", "JSON file with initial todos (read-only)")
	fset.StringVar(&f.theme, "theme", DefaultTheme, "Theme: classic, neon or mono")
	fset.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fset.StringVar(&f.logLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fset.StringVar(&f.logFormat, "log-format", DefaultLogFormat, "Log format: text, json or logfmt")
	fset.StringVar(&f.traceFile, "trace-file", "", "Write mutation traces as JSON lines to this file")
	return f
}

// apply copies explicitly set flags over cfg.
func (f *flagValues) apply(cfg *Config, set map[string]bool) {
	if set["mode"] {
		cfg.Mode = Mode(f.mode)
	}
	if set["filter"] {
		cfg.Filter = f.filter
	}
	if set["seed"] {
		cfg.SeedFile = f.seed
	}
	if set["theme"] {
		cfg.Theme = f.theme
	}
	if set["no-color"] {
		cfg.NoColor = f.noColor
	}
	if set["log-level"] {
		cfg.LogLevel = f.logLevel
	}
	if set["log-format"] {
		cfg.LogFormat = f.logFormat
	}
	if set["trace-file"] {
		cfg.TraceFile = f.traceFile
	}
}

func expandPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
