package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// flagValues mirrors the config fields that can be set on the command line.
type flagValues struct {
	configFile string
	variant    string
	limit      int
	interval   string
	theme      string
	noColor    bool
	logLevel   string
	logFormat  string
	logFile    string
}

// Load registers the config flags on fs, parses args, and resolves the
// final configuration. Remaining positional args are available via fs.Args.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	fv := &flagValues{}
	fs.StringVar(&fv.configFile, "config", "", "path to a tada.toml config file")
	fs.StringVar(&fv.variant, "variant", DefaultVariant, "widget variant: basic, edit or timer")
	fs.IntVar(&fv.limit, "limit", DefaultTimeLimit, "countdown in seconds for new items (timer variant)")
	fs.StringVar(&fv.interval, "interval", DefaultTickInterval, "tick interval (timer variant)")
	fs.StringVar(&fv.theme, "theme", DefaultTheme, "output theme: classic, neon or mono")
	fs.BoolVar(&fv.noColor, "no-color", false, "disable colored output")
	fs.StringVar(&fv.logLevel, "log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&fv.logFormat, "log-format", DefaultLogFormat, "log format: text, json or logfmt")
	fs.StringVar(&fv.logFile, "log-file", "", "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Config file
	path := fv.configFile
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}

	// 3. Override from environment
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 4. Flags that were explicitly set
	applyFlags(cfg, fs, fv)

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
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
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if v := os.Getenv("TADA_TIME_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_TIME_LIMIT: %w", err)
		}
		cfg.TimeLimit = n
	}
	if v := os.Getenv("TADA_TICK_INTERVAL"); v != "" {
		cfg.TickInterval = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

func applyFlags(cfg *Config, fs *flag.FlagSet, fv *flagValues) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variant":
			cfg.Variant = fv.variant
		case "limit":
			cfg.TimeLimit = fv.limit
		case "interval":
			cfg.TickInterval = fv.interval
		case "theme":
			cfg.Theme = fv.theme
		case "no-color":
			cfg.NoColor = fv.noColor
		case "log-level":
			cfg.LogLevel = fv.logLevel
		case "log-format":
			cfg.LogFormat = fv.logFormat
		case "log-file":
			cfg.LogFile = fv.logFile
		}
	})
}

// findConfigFile returns the project config if present, else the user one.
func findConfigFile() string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if dir := userConfigDir(); dir != "" {
		p := filepath.Join(dir, "tada", ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func userConfigDir() string {
	switch runtime.GOOS {
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}
