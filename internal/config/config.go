// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTodoFileName = ".todos"
	DefaultTheme        = "classic"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	ConfigEnvVar        = "TODO_CONFIG"
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage
	File    string `toml:"file"`
	Lock    bool   `toml:"lock"`
	Lenient bool   `toml:"lenient"`

	// Output
	Theme string `toml:"theme"`
	Group bool   `toml:"group"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Path of the config file that was read, if any (computed)
	Source string `toml:"-"`
}

// DefaultFile returns ~/.todos.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DefaultTodoFileName), nil
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (TOML)
// 3. Environment variables
// 4. Flags
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	if path := findConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fset, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.File = ""
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// findConfigFile returns $TODO_CONFIG or <user config dir>/todos/config.toml.
func findConfigFile() string {
	if v := os.Getenv(ConfigEnvVar); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todos", "config.toml")
}

// loadConfigFile decodes TOML into cfg. A missing file is not an error.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	cfg.Source = path
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_GROUP"); v != "" {
		cfg.Group = boolFromString(v)
	}
	if v := os.Getenv("TODO_LOCK"); v != "" {
		cfg.Lock = boolFromString(v)
	}
	if v := os.Getenv("TODO_LENIENT"); v != "" {
		cfg.Lenient = boolFromString(v)
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// parseFlags registers root flags on fset, seeded with the current values.
func parseFlags(cfg *Config, fset *flag.FlagSet, args []string) error {
	if fset == nil {
		return nil
	}
	var verbose bool
	fset.StringVar(&cfg.File, "file", cfg.File, "path of the todo file (default ~/.todos)")
	fset.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic, neon, mono")
	fset.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	fset.BoolVar(&cfg.Lock, "lock", cfg.Lock, "hold an exclusive lock on the todo file while running")
	fset.BoolVar(&cfg.Lenient, "lenient", cfg.Lenient, "treat an unreadable todo file as empty")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fset.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json, logfmt")
	fset.BoolVar(&verbose, "v", false, "verbose logging (same as -log-level debug)")

	if err := fset.Parse(args); err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return nil
}

func finalizeConfig(cfg *Config) error {
	if cfg.File == "" {
		p, err := DefaultFile()
		if err != nil {
			return err
		}
		cfg.File = p
	}
	p, err := expandHome(cfg.File)
	if err != nil {
		return err
	}
	cfg.File = p

	switch strings.ToLower(cfg.Theme) {
	case "classic", "neon", "mono":
		cfg.Theme = strings.ToLower(cfg.Theme)
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", cfg.Theme)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
