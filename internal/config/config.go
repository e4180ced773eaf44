package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// HomeDir is the directory under $HOME that holds the database, config and logs.
	HomeDir = ".legoplanner"

	DefaultHistoryLimit  = 100
	DefaultAllocationPct = 100
	DefaultAllocStep     = 25
)

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// GridConfig holds interactive grid preferences.
type GridConfig struct {
	HistoryLimit  int  `yaml:"history_limit"`
	DefaultAlloc  int  `yaml:"default_alloc"`
	AllocStep     int  `yaml:"alloc_step"`
	SystemClip    bool `yaml:"system_clipboard"`
	ShowWeekDates bool `yaml:"show_week_dates"`
}

// Config models ~/.legoplanner/config.yaml after environment overrides.
type Config struct {
	DB      string        `yaml:"db"`
	Teams   []string      `yaml:"teams,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Grid    GridConfig    `yaml:"grid"`

	// Path is where the config was read from; empty when no file existed.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file or env var is set.
// home may be empty, in which case paths are relative to the working directory.
func Default(home string) Config {
	base := filepath.Join(home, HomeDir)
	return Config{
		DB: filepath.Join(base, "legoplanner.db"),
		Logging: LoggingConfig{
			Level: "warn",
		},
		Grid: GridConfig{
			HistoryLimit:  DefaultHistoryLimit,
			DefaultAlloc:  DefaultAllocationPct,
			AllocStep:     DefaultAllocStep,
			SystemClip:    true,
			ShowWeekDates: true,
		},
	}
}

// Load reads the config file (LEGO_CONFIG or ~/.legoplanner/config.yaml),
// applies LEGO_* environment overrides and validates the result. A missing
// file is not an error.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return LoadFile(FilePath(home), home)
}

// FilePath is where Load looks for the config file.
func FilePath(home string) string {
	if path := os.Getenv("LEGO_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(home, HomeDir, "config.yaml")
}

// LoadFile is Load with an explicit path and home directory.
func LoadFile(path, home string) (Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize(home)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LEGO_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("LEGO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEGO_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("LEGO_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Grid.HistoryLimit = n
		}
	}
}

func (c *Config) normalize(home string) {
	c.DB = expandHome(strings.TrimSpace(c.DB), home)
	c.Logging.File = expandHome(strings.TrimSpace(c.Logging.File), home)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Grid.HistoryLimit == 0 {
		c.Grid.HistoryLimit = DefaultHistoryLimit
	}
	if c.Grid.DefaultAlloc == 0 {
		c.Grid.DefaultAlloc = DefaultAllocationPct
	}
	if c.Grid.AllocStep == 0 {
		c.Grid.AllocStep = DefaultAllocStep
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("db path is required")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Grid.HistoryLimit < 1 {
		return fmt.Errorf("grid.history_limit must be positive, got %d", c.Grid.HistoryLimit)
	}
	if c.Grid.DefaultAlloc < 1 || c.Grid.DefaultAlloc > 100 {
		return fmt.Errorf("grid.default_alloc %d must be between 1 and 100", c.Grid.DefaultAlloc)
	}
	if c.Grid.AllocStep < 1 || c.Grid.AllocStep > 100 {
		return fmt.Errorf("grid.alloc_step %d must be between 1 and 100", c.Grid.AllocStep)
	}
	return nil
}

// Save writes the config back to Path as YAML.
func (c Config) Save() error {
	if c.Path == "" {
		return fmt.Errorf("config: no path to save to")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	return os.WriteFile(c.Path, data, 0o644)
}

func expandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
