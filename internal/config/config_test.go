package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEGO_DB", "LEGO_CONFIG", "LEGO_LOG_LEVEL", "LEGO_LOG_FILE", "LEGO_HISTORY_LIMIT"} {
		t.Setenv(k, "")
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	cfg, err := LoadFile(filepath.Join(home, "nope.yaml"), home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, HomeDir, "legoplanner.db"), cfg.DB)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, DefaultHistoryLimit, cfg.Grid.HistoryLimit)
	assert.Equal(t, DefaultAllocStep, cfg.Grid.AllocStep)
	assert.Empty(t, cfg.Path)
}

func TestLoadFile_YAMLAndHomeExpansion(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: ~/planner/data.db
teams: [themes, platform]
logging:
  level: DEBUG
  file: ~/planner/log.jsonl
grid:
  history_limit: 20
  alloc_step: 10
`), 0o644))

	cfg, err := LoadFile(path, home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "planner", "data.db"), cfg.DB)
	assert.Equal(t, filepath.Join(home, "planner", "log.jsonl"), cfg.Logging.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"themes", "platform"}, cfg.Teams)
	assert.Equal(t, 20, cfg.Grid.HistoryLimit)
	assert.Equal(t, 10, cfg.Grid.AllocStep)
	assert.Equal(t, DefaultAllocationPct, cfg.Grid.DefaultAlloc, "unset keys keep defaults")
	assert.Equal(t, path, cfg.Path)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: /from/file.db\ngrid:\n  history_limit: 5\n"), 0o644))

	t.Setenv("LEGO_DB", "/from/env.db")
	t.Setenv("LEGO_LOG_LEVEL", "error")
	t.Setenv("LEGO_HISTORY_LIMIT", "42")

	cfg, err := LoadFile(path, home)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DB)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 42, cfg.Grid.HistoryLimit)
}

func TestLoadFile_InvalidHistoryLimitEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEGO_HISTORY_LIMIT", "lots")
	home := t.TempDir()

	cfg, err := LoadFile(filepath.Join(home, "none.yaml"), home)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, cfg.Grid.HistoryLimit)
}

func TestLoadFile_Invalid(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "db: [unclosed", "parse"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad alloc", "grid:\n  default_alloc: 150\n", "default_alloc"},
		{"negative history", "grid:\n  history_limit: -1\n", "history_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(home, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadFile(path, home)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSave_RoundTrips(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	cfg := Default(home)
	cfg.Path = filepath.Join(home, HomeDir, "config.yaml")
	cfg.Teams = []string{"themes"}
	require.NoError(t, cfg.Save())

	loaded, err := LoadFile(cfg.Path, home)
	require.NoError(t, err)
	assert.Equal(t, cfg.Teams, loaded.Teams)
	assert.Equal(t, cfg.DB, loaded.DB)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "lego.log")
	logger, err := NewLogger(LoggingConfig{Level: "info", File: file}, nil)
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(LoggingConfig{Level: "chatty"}, nil)
	assert.Error(t, err)
}

func TestNewLogger_ConsoleSinkCanBeMuted(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)
	logger, err := NewLogger(LoggingConfig{Level: "warn"}, sink)
	require.NoError(t, err)

	logger.Error("visible")
	restore := sink.Mute()
	logger.Error("hidden")
	restore()
	logger.Warn("back")

	out := buf.String()
	assert.Contains(t, out, `"msg":"visible"`)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"back"`)
}
