package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleSink is the stderr destination used when no log file is
// configured. It can be muted while a full-screen program owns the
// terminal.
type ConsoleSink struct {
	w     zapcore.WriteSyncer
	muted atomic.Bool
}

// NewConsoleSink wraps w. A nil w means os.Stderr.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleSink{w: zapcore.AddSync(w)}
}

func (s *ConsoleSink) Write(p []byte) (int, error) {
	if s.muted.Load() {
		return len(p), nil
	}
	return s.w.Write(p)
}

func (s *ConsoleSink) Sync() error {
	if s.muted.Load() {
		return nil
	}
	return s.w.Sync()
}

// Mute drops everything written until the returned restore func is called.
func (s *ConsoleSink) Mute() (restore func()) {
	s.muted.Store(true)
	return func() { s.muted.Store(false) }
}

// NewLogger builds a JSON zap logger from the logging section. With no file
// configured it writes to console; the CLI's own output stays on stdout.
// A nil console means stderr.
func NewLogger(cfg LoggingConfig, console *ConsoleSink) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	if console == nil {
		console = NewConsoleSink(nil)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var out zapcore.WriteSyncer = console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, _, err := zap.Open(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), out, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(console)), nil
}
