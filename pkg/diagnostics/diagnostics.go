// Package diagnostics constructs the structured logger the repair core
// reports Möbius warnings and degenerate-facet removals through: a zap
// core writing through lumberjack for rotation.
// The repair core never calls os.Exit or panics for a diagnostic, it
// only logs and keeps going.
package diagnostics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely repair diagnostics are
// written.
type Config struct {
	// Verbose enables Debug-level output (degenerate-facet notices); without it
	// only Warn and above are emitted.
	Verbose bool
	// LogFile, if set, rotates diagnostics through lumberjack instead
	// of writing to stderr.
	LogFile    string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger builds a *zap.SugaredLogger satisfying pkg/repair.Logger.
// A nil-returning error never happens; NewLogger always succeeds, since
// its only failure modes (bad log path) are deferred to first write by
// lumberjack.
func NewLogger(cfg Config) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	if cfg.LogFile != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		})
	} else {
		sink = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), sink, level)
	return zap.New(core).Sugar()
}

// Nop returns a logger that discards everything, used when a caller
// asks for no diagnostics at all.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
