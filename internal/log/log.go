// Package log configures the structured logger package classemitter uses
// to report what it emitted; it never influences emitted bytecode (spec
// §6 "Logging is diagnostic only").
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/athos/jise/config"
)

// New builds a zap logger from cfg, following the teacher's dev/prod
// config-selection convention (cli/options.HandleLoggingParams):
// production encoding by default, switched to development (human-
// readable, colorized level) whenever Debug is set.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	if cfg.Debug && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	var cc zap.Config
	if cfg.Debug {
		cc = zap.NewDevelopmentConfig()
	} else {
		cc = zap.NewProductionConfig()
		cc.DisableCaller = true
		cc.DisableStacktrace = true
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	return cc.Build()
}
