package rotateprimarylib

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Diagnostics go to stderr unless this is set
	LogFile string
	Verbose bool
}

var logger *zap.Logger

func newLoggerConfig(o Options) zap.Config {
	level := zapcore.WarnLevel
	if o.Verbose {
		level = zapcore.DebugLevel
	}

	output := "stderr"
	if o.LogFile != "" {
		output = o.LogFile
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     !o.Verbose,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoder,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// Be sure to defer Cleanup() after calling this
func Init(o Options) (*zap.Logger, error) {
	l, err := newLoggerConfig(o).Build()
	if err != nil {
		return nil, fmt.Errorf("Error opening log output: %w", err)
	}

	logger = l
	return l, nil
}

// Logger returns the logger set up by Init or a no-op logger before that.
func Logger() *zap.Logger {
	if logger != nil {
		return logger
	}
	return zap.NewNop()
}

func Cleanup() error {
	if logger == nil {
		return nil
	}
	// Sync on a console handle fails on most platforms, nothing to do about it
	_ = logger.Sync()
	return nil
}
