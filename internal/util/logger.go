package util

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"vscodeops/internal/config"
)

// NewLogger configures zap logging based on debug mode and config settings
func NewLogger(cfg *config.Config) *zap.Logger {
	level := parseLogLevel(cfg.Logging.Level)
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	var encoderConfig zapcore.EncoderConfig
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	if cfg.Logging.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		if isTTY {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	newEncoder := func() zapcore.Encoder {
		if cfg.Logging.Format == "json" {
			return zapcore.NewJSONEncoder(encoderConfig)
		}
		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	var cores []zapcore.Core

	if cfg.Logging.ConsoleEnabled {
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(os.Stderr), level))
	}

	if cfg.Logging.FileEnabled {
		_ = os.MkdirAll(cfg.Logging.Dir, 0o750)
		logFile := filepath.Join(cfg.Logging.Dir, "vscodeops.log")
		if file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
			cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(file), level))
		}
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
}

// parseLogLevel safely converts a string to a zap log level
func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
