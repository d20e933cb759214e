package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures the application logger.
type LoggerOptions struct {
	Verbose bool
	Level   string
	File    LogFileOptions
}

// LogFileOptions configures an optional rotated log file.
// An empty Filename keeps logging on stderr.
type LogFileOptions struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

const defaultLogLevel = zapcore.ErrorLevel

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// Successful runs stay silent on stderr because the default level is error.
func NewApplicationLogger(options LoggerOptions) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.TimeKey = ""
	encoderConfig.NameKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.MessageKey = "message"

	level := parseLogLevel(options.Level, defaultLogLevel)
	if options.Verbose {
		level = zapcore.DebugLevel
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if strings.TrimSpace(options.File.Filename) != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   options.File.Filename,
			MaxSize:    options.File.MaxSize,
			MaxBackups: options.File.MaxBackups,
			MaxAge:     options.File.MaxAge,
			Compress:   options.File.Compress,
		})
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

func parseLogLevel(value string, fallback zapcore.Level) zapcore.Level {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(trimmed))); err != nil {
		return fallback
	}
	return level
}
