package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

type Logger struct {
	level      LogLevel
	sugar      *zap.SugaredLogger
	RawBodyLog bool
}

// NewLogger writes debug/info/warn lines to stdout and errors to stderr.
// Production loggers emit JSON, development loggers emit console text.
func NewLogger(level string, rawBodyLog bool, production bool) *Logger {
	logLevel := parseLogLevel(level)
	enabled := zapLevel(logLevel)

	var encoder zapcore.Encoder
	if production {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= enabled && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= enabled && l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), high),
	)

	return newLoggerWithCore(logLevel, core, rawBodyLog)
}

func NewDiscardLogger() *Logger {
	return &Logger{
		level: LevelInfo,
		sugar: zap.NewNop().Sugar(),
	}
}

func newLoggerWithCore(level LogLevel, core zapcore.Core, rawBodyLog bool) *Logger {
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{
		level:      level,
		sugar:      z.Sugar(),
		RawBodyLog: rawBodyLog,
	}
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) with(reqID *string) *zap.SugaredLogger {
	if reqID == nil || *reqID == "" {
		return l.sugar
	}
	return l.sugar.With("reqid", *reqID)
}

func (l *Logger) Info(reqID *string, format string, v ...any) {
	l.with(reqID).Infof(format, v...)
}

func (l *Logger) Warn(reqID *string, format string, v ...any) {
	l.with(reqID).Warnf(format, v...)
}

func (l *Logger) Error(reqID *string, format string, v ...any) {
	l.with(reqID).Errorf(format, v...)
}

func (l *Logger) Debug(reqID *string, format string, v ...any) {
	l.with(reqID).Debugf(format, v...)
}

// Sync flushes buffered entries; call it before the process exits.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
