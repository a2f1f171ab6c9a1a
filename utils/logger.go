package utils

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/tenco/blog/config"
)

var (
	// Logger is the global structured logger
	Logger *zap.Logger
	// Sugar is a sugared logger for convenience
	Sugar *zap.SugaredLogger

	nopLogger = zap.NewNop()
)

// InitLogger builds the global logger: JSON to stdout plus a rolling file when Log.Path is set.
func InitLogger(cfg config.AppConfig) error {
	l, err := newLogger(cfg.Log.Path, cfg.Log, true)
	if err != nil {
		return err
	}
	if cfg.Log.Level == "debug" {
		l = l.WithOptions(zap.Development())
	}
	Logger = l
	Sugar = Logger.Sugar()
	return nil
}

// L returns the global logger, or a no-op logger before InitLogger ran.
func L() *zap.Logger {
	if Logger == nil {
		return nopLogger
	}
	return Logger
}

// NewRollingFileLogger returns a file-only logger for path. An empty path shares the global logger.
func NewRollingFileLogger(path string, logCfg config.LogSection) (*zap.Logger, error) {
	if path == "" {
		return L(), nil
	}
	return newLogger(path, logCfg, false)
}

func newLogger(path string, logCfg config.LogSection, console bool) (*zap.Logger, error) {
	level := parseLevel(logCfg.Level)
	enabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= level })
	encoder := zapcore.NewJSONEncoder(encoderConfig())

	var cores []zapcore.Core
	if console {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), enabler))
	}
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    nz(logCfg.MaxSizeMB, 100), // megabytes
			MaxBackups: nz(logCfg.MaxBackups, 3),
			MaxAge:     nz(logCfg.MaxAgeDays, 7), // days
			Compress:   logCfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(lj), enabler))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
