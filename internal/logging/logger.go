package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap.Logger whose level can be changed after construction.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// Config selects the level, the encoding and where entries go.
type Config struct {
	Level       string // debug, info, warn or error
	Development bool   // console encoding with colors and stack traces on Warn
	OutputPaths []string
}

// DefaultConfig is JSON at info level on stdout.
func DefaultConfig() Config {
	return Config{Level: "info", OutputPaths: []string{"stdout"}}
}

// DevelopmentConfig is colored console output at debug level.
func DevelopmentConfig() Config {
	return Config{Level: "debug", Development: true, OutputPaths: []string{"stdout"}}
}

// New builds a Logger from cfg starting from zap's preset for the mode.
func New(cfg Config) (*Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
		zc.DisableStacktrace = true
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.MessageKey = "message"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	}
	zc.Level = level
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	zl, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zl, level: level}, nil
}

// NewDefault is New(DefaultConfig()), falling back to a no-op logger.
func NewDefault() *Logger {
	return orNop(New(DefaultConfig()))
}

// NewDevelopment is New(DevelopmentConfig()), falling back to a no-op logger.
func NewDevelopment() *Logger {
	return orNop(New(DevelopmentConfig()))
}

// NewNop discards every entry.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
}

// FromZap wraps an existing zap logger, typically one built over a test core.
// The returned level only tracks SetLevel calls; filtering stays with the core.
func FromZap(zl *zap.Logger) *Logger {
	return &Logger{Logger: zl, level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func orNop(l *Logger, err error) *Logger {
	if err != nil {
		return NewNop()
	}
	return l
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// Level reports the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Named returns a child logger with name appended to the logger name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), level: l.level}
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), level: l.level}
}

// Sync flushes buffered entries. Sync errors on terminals are ignored.
func (l *Logger) Sync() {
	_ = l.Logger.Sync()
}
