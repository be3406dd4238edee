package xlog

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xlist/lib/infra"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

func (lvl logLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

// ParseLogLevel accepts the level names case-insensitively and
// falls back to DEBUG.
func ParseLogLevel(level string) logLevel {
	switch lvl := logLevel(strings.ToUpper(strings.TrimSpace(level))); lvl {
	case LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl
	default:
	}
	return LogLevelDebug
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

func ParseLogEncoder(enc string) logEncoderType {
	if strings.EqualFold(strings.TrimSpace(enc), "plaintext") ||
		strings.EqualFold(strings.TrimSpace(enc), "console") {
		return PlainText
	}
	return JSON
}

// ParseLevelEncoder accepts capital, capitalColor, color and lowercase.
func ParseLevelEncoder(name string) (zapcore.LevelEncoder, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "capital", "capitalColor", "color", "lowercase":
	default:
		return nil, infra.NewErrorStack("[XLogger] unknown level encoder " + name)
	}
	var enc zapcore.LevelEncoder
	if err := enc.UnmarshalText([]byte(name)); err != nil {
		return nil, err
	}
	return enc, nil
}

// ParseTimeEncoder accepts rfc3339nano, rfc3339, iso8601, millis, nanos and epoch.
func ParseTimeEncoder(name string) (zapcore.TimeEncoder, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "rfc3339nano", "rfc3339", "iso8601", "millis", "nanos", "epoch":
	default:
		return nil, infra.NewErrorStack("[XLogger] unknown time encoder " + name)
	}
	var enc zapcore.TimeEncoder
	if err := enc.UnmarshalText([]byte(name)); err != nil {
		return nil, err
	}
	return enc, nil
}

const (
	ContextKeyMapToOmitempty = "_"
	ContextKeyMapToItself    = ""
	coreKeyIgnored           = ""
)

var encoderMap = map[logEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ logEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

var defaultWriteSyncer = zapcore.Lock(os.Stdout)

type Banner interface {
	JSON() string
	PlainText() string
}

type xLogCore interface {
	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder

	zapcore.Core
}

// XLogger mainly implemented by Uber zap logger.
//
// ErrorStack is used to print the infra.ErrorStack as an inline JSON
// object, so the frames are easy to parse for log aggregators.
//
// The methods with context extract the configured context keys
// (session id, variant, etc.) into the log fields.
type XLogger interface {
	zap() *zap.Logger

	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Banner(banner Banner)
	// Named creates a child logger for a component. The child shares the
	// parent's level, so IncreaseLogLevel on the parent applies to it too.
	Named(component string) XLogger

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	DebugContext(ctx context.Context, msg string, fields ...zap.Field)
	InfoContext(ctx context.Context, msg string, fields ...zap.Field)
	WarnContext(ctx context.Context, msg string, fields ...zap.Field)
	ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field)
	ErrorStackContext(ctx context.Context, err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
	ErrorStackf(err error, format string, args ...any)
}
