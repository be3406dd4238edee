package xlog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xlist/lib/infra"
)

type testMemOutWriter struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.buf.Write(p)
}

func (w *testMemOutWriter) String() string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.buf.String()
}

func (w *testMemOutWriter) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.buf.Reset()
}

func newTestXLogger(t *testing.T, lvl logLevel, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	t.Helper()
	w := &testMemOutWriter{}
	opts = append([]XLoggerOption{
		WithXLoggerLevel(lvl),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(w),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	}, opts...)
	return NewXLogger(opts...), w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())

	require.Equal(t, LogLevelWarn, ParseLogLevel(" warn "))
	require.Equal(t, LogLevelDebug, ParseLogLevel("verbose"))
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, PlainText, ParseLogEncoder("console"))
	require.Equal(t, JSON, ParseLogEncoder("json"))
}

func TestParseEncoders(t *testing.T) {
	for _, name := range []string{"capital", "capitalColor", "color", "lowercase"} {
		enc, err := ParseLevelEncoder(name)
		require.NoError(t, err, name)
		require.NotNil(t, enc)
	}
	_, err := ParseLevelEncoder("rainbow")
	require.Error(t, err)

	for _, name := range []string{"rfc3339nano", "rfc3339", "iso8601", "millis", "nanos", "epoch"} {
		enc, err := ParseTimeEncoder(name)
		require.NoError(t, err, name)
		require.NotNil(t, enc)
	}
	_, err = ParseTimeEncoder("sundial")
	require.Error(t, err)

	lvlEnc := lo.Must(ParseLevelEncoder("lowercase"))
	logger, w := newTestXLogger(t, LogLevelInfo, WithXLoggerLevelEncoder(lvlEnc))
	logger.Info("lowercase level")
	require.Contains(t, w.String(), `"lvl":"info"`)
}

func TestXLogger_LevelAndFields(t *testing.T) {
	logger, w := newTestXLogger(t, LogLevelInfo)
	logger.Debug("hidden")
	logger.Info("insert at end", zap.String("variant", "singly"), zap.Int64("size", 3))
	require.NoError(t, logger.Sync())

	out := w.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"msg":"insert at end"`)
	require.Contains(t, out, `"variant":"singly"`)
	require.Contains(t, out, `"lvl":"INFO"`)
	require.Equal(t, "INFO", logger.Level())

	w.Reset()
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("visible")
	require.Contains(t, w.String(), "visible")
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, w := newTestXLogger(t, LogLevelDebug)
	es := infra.WrapErrorStackWithMessage(errors.New("dial tcp refused"), "open redis store")
	logger.ErrorStack(es, "session store failed")
	out := w.String()
	require.Contains(t, out, `"errorMsg":"open redis store"`)
	require.Contains(t, out, `"errorStack":[`)
	require.Contains(t, out, "dial tcp refused")

	w.Reset()
	logger.ErrorStack(errors.New("plain"), "plain failure")
	require.Contains(t, w.String(), `"error":"plain"`)

	w.Reset()
	logger.Error(errors.New("oops"), "failed", zap.String("op", "delete-end"))
	require.Contains(t, w.String(), `"error":"oops"`)

	w.Reset()
	logger.ErrorStackf(es, "store %s failed", "redis")
	require.Contains(t, w.String(), "store redis failed")
}

func TestXLogger_ContextFields(t *testing.T) {
	logger, w := newTestXLogger(t, LogLevelDebug,
		WithXLoggerContextFieldExtract("session", "sessionID"),
		WithXLoggerContextFieldExtract("variant"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
	)
	ctx := context.WithValue(context.Background(), ContextKey("session"), "s-01")
	ctx = context.WithValue(ctx, ContextKey("secret"), "xyz")
	logger.InfoContext(ctx, "session opened")
	out := w.String()
	require.Contains(t, out, `"sessionID":"s-01"`)
	require.Contains(t, out, `"variant":"nil"`)
	require.NotContains(t, out, "xyz")

	w.Reset()
	logger.ErrorContext(ctx, errors.New("bad"), "op failed")
	require.Contains(t, w.String(), `"error":"bad"`)
	w.Reset()
	logger.WarnContext(context.TODO(), "no ctx")
	require.Contains(t, w.String(), "no ctx")
}

func TestXLogger_NamedSharesLevel(t *testing.T) {
	logger, w := newTestXLogger(t, LogLevelDebug)
	child := logger.Named("playground")
	child.Debug("child debug")
	require.Contains(t, w.String(), `"component":"playground"`)

	w.Reset()
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	child.Info("child info")
	require.Empty(t, w.String())
}

type testBanner struct{}

func (testBanner) JSON() string      { return "{\"app\":\"xlist\"}" }
func (testBanner) PlainText() string { return "xlist playground" }

func TestXLogger_Banner(t *testing.T) {
	printBanner = sync.Once{}
	logger, w := newTestXLogger(t, LogLevelDebug)
	logger.Banner(testBanner{})
	logger.Banner(testBanner{})
	require.Equal(t, "{\"banner\":\"{\\\"app\\\":\\\"xlist\\\"}\"}\n", w.String())
}

func TestComponentXLoggers(t *testing.T) {
	logger, w := newTestXLogger(t, LogLevelDebug)

	NewGoRedisXLogger(logger).Printf(context.Background(), "redis: dial %s failed", "127.0.0.1:6379")
	out := w.String()
	require.Contains(t, out, `"component":"GoRedis"`)
	require.Contains(t, out, `"lvl":"ERROR"`)
	require.NotContains(t, out, "callAt")

	w.Reset()
	fxLogger := NewFxXLogger(logger)
	fxLogger.LogEvent(&fxevent.Started{})
	fxLogger.LogEvent(&fxevent.Invoked{FunctionName: "main.run", Err: errors.New("boom")})
	fxLogger.LogEvent(&fxevent.Invoked{FunctionName: "main.quiet"})
	fxLogger.LogEvent(&fxevent.OnStopExecuted{FunctionName: "main.stop", Err: errors.New("busy")})
	out = w.String()
	require.Contains(t, out, "RUNNING")
	require.Contains(t, out, `"component":"Fx"`)
	require.Contains(t, out, `"hook":"OnStop"`)
	require.NotContains(t, out, "main.quiet")
	require.Equal(t, 3, strings.Count(out, "\n"))

	var nilLogger *AntsXLogger
	nilLogger.Printf("ignored %d", 1)
}
