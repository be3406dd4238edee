package xlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
	gutils "gorm.io/gorm/utils"
)

var _ glogger.Interface = (*GormXLogger)(nil)

// GormXLogger forwards the leaderboard SQL traces into the XLogger.
type GormXLogger struct {
	logger    XLogger
	cfg       *glogger.Config
	gormLevel atomic.Int32
}

func (l *GormXLogger) level() glogger.LogLevel {
	return glogger.LogLevel(l.gormLevel.Load())
}

func (l *GormXLogger) LogMode(lvl glogger.LogLevel) glogger.Interface {
	l.gormLevel.Store(int32(lvl))
	return l
}

func (l *GormXLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level() >= glogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func (l *GormXLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level() >= glogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func (l *GormXLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level() >= glogger.Error {
		l.logger.ErrorContext(ctx, nil, fmt.Sprintf(msg, data...), zap.String("fileAndLine", gutils.FileWithLineNum()))
	}
}

func traceFields(sql string, rows int64, elapsed time.Duration) []zap.Field {
	rowsStr := "-"
	if rows > -1 {
		rowsStr = strconv.FormatInt(rows, 10)
	}
	return []zap.Field{
		zap.String("fileAndLine", gutils.FileWithLineNum()),
		zap.String("rows", rowsStr),
		zap.Int64("elapsedMs", elapsed.Milliseconds()),
		zap.String("sql", sql),
	}
}

func (l *GormXLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	lvl := l.level()
	if lvl <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && lvl >= glogger.Error && (!errors.Is(err, glogger.ErrRecordNotFound) || !l.cfg.IgnoreRecordNotFoundError):
		sql, rows := fc()
		l.logger.ErrorContext(ctx, err, "error trace", traceFields(sql, rows, elapsed)...)
	case elapsed > l.cfg.SlowThreshold && l.cfg.SlowThreshold != 0 && lvl >= glogger.Warn:
		sql, rows := fc()
		fields := append(traceFields(sql, rows, elapsed), zap.Int64("thresholdMs", l.cfg.SlowThreshold.Milliseconds()))
		l.logger.WarnContext(ctx, "slow sql", fields...)
	case lvl == glogger.Info:
		sql, rows := fc()
		l.logger.DebugContext(ctx, "common sql info", traceFields(sql, rows, elapsed)...)
	}
}

func NewGormXLogger(logger XLogger, opts ...GormXLoggerOption) *GormXLogger {
	gl := &GormXLogger{
		cfg: &glogger.Config{LogLevel: glogger.Warn},
	}
	for _, o := range opts {
		o(gl.cfg)
	}
	if gl.cfg.SlowThreshold <= 0 {
		gl.cfg.SlowThreshold = 200 * time.Millisecond
	}
	gl.gormLevel.Store(int32(gl.cfg.LogLevel))
	gl.logger = newComponentXLogger(logger, "Gorm")
	return gl
}

type GormXLoggerOption func(*glogger.Config)

func WithGormXLoggerSlowThreshold(threshold time.Duration) GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.SlowThreshold = threshold
	}
}

func WithGormXLoggerLogLevel(lvl glogger.LogLevel) GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.LogLevel = lvl
	}
}

func WithGormXLoggerIgnoreRecord404Err() GormXLoggerOption {
	return func(cfg *glogger.Config) {
		cfg.IgnoreRecordNotFoundError = true
	}
}
