package xlog

import (
	"time"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the fx application lifecycle of the playground.
// Successful steps are debug records, failures are errors.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) hook(name, function, caller string, runtime time.Duration, err error) {
	fields := []zap.Field{
		zap.String("hook", name),
		zap.String("function", function),
		zap.String("caller", caller),
	}
	if runtime > 0 {
		fields = append(fields, zap.Duration("in", runtime))
	}
	if err != nil {
		l.logger.Error(err, "fx hook failed", fields...)
		return
	}
	l.logger.Debug("fx hook", fields...)
}

func (l *FxXLogger) failed(err error, msg string, fields ...zap.Field) {
	if err != nil {
		l.logger.Error(err, msg, fields...)
	}
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		l.hook("OnStart", e.FunctionName, e.CallerName, e.Runtime, e.Err)
	case *fxevent.OnStopExecuted:
		l.hook("OnStop", e.FunctionName, e.CallerName, e.Runtime, e.Err)
	case *fxevent.Supplied:
		l.failed(e.Err, "fx supply failed", zap.String("type", e.TypeName))
	case *fxevent.Provided:
		l.failed(e.Err, "fx provide failed",
			zap.String("constructor", e.ConstructorName),
			zap.Strings("stacktrace", e.StackTrace),
		)
		if e.Err == nil {
			l.logger.Debug("fx provide",
				zap.Strings("types", e.OutputTypeNames),
				zap.String("constructor", e.ConstructorName),
			)
		}
	case *fxevent.Invoked:
		l.failed(e.Err, "fx invoke failed",
			zap.String("function", e.FunctionName),
			zap.String("trace", e.Trace),
		)
	case *fxevent.RollingBack:
		l.logger.Warn("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		l.failed(e.Err, "fx rollback failed")
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx start failed")
			return
		}
		l.logger.Debug("RUNNING")
	case *fxevent.Stopping:
		l.logger.Info("stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		l.failed(e.Err, "fx stop failed")
	case *fxevent.LoggerInitialized:
		l.failed(e.Err, "fx custom logger failed", zap.String("constructor", e.ConstructorName))
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{logger: newComponentXLogger(logger, "Fx")}
}
