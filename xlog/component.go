package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newComponentXLogger derives a logger for a third-party component.
// The component logs drop the caller and function keys, because they
// always point into the adapter instead of the component.
func newComponentXLogger(parent XLogger, component string) *xLogger {
	p, ok := parent.(*xLogger)
	if !ok || p == nil {
		panic("[XLogger] parent logger is not created by NewXLogger")
	}
	l := &xLogger{
		ctxFields:           p.ctxFields,
		dynamicLevelEnabler: p.dynamicLevelEnabler,
		ws:                  p.ws,
		encoder:             p.encoder,
	}
	l.logger.Store(p.zap().
		Named(component).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			cc, ok := core.(xLogCore)
			if !ok {
				panic("[XLogger] core is not XLogCore")
			}
			var err error
			if mc, ok := cc.(xLogMultiCore); ok {
				cc, err = WrapCores(mc, componentCoreEncoderCfg)
			} else {
				cc, err = WrapCore(cc, componentCoreEncoderCfg)
			}
			if err != nil {
				panic(err)
			}
			return cc
		})),
	)
	return l
}
