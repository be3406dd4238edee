package xlog

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (xLogMultiCore)(nil)

type xLogMultiCore []xLogCore

func (mc xLogMultiCore) levelEncoder() zapcore.LevelEncoder {
	if len(mc) == 0 {
		return zapcore.CapitalLevelEncoder
	}
	return mc[0].levelEncoder()
}

func (mc xLogMultiCore) outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	if len(mc) == 0 {
		return zapcore.NewJSONEncoder
	}
	return mc[0].outEncoder()
}

func (mc xLogMultiCore) timeEncoder() zapcore.TimeEncoder {
	if len(mc) == 0 {
		return zapcore.ISO8601TimeEncoder
	}
	return mc[0].timeEncoder()
}

func (mc xLogMultiCore) writeSyncer() zapcore.WriteSyncer {
	if len(mc) == 0 {
		return defaultWriteSyncer
	}
	return mc[0].writeSyncer()
}

func (mc xLogMultiCore) With(fields []zap.Field) zapcore.Core {
	clone := make(xLogMultiCore, len(mc))
	for i := range mc {
		clone[i] = mc[i].With(fields).(xLogCore)
	}
	return clone
}

func (mc xLogMultiCore) Enabled(lvl zapcore.Level) bool {
	for i := range mc {
		if mc[i].Enabled(lvl) {
			return true
		}
	}
	return false
}

func (mc xLogMultiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for i := range mc {
		ce = mc[i].Check(ent, ce)
	}
	return ce
}

func (mc xLogMultiCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Write(ent, fields))
	}
	return err
}

func (mc xLogMultiCore) Sync() error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Sync())
	}
	return err
}

func XLogTeeCore(cores ...xLogCore) xLogCore {
	return xLogMultiCore(cores)
}

func WrapCores(cores xLogMultiCore, cfg *zapcore.EncoderConfig) (xLogCore, error) {
	newCores := make(xLogMultiCore, 0, len(cores))
	for i := range cores {
		newCore, err := WrapCore(cores[i], cfg)
		if err != nil {
			return nil, err
		}
		newCores = append(newCores, newCore)
	}
	return newCores, nil
}
