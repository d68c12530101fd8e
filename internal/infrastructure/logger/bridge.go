package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Bridge returns a logger that writes every entry to base and to extra.
// A nil extra returns base unchanged.
func Bridge(base *zap.Logger, extra zapcore.Core) *zap.Logger {
	if extra == nil {
		return base
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, extra)
	}))
}
