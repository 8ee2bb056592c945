package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// floorCore drops entries below its floor before the wrapped core sees them.
// The wrapped core keeps its own level, so a floor can only raise it.
type floorCore struct {
	zapcore.Core

	floor zapcore.LevelEnabler
}

func (c *floorCore) Enabled(l zapcore.Level) bool {
	return c.floor.Enabled(l) && c.Core.Enabled(l)
}

//nolint:gocritic // zapcore.Core fixes the signature.
func (c *floorCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.floor.Enabled(ent.Level) {
		return ce
	}

	return c.Core.Check(ent, ce)
}

//nolint:ireturn,nolintlint // zapcore.Core fixes the signature.
func (c *floorCore) With(fields []zapcore.Field) zapcore.Core {
	return &floorCore{Core: c.Core.With(fields), floor: c.floor}
}

// WithLevel raises the minimum level of a derived logger without touching
// the shared atomic level.
//
//nolint:ireturn,nolintlint // zap options are interfaces.
func WithLevel(floor zapcore.LevelEnabler) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &floorCore{Core: core, floor: floor}
	})
}

// Quiet raises the global logger to lvl. alarm-set and alarm-stop call it
// unless --verbose is given.
func Quiet(lvl zapcore.Level) {
	SetLogger(global.WithOptions(WithLevel(lvl)))
}
