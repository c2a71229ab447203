// Package logging wraps zap behind the GetLogger(name) call-site idiom the
// teacher's promotion engine uses against its internal logging package, so
// call sites read the same even though the concrete implementation here is
// a zap.SugaredLogger used directly rather than an unpublished shared
// module.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	onceAtom sync.Once
	base     *zap.Logger
)

// Logger is the narrow surface call sites use, matching the
// Info/Warn/Error(msg string, kv ...interface{}) shape the teacher's engine
// calls against logging.GetLogger(name).
type Logger struct {
	s *zap.SugaredLogger
}

func (l Logger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l Logger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l Logger) Fatal(msg string, kv ...interface{}) { l.s.Fatalw(msg, kv...) }

func buildBase() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// GetLogger returns a named Logger, same call-site shape as the teacher's
// logging.GetLogger("advanced-promotion-engine").
func GetLogger(name string) Logger {
	onceAtom.Do(func() {
		base = buildBase()
	})
	return Logger{s: base.Sugar().Named(name)}
}

// Sync flushes the underlying zap core; call from main before exit.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
