// Package logger adapts zap to the ports.Logger contract.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doeshing/aegis-go/internal/ports"
)

// ZapLogger routes structured log records to a zap core.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZap builds a production-encoded logger; verbose lowers the level to
// debug. Construction failures degrade to a no-op core.
func NewZap(verbose bool) *ZapLogger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return NewNop()
	}
	return &ZapLogger{log: log.Sugar()}
}

// NewNop builds a logger that discards everything; handy in tests.
func NewNop() *ZapLogger {
	return &ZapLogger{log: zap.NewNop().Sugar()}
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debugw(msg, flatten(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Infow(msg, flatten(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warnw(msg, flatten(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	kv := flatten(fields)
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	l.log.Errorw(msg, kv...)
}

// Sync flushes buffered records; safe to call at shutdown.
func (l *ZapLogger) Sync() {
	_ = l.log.Sync()
}

func flatten(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}

var _ ports.Logger = (*ZapLogger)(nil)
