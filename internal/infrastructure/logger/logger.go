package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NORMAL-EX/chrome-control/internal/application/port/output"
)

var _ output.LoggerPort = (*ZapLogger)(nil)

type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

type Options struct {
	Level string
	JSON  bool
	Name  string
}

// New builds a zap-backed logger. All output goes to stderr because
// stdout carries the protocol stream.
func New(opts Options) *ZapLogger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	base := zap.New(core, zap.AddStacktrace(zap.ErrorLevel))
	if opts.Name != "" {
		base = base.Named(opts.Name)
	}

	return &ZapLogger{base: base, sugar: base.Sugar()}
}

// Nop returns a logger that discards everything. Meant for tests.
func Nop() *ZapLogger {
	base := zap.NewNop()
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *ZapLogger) WithField(key string, value any) output.LoggerPort {
	s := l.sugar.With(key, value)
	return &ZapLogger{base: s.Desugar(), sugar: s}
}

func (l *ZapLogger) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	s := l.sugar.With(args...)
	return &ZapLogger{base: s.Desugar(), sugar: s}
}

func (l *ZapLogger) Close() error {
	return l.base.Sync()
}
