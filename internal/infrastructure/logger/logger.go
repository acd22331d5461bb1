package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger - обертка над zap.SugaredLogger с key/value методами
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New создает логгер; format = "json" или "console"
func New(level, format string) *Logger {
	return NewWithOutput(level, format, os.Stdout)
}

func NewWithOutput(level, format string, output io.Writer) *Logger {
	atomicLevel := zap.NewAtomicLevel()
	if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
		atomicLevel.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "console" || format == "text" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	base := zap.New(
		zapcore.NewCore(encoder, zapcore.AddSync(output), atomicLevel),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// Nop - логгер, который ничего не пишет (для тестов)
func Nop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

func (l *Logger) With(args ...any) *Logger {
	sugared := l.SugaredLogger.With(args...)
	return &Logger{SugaredLogger: sugared, base: sugared.Desugar()}
}

func (l *Logger) Named(name string) *Logger {
	named := l.SugaredLogger.Named(name)
	return &Logger{SugaredLogger: named, base: named.Desugar()}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}

type ctxKey struct{}

// WithContext кладет логгер в контекст запроса
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext достает логгер из контекста, иначе возвращает fallback
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return fallback
}
