package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the output format and level. App and Env are attached to
// every entry.
type Options struct {
	JSON  bool
	Debug bool
	App   string
	Env   string
}

// New builds the process logger. JSON output is sampled per message.
func New(opts Options) (*zap.Logger, error) {
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "component",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.Config{
		Level:            level,
		Development:      opts.Debug,
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if opts.JSON {
		cfg.Encoding = "json"
		cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	var fields []zap.Field
	if opts.App != "" {
		fields = append(fields, zap.String("app", opts.App))
	}
	if opts.Env != "" {
		fields = append(fields, zap.String("env", opts.Env))
	}
	return cfg.Build(zap.Fields(fields...))
}

type ctxKey struct{}

// WithRequest returns a child of l tagged with the request id.
func WithRequest(l *zap.Logger, requestID string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if requestID == "" {
		return l
	}
	return l.With(zap.String("request_id", requestID))
}

// IntoContext stores l on ctx for FromContext.
func IntoContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger stored on ctx, or fallback.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// Truncate shortens s to limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
