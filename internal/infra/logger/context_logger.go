package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	// Business context keys for persona pipeline observability. Values set
	// with the With* helpers are extracted by TraceContextHandler on every
	// record logged through a *Context method.
	RunIDKey   ContextKey = "persona.run.id"
	ProductKey ContextKey = "persona.product"
	StageKey   ContextKey = "persona.pipeline.stage"
)

// WithRunID adds the pipeline run ID to context for observability.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithProduct adds the product/topic to context for observability.
func WithProduct(ctx context.Context, product string) context.Context {
	return context.WithValue(ctx, ProductKey, product)
}

// WithStage adds the pipeline stage name to context for observability.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// contextAttrs extracts the persona business keys present on ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range []ContextKey{RunIDKey, ProductKey, StageKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
