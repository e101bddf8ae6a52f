// Package logctx carries the request or event scoped logger through a context.
package logctx

import (
	"context"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

func With(ctx context.Context, logger observability.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From reports the logger stored on ctx, if any.
func From(ctx context.Context) (observability.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(ctxKey{}).(observability.Logger)
	return logger, ok && logger != nil
}

// FromOr never returns nil: ctx logger, then fallback, then a nop logger.
func FromOr(ctx context.Context, fallback observability.Logger) observability.Logger {
	if logger, ok := From(ctx); ok {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return observability.NopLogger()
}

// Enrich derives a logger carrying fields and the active trace_id/span_id,
// and returns it together with a context holding it.
func Enrich(ctx context.Context, fallback observability.Logger, fields ...observability.Field) (context.Context, observability.Logger) {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	logger := FromOr(ctx, fallback).With(fields...)
	return With(ctx, logger), logger
}
