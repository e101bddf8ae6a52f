// Package observability holds the vendor-neutral ports the checkout code logs,
// traces and counts through. Adapters live under infrastructure/observability.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observability is handed to every service, use case and adapter at construction.
type Observability interface {
	Tracer() Tracer
	Logger() Logger
	Metrics() Metrics
}

// Metrics resolves a key from Catalog to its instrument. Unknown keys yield no-ops.
type Metrics interface {
	Counter(key MetricKey) Counter
	Histogram(key MetricKey) Histogram
}

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
}

type Counter interface {
	Add(delta float64, labels ...Label)
}

type Histogram interface {
	Observe(value float64, labels ...Label)
}

// Label is a metric dimension. Values must stay low-cardinality: route
// templates, outcomes and event types, never order or invoice ids.
type Label struct{ Key, Value string }

func L(k, v string) Label { return Label{Key: k, Value: v} }

// Field is a structured log attribute. Error values are rendered by the adapter.
type Field struct {
	Key   string
	Value any
}

func F(k string, v any) Field { return Field{Key: k, Value: v} }

type Logger interface {
	With(fields ...Field) Logger
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}
