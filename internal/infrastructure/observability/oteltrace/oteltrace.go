// Package oteltrace adapts the OpenTelemetry API to observability.Tracer.
package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const defaultInstrumentation = "minishop.checkout"

type tracer struct {
	t      trace.Tracer
	common []attribute.KeyValue
}

// New returns a tracer bound to the globally registered provider. Without an
// SDK provider installed (otel.SetTracerProvider) spans are non-recording but
// still carry propagated trace context. Every span gets service.name.
func New(service string) observability.Tracer {
	name := defaultInstrumentation
	var common []attribute.KeyValue
	if service != "" {
		name = service
		common = append(common, attribute.String("service.name", service))
	}
	return &tracer{t: otel.Tracer(name), common: common}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(t.common)+len(attrs))
	all = append(all, t.common...)
	all = append(all, attrs...)
	return t.t.Start(ctx, name, trace.WithAttributes(all...))
}

// InstallPropagator registers W3C trace context and baggage as the global
// propagator, so inbound traceparent headers join the caller's trace.
func InstallPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
