package workerpresentation

import (
	"context"

	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// WithEventContext injects a request-scoped logger for background/worker executions.
// Dynamic fields only: trace_id/span_id (if valid), event_id (generated if empty),
// plus caller-provided low-cardinality attributes (e.g. "consumer", "event").
func WithEventContext(ctx context.Context, base observability.Logger, attrs map[string]string) context.Context {
	fields := make([]observability.Field, 0, len(attrs)+1)

	evtID := attrs["event_id"]
	if evtID == "" {
		evtID = uuid.NewString()
	}
	fields = append(fields, observability.F("event_id", evtID))

	for k, v := range attrs {
		if k == "event_id" || v == "" {
			continue
		}
		fields = append(fields, observability.F(k, v))
	}

	ctx, _ = logctx.Enrich(ctx, base, fields...)
	return ctx
}

// Subscriber decorates a bus subscriber so every handler runs inside its own
// span with an event-scoped logger on the context.
type Subscriber struct {
	next     domoutbox.Subscriber
	tel      observability.Observability
	consumer string
}

var _ domoutbox.Subscriber = (*Subscriber)(nil)

func NewSubscriber(next domoutbox.Subscriber, tel observability.Observability, consumer string) *Subscriber {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Subscriber{next: next, tel: tel, consumer: consumer}
}

func (s *Subscriber) Subscribe(eventName string, h domoutbox.Handler) {
	s.next.Subscribe(eventName, func(ctx context.Context, e domoutbox.Event) error {
		key := domoutbox.KeyOf(e)
		ctx, span := s.tel.Tracer().Start(ctx, "EVT."+eventName,
			attribute.String("messaging.consumer", s.consumer),
			attribute.String("messaging.event", eventName),
			attribute.String("messaging.key", key),
		)
		defer span.End()

		ctx = WithEventContext(ctx, s.tel.Logger(), map[string]string{
			"consumer": s.consumer,
			"event":    eventName,
			"order_id": key,
		})
		err := h(ctx, e)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "HANDLER_FAILED")
		}
		return err
	})
}
