package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
)

const workerService = "inventory_worker"

// Worker feeds shortfall events from the bus into the alert use case.
type Worker struct {
	subscriber domoutbox.Subscriber
	useCase    application.UseCase[dominv.ShortfallEvent, *AlertResult]

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewWorker(
	subscriber domoutbox.Subscriber,
	useCase application.UseCase[dominv.ShortfallEvent, *AlertResult],
	tel observability.Observability,
) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &Worker{
		subscriber:   subscriber,
		useCase:      useCase,
		log:          tel.Logger().With(observability.F("service", workerService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.useCase == nil {
		return
	}
	w.subscriber.Subscribe(dominv.ShortfallEvent{}.EventName(), w.handleShortfall)
}

func (w *Worker) handleShortfall(ctx context.Context, e domoutbox.Event) error {
	const useCase = "inventory.worker.shortfall"
	evt, ok := e.(dominv.ShortfallEvent)
	if !ok {
		w.observe(useCase, "ignored", 0)
		return nil
	}

	start := time.Now()
	ctx, logger := logctx.Enrich(ctx, w.log,
		observability.F("event", e.EventName()),
		observability.F("order_id", evt.OrderID),
	)

	_, err := w.useCase.Execute(ctx, evt)
	if err != nil {
		w.observe(useCase, "error", time.Since(start).Seconds())
		logger.Warn("worker_event_failed", observability.F("error", err.Error()))
		return fmt.Errorf("worker: shortfall alert: %w", err)
	}
	w.observe(useCase, "success", time.Since(start).Seconds())
	return nil
}

func (w *Worker) observe(useCase, outcome string, latencySeconds float64) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
	if latencySeconds > 0 {
		w.durHistogram.Observe(latencySeconds, observability.L("use_case", useCase))
	}
}
