package application

import (
	"context"
	"errors"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const spanPrefix = "UC."

// Instruments is the RED tooling shared by use cases of one service.
type Instruments struct {
	Tracer observability.Tracer
	Log    observability.Logger

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
	metrics      observability.Metrics
}

// NewInstruments resolves instruments once at wiring time; tel may be nil.
func NewInstruments(tel observability.Observability, service string) *Instruments {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &Instruments{
		Tracer:       tel.Tracer(),
		Log:          tel.Logger().With(observability.F("service", service)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		extCounter:   m.Counter(observability.MExternalRequests),
		extHistogram: m.Histogram(observability.MExternalRequestDuration),
		metrics:      m,
	}
}

func (in *Instruments) Counter(key observability.MetricKey) observability.Counter {
	return in.metrics.Counter(key)
}

// Run tracks one use case execution: a span, request/latency metrics, and
// exactly one use_case_done log line carrying outcome and status.
type Run struct {
	in      *Instruments
	useCase string
	span    trace.Span
	start   time.Time
	logger  observability.Logger

	outcome string
	status  string
	fields  []observability.Field
}

func (in *Instruments) Start(ctx context.Context, useCase, name string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := in.Tracer.Start(ctx, spanPrefix+name, attrs...)
	ctx, logger := logctx.Enrich(ctx, in.Log, observability.F("use_case", useCase))
	return ctx, &Run{
		in:      in,
		useCase: useCase,
		span:    span,
		start:   time.Now(),
		logger:  logger,
		outcome: "success",
		status:  "OK",
	}
}

func (r *Run) Logger() observability.Logger { return r.logger }

func (r *Run) Span() trace.Span { return r.span }

// Fail records an error status and hands err back for returning.
func (r *Run) Fail(status string, err error) error {
	r.outcome, r.status = "error", status
	return err
}

// Status overrides the status text of a successful run (IDEMPOTENT_REPLAY, ...).
func (r *Run) Status(status string) {
	r.status = status
}

// Recover resets the run to success after the caller handled an earlier failure.
func (r *Run) Recover(status string) {
	r.outcome, r.status = "success", status
}

// Field adds a field to the closing log line.
func (r *Run) Field(k string, v any) {
	r.fields = append(r.fields, observability.F(k, v))
}

// End closes the run; call it deferred with the named error result.
func (r *Run) End(err error) {
	lat := time.Since(r.start).Seconds()
	if err != nil && r.outcome == "success" {
		r.outcome, r.status = "error", "UNEXPECTED_ERROR"
	}

	if r.span != nil {
		if err != nil {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, r.status)
		} else {
			r.span.SetStatus(codes.Ok, r.status)
		}
		r.span.End()
	}

	r.in.reqCounter.Add(1,
		observability.L("use_case", r.useCase),
		observability.L("outcome", r.outcome),
	)
	r.in.durHistogram.Observe(lat, observability.L("use_case", r.useCase))

	fields := append([]observability.Field{
		observability.F("outcome", r.outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", lat),
	}, r.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	r.logger.Info("use_case_done", fields...)
}

// External times a call to an outside peer and records its outcome.
func (in *Instruments) External(peer, endpoint string, call func() error) error {
	start := time.Now()
	err := call()
	outcome := "success"
	if err != nil {
		outcome = "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			outcome = "canceled"
		}
	}
	in.extCounter.Add(1,
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	in.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
	)
	return err
}
