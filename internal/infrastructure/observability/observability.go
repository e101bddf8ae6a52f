package observability

import (
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// instruments resolves metric keys to registered instruments, falling back to
// no-ops for keys nobody declared.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *instruments) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok && c != nil {
		return c
	}
	return observability.NopCounter()
}

func (m *instruments) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok && h != nil {
		return h
	}
	return observability.NopHistogram()
}

// New assembles an Observability provider backed by the supplied tracer, logger, and metric instruments.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	var metrics observability.Metrics = observability.NopMetrics()
	if len(counters) > 0 || len(histograms) > 0 {
		metrics = &instruments{counters: counters, histograms: histograms}
	}

	return &provider{tracer: tracer, logger: logger, metrics: metrics}
}

// NewPrometheus registers observability.Catalog on reg and wires the
// instruments with tracer and logger.
func NewPrometheus(tracer observability.Tracer, logger observability.Logger, reg *prometrics.Registry) (observability.Observability, error) {
	counters, histograms, err := reg.Instruments(observability.Catalog)
	if err != nil {
		return nil, err
	}
	return New(tracer, logger, counters, histograms), nil
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }
