// Package prometrics backs the observability metric ports with Prometheus vectors.
package prometrics

import (
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry turns metric specs into registered Prometheus vectors.
type Registry struct {
	reg       prometheus.Registerer
	namespace string
	subsystem string
}

// New registers collectors on reg; a nil reg falls back to the default registerer.
func New(reg prometheus.Registerer, namespace, subsystem string) *Registry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Registry{reg: reg, namespace: namespace, subsystem: subsystem}
}

type counter struct{ v *prometheus.CounterVec }

func (c *counter) Add(d float64, labels ...observability.Label) {
	c.v.With(labelMap(labels)).Add(d)
}

type histogram struct{ v *prometheus.HistogramVec }

func (h *histogram) Observe(v float64, labels ...observability.Label) {
	h.v.With(labelMap(labels)).Observe(v)
}

func labelMap(ls []observability.Label) prometheus.Labels {
	m := make(prometheus.Labels, len(ls))
	for _, l := range ls {
		m[l.Key] = l.Value
	}
	return m
}

func (r *Registry) counter(spec observability.MetricSpec) (*counter, error) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: string(spec.Key), Help: spec.Help,
	}, spec.Labels)
	if err := r.reg.Register(cv); err != nil {
		var dup prometheus.AlreadyRegisteredError
		if !errors.As(err, &dup) {
			return nil, err
		}
		existing, ok := dup.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("%s registered with another type", spec.Key)
		}
		cv = existing
	}
	return &counter{v: cv}, nil
}

func (r *Registry) histogram(spec observability.MetricSpec) (*histogram, error) {
	buckets := spec.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	hv := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace, Subsystem: r.subsystem, Name: string(spec.Key), Help: spec.Help, Buckets: buckets,
	}, spec.Labels)
	if err := r.reg.Register(hv); err != nil {
		var dup prometheus.AlreadyRegisteredError
		if !errors.As(err, &dup) {
			return nil, err
		}
		existing, ok := dup.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("%s registered with another type", spec.Key)
		}
		hv = existing
	}
	return &histogram{v: hv}, nil
}

// Instruments registers every spec and returns the instruments keyed for
// observability.New. Registering the same catalog twice reuses the vectors.
func (r *Registry) Instruments(specs []observability.MetricSpec) (
	map[observability.MetricKey]observability.Counter,
	map[observability.MetricKey]observability.Histogram,
	error,
) {
	counters := make(map[observability.MetricKey]observability.Counter)
	histograms := make(map[observability.MetricKey]observability.Histogram)
	for _, spec := range specs {
		switch spec.Kind {
		case observability.KindCounter:
			c, err := r.counter(spec)
			if err != nil {
				return nil, nil, fmt.Errorf("register %s: %w", spec.Key, err)
			}
			counters[spec.Key] = c
		case observability.KindHistogram:
			h, err := r.histogram(spec)
			if err != nil {
				return nil, nil, fmt.Errorf("register %s: %w", spec.Key, err)
			}
			histograms[spec.Key] = h
		default:
			return nil, nil, fmt.Errorf("register %s: unknown metric kind %d", spec.Key, spec.Kind)
		}
	}
	return counters, histograms, nil
}
