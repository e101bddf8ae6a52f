package observability

import (
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusRegistersCatalog(t *testing.T) {
	reg := prometheus.NewRegistry()
	tel, err := NewPrometheus(nil, nil, prometrics.New(reg, "", ""))
	require.NoError(t, err)

	tel.Metrics().Counter(observability.MWebhookEvents).Add(1,
		observability.L("event_type", "checkout.session.completed"),
		observability.L("outcome", "completed"),
	)
	tel.Metrics().Histogram(observability.MExternalRequestDuration).Observe(0.2,
		observability.L("peer", "payment_gateway"),
		observability.L("endpoint", "create_session"),
	)

	expected := `
# HELP payment_webhook_events_total Payment webhook deliveries by event type and outcome.
# TYPE payment_webhook_events_total counter
payment_webhook_events_total{event_type="checkout.session.completed",outcome="completed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), string(observability.MWebhookEvents)))
	count, err := testutil.GatherAndCount(reg, string(observability.MExternalRequestDuration))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewPrometheusTwiceReusesVectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheus(nil, nil, prometrics.New(reg, "", ""))
	require.NoError(t, err)
	second, err := NewPrometheus(nil, nil, prometrics.New(reg, "", ""))
	require.NoError(t, err)

	first.Metrics().Counter(observability.MInventoryShortfalls).Add(1, observability.L("reason", "insufficient_stock"))
	second.Metrics().Counter(observability.MInventoryShortfalls).Add(2, observability.L("reason", "insufficient_stock"))

	expected := `
# HELP inventory_shortfall_total Paid order lines that could not be taken out of stock.
# TYPE inventory_shortfall_total counter
inventory_shortfall_total{reason="insufficient_stock"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), string(observability.MInventoryShortfalls)))
}

func TestUndeclaredKeyIsNop(t *testing.T) {
	tel := New(nil, nil, nil, nil)

	assert.NotPanics(t, func() {
		tel.Metrics().Counter("nope").Add(1)
		tel.Metrics().Histogram("nope").Observe(1)
		tel.Logger().Info("ignored")
	})
}
