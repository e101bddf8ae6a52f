package inventory

import (
	"context"
	"strings"
	"testing"

	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	infraobs "github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortfallAlertCountsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	tel, err := infraobs.NewPrometheus(nil, nil, prometrics.New(reg, "", ""))
	require.NoError(t, err)

	res, err := NewShortfallAlertUseCase(tel).Execute(context.Background(), dominv.ShortfallEvent{
		OrderID:   "ord-1",
		InvoiceID: "inv-1",
		Shortfalls: []dominv.Shortfall{
			{ProductID: "Q", Requested: 1, Available: 0},
			{ProductID: "R", Requested: 3, Available: 1},
		},
		Errors: []string{"no inventory record for product S"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Lines)

	expected := `
# HELP inventory_shortfall_total Paid order lines that could not be taken out of stock.
# TYPE inventory_shortfall_total counter
inventory_shortfall_total{reason="decrement_error"} 1
inventory_shortfall_total{reason="insufficient_stock"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), string(observability.MInventoryShortfalls)))
}
