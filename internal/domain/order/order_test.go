package order

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesContactDetails(t *testing.T) {
	total := decimal.NewFromInt(10)

	_, err := New("o1", "u1", "c1", total, "   ", "555", "")
	assert.ErrorIs(t, err, ErrShippingAddressMissing)

	_, err = New("o1", "u1", "c1", total, "Main St 1", "\t", "")
	assert.ErrorIs(t, err, ErrContactPhoneMissing)

	_, err = New("o1", "u1", "c1", total, "Main St 1", strings.Repeat("9", 21), "")
	assert.ErrorIs(t, err, ErrContactPhoneTooLong)

	o, err := New("o1", "u1", "c1", total, " Main St 1 ", " 555-0101 ", " leave at door ")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "Main St 1", o.ShippingAddress)
	assert.Equal(t, "555-0101", o.ContactPhone)
	assert.Equal(t, "leave at door", o.Notes)
}

func TestCancelIsUnconditional(t *testing.T) {
	o, err := New("o1", "u1", "c1", decimal.NewFromInt(1), "addr", "phone", "")
	require.NoError(t, err)
	require.NoError(t, o.SetStatus(StatusDelivered))

	o.Cancel()

	assert.Equal(t, StatusCancelled, o.Status)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	o, _ := New("o1", "u1", "c1", decimal.NewFromInt(1), "addr", "phone", "")
	assert.ErrorIs(t, o.SetStatus(Status("lost")), ErrInvalidStatus)
	assert.Equal(t, StatusPending, o.Status)
}
