package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduct(t *testing.T) {
	s, err := NewStock("p", 5, "A1")
	require.NoError(t, err)

	require.NoError(t, s.Deduct(2))
	assert.Equal(t, 3, s.Quantity)

	err = s.Deduct(4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	var short *InsufficientError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, InsufficientError{ProductID: "p", Requested: 4, Available: 3}, *short)
	assert.Equal(t, 3, s.Quantity)

	assert.ErrorIs(t, s.Deduct(0), ErrInvalidQuantity)
	require.NoError(t, s.Deduct(3))
	assert.Zero(t, s.Quantity)
}

func TestNewStockRejectsNegativeQuantity(t *testing.T) {
	_, err := NewStock("p", -1, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
