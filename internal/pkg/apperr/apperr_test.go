package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("create order: %w", EmptyCart("cart has no active items"))

	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindEmptyCart, KindOf(err))
	assert.Equal(t, "cart has no active items", MessageOf(err))
}

func TestGatewayErrorKeepsCause(t *testing.T) {
	err := Gateway("payment provider unavailable", context.DeadlineExceeded)

	assert.True(t, errors.Is(err, ErrGateway))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, Retryable(err))
	assert.False(t, Retryable(Validation("bad")))
}

func TestUnclassifiedErrorsAreInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", MessageOf(err))
}
