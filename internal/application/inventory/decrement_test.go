package inventory

import (
	"context"
	"errors"
	"testing"

	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRepo struct {
	rows    map[string]*dominv.Stock
	readErr error
	locked  []string
}

func (r *stockRepo) Get(_ context.Context, id string) (*dominv.Stock, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, dominv.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, id string) (*dominv.Stock, error) {
	r.locked = append(r.locked, id)
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.Get(ctx, id)
}

func (r *stockRepo) Update(_ context.Context, s *dominv.Stock) error {
	r.rows[s.ProductID] = s.Clone()
	return nil
}

func TestApplyDecrementSplitsProcessedAndShortfalls(t *testing.T) {
	repo := &stockRepo{rows: map[string]*dominv.Stock{
		"P": {ProductID: "P", Quantity: 5, Active: true},
		"Q": {ProductID: "Q", Quantity: 0, Active: true},
	}}

	report := NewDecrementer(nil).Apply(context.Background(), repo, []dominv.Line{
		{ProductID: "P", Quantity: 2},
		{ProductID: "Q", Quantity: 1},
		{ProductID: "R", Quantity: 1},
	})

	require.Len(t, report.Processed, 1)
	assert.Equal(t, dominv.Processed{ProductID: "P", Quantity: 2, Remaining: 3}, report.Processed[0])
	require.Len(t, report.Shortfalls, 1)
	assert.Equal(t, "Q", report.Shortfalls[0].ProductID)
	assert.Equal(t, 1, report.Shortfalls[0].Requested)
	assert.Equal(t, 0, report.Shortfalls[0].Available)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "R")

	assert.Equal(t, 3, repo.rows["P"].Quantity)
	assert.Equal(t, 0, repo.rows["Q"].Quantity)
	assert.Equal(t, []string{"P", "Q", "R"}, repo.locked)
	assert.False(t, report.Clean())
}

func TestApplyDecrementNeverGoesNegative(t *testing.T) {
	repo := &stockRepo{rows: map[string]*dominv.Stock{
		"P": {ProductID: "P", Quantity: 1, Active: true},
	}}

	report := NewDecrementer(nil).Apply(context.Background(), repo, []dominv.Line{{ProductID: "P", Quantity: 2}})

	assert.Empty(t, report.Processed)
	assert.Len(t, report.Shortfalls, 1)
	assert.Equal(t, 1, repo.rows["P"].Quantity)
}

func TestApplyDecrementRecordsStorageErrors(t *testing.T) {
	repo := &stockRepo{rows: map[string]*dominv.Stock{}, readErr: errors.New("connection reset")}

	report := NewDecrementer(nil).Apply(context.Background(), repo, []dominv.Line{{ProductID: "P", Quantity: 1}})

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "connection reset")
}
