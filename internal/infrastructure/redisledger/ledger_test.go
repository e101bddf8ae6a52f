package redisledger

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	keys map[string]time.Duration
}

func (f *fakeClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.keys[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestLedgerRemembersEvents(t *testing.T) {
	fc := &fakeClient{keys: map[string]time.Duration{}}
	l := New(fc, time.Hour)
	ctx := context.Background()

	seen, err := l.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, l.Remember(ctx, "evt_1"))
	assert.Equal(t, time.Hour, fc.keys[defaultPrefix+"evt_1"])

	seen, err = l.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestLedgerSurfacesConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       "localhost:0",
		MaxRetries: -1,
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
	defer rdb.Close()
	l := New(rdb, 0)

	_, err := l.Seen(context.Background(), "evt_1")
	assert.Error(t, err)
	assert.Error(t, l.Remember(context.Background(), "evt_1"))
}
