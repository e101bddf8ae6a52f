// Package redisledger remembers processed webhook event ids in Redis.
package redisledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "checkout:webhook:event:"
	defaultTTL    = 72 * time.Hour
)

// Client is the subset of redis.Cmdable the ledger issues.
type Client interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type Ledger struct {
	rdb    Client
	prefix string
	ttl    time.Duration
}

func New(rdb Client, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Ledger{rdb: rdb, prefix: defaultPrefix, ttl: ttl}
}

// Dial parses a redis:// URL and checks the server answers.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

func (l *Ledger) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.prefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis: exists %s: %w", eventID, err)
	}
	return n > 0, nil
}

func (l *Ledger) Remember(ctx context.Context, eventID string) error {
	if err := l.rdb.Set(ctx, l.prefix+eventID, time.Now().UTC().Format(time.RFC3339), l.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", eventID, err)
	}
	return nil
}
