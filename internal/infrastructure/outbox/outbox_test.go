package outbox

import (
	"context"
	"sync"
	"testing"
	"time"

	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string { return e.name }

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(nil, Options{})
	var mu sync.Mutex
	got := map[string]int{}
	for _, key := range []string{"a", "b"} {
		bus.Subscribe("order.created", func(ctx context.Context, e domoutbox.Event) error {
			mu.Lock()
			defer mu.Unlock()
			got[key]++
			return nil
		})
	}
	bus.Start(context.Background())

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "order.created"}))
	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "unrelated"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	bus.Stop(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, got)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(nil, Options{})
	delivered := make(chan struct{}, 1)
	bus.Subscribe("x", func(context.Context, domoutbox.Event) error { panic("boom") })
	bus.Subscribe("x", func(context.Context, domoutbox.Event) error {
		delivered <- struct{}{}
		return nil
	})
	bus.Start(context.Background())
	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "x"}))

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("second handler not invoked")
	}
	bus.Stop(context.Background())
}

func TestPublishAfterStopIsRejected(t *testing.T) {
	bus := NewBus(nil, Options{})
	bus.Start(context.Background())
	bus.Stop(context.Background())

	err := bus.Publish(context.Background(), testEvent{name: "x"})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStopWithoutStart(t *testing.T) {
	bus := NewBus(nil, Options{})
	done := make(chan struct{})
	go func() {
		bus.Stop(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop blocked")
	}
}
