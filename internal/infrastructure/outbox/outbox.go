package outbox

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	domoutbox "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
)

const componentOutbox = "outbox"

var ErrStopped = errors.New("outbox: bus stopped")

// Options tunes the bus; zero values pick the defaults.
type Options struct {
	QueueSize      int
	Concurrency    int
	HandlerTimeout time.Duration
}

// Bus is an in-memory event bus fanning events out to subscribers. It is not
// durable: events still queued when the process dies are lost, which is
// acceptable for the alerting and forwarding subscribers it serves.
type Bus struct {
	mu        sync.RWMutex
	subs      map[string][]domoutbox.Handler
	queue     chan domoutbox.Event
	stopped   bool
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}

	concurrency    int
	handlerTimeout time.Duration
	log            observability.Logger
}

var (
	_ domoutbox.Publisher  = (*Bus)(nil)
	_ domoutbox.Subscriber = (*Bus)(nil)
)

func NewBus(tel observability.Observability, opts Options) *Bus {
	if tel == nil {
		tel = observability.Nop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 30 * time.Second
	}
	return &Bus{
		subs:           make(map[string][]domoutbox.Handler),
		queue:          make(chan domoutbox.Event, opts.QueueSize),
		done:           make(chan struct{}),
		concurrency:    opts.Concurrency,
		handlerTimeout: opts.HandlerTimeout,
		log:            tel.Logger().With(observability.F("component", componentOutbox)),
	}
}

func (b *Bus) Subscribe(eventName string, h domoutbox.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		go b.dispatchLoop(context.WithoutCancel(ctx))
		logctx.FromOr(ctx, b.log).Info("event_bus_started")
	})
}

// Stop refuses new events, delivers what is already queued and waits for the
// dispatcher to finish or ctx to expire.
func (b *Bus) Stop(ctx context.Context) {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.stopped = true
		close(b.queue)
		b.mu.Unlock()

		b.startOnce.Do(func() { close(b.done) })
		select {
		case <-b.done:
			logctx.FromOr(ctx, b.log).Info("event_bus_stopped")
		case <-ctx.Done():
			logctx.FromOr(ctx, b.log).Warn("event_bus_stop_timeout",
				observability.F("pending", len(b.queue)),
			)
		}
	})
}

func (b *Bus) Publish(ctx context.Context, e domoutbox.Event) error {
	if e == nil {
		return nil
	}
	logger := logctx.FromOr(ctx, b.log).With(observability.F("event", e.EventName()))

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		logger.Warn("event_enqueue_rejected", observability.F("error", ErrStopped.Error()))
		return ErrStopped
	}
	select {
	case b.queue <- e:
		logger.Debug("event_enqueued")
		return nil
	case <-ctx.Done():
		logger.Warn("event_enqueue_aborted", observability.F("error", ctx.Err()))
		return ctx.Err()
	}
}

func (b *Bus) dispatchLoop(ctx context.Context) {
	defer close(b.done)
	for e := range b.queue {
		b.fanout(ctx, e)
	}
}

func (b *Bus) fanout(ctx context.Context, e domoutbox.Event) {
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domoutbox.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	logger := b.log.With(observability.F("event", name))
	if len(handlers) == 0 {
		logger.Debug("event_dropped_no_subscriber")
		return
	}
	ctx = logctx.With(ctx, logger)

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for _, h := range handlers {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("event_handler_panic",
						observability.F("panic", r),
						observability.F("stack", string(debug.Stack())),
					)
				}
				<-sem
				wg.Done()
			}()

			hctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
			defer cancel()
			if err := h(hctx, e); err != nil {
				logger.Warn("event_handler_error", observability.F("error", err.Error()))
			}
		}()
	}

	wg.Wait()
	logger.Debug("event_fanned_out", observability.F("handlers", len(handlers)))
}
