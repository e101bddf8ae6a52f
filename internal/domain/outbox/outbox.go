// Package outbox defines how checkout events leave a committed unit of work.
package outbox

import "context"

type Event interface {
	EventName() string
}

// Keyed events name the order they belong to; consumers use the key for
// ordering and correlation.
type Keyed interface {
	EventKey() string
}

// KeyOf returns the event key, or "" for events without one.
func KeyOf(e Event) string {
	if k, ok := e.(Keyed); ok {
		return k.EventKey()
	}
	return ""
}

type Handler func(ctx context.Context, e Event) error

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber routes events by EventName to handlers.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}

// Batch holds the events raised while a unit of work runs. Callers publish it
// after commit and drop it on rollback.
type Batch []Event

func (b *Batch) Add(events ...Event) {
	for _, e := range events {
		if e == nil {
			continue
		}
		*b = append(*b, e)
	}
}
