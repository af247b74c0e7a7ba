package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// AnyEvent subscribes a handler to every event type.
const AnyEvent EventType = "*"

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// syncDispatcher delivers events on the publisher's goroutine, type-specific
// handlers first, then AnyEvent handlers, each in subscription order.
type syncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish invokes every matching handler. A failing or panicking handler does
// not stop the others; failures are joined into the returned error.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.listeners[event.Type])+len(d.listeners[AnyEvent]))
	handlers = append(handlers, d.listeners[event.Type]...)
	if event.Type != AnyEvent {
		handlers = append(handlers, d.listeners[AnyEvent]...)
	}
	d.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := deliver(ctx, handler, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s handler panicked: %v", event.Type, r)
		}
	}()
	return handler(ctx, event)
}

// Subscribe registers a handler for the given event type, or for all of them
// with AnyEvent.
func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
