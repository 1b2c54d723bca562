package shared

import (
	"context"
	"sync"
)

// EventSubscriber subscribes handlers to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for the event types it declares.
	// A handler declaring no event types receives all events.
	Subscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// InMemoryEventBus dispatches events synchronously to subscribed handlers.
// Handler errors do not stop delivery to the remaining handlers; the first
// error is returned after all handlers ran.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{}
}

// Subscribe registers a handler
func (b *InMemoryEventBus) Subscribe(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers events to all interested handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...DomainEvent) error {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var firstErr error
	for _, event := range events {
		for _, h := range handlers {
			if !handlerWants(h, event.EventType()) {
				continue
			}
			if err := h.Handle(ctx, event); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func handlerWants(h EventHandler, eventType string) bool {
	types := h.EventTypes()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == eventType {
			return true
		}
	}
	return false
}

var _ EventBus = (*InMemoryEventBus)(nil)
