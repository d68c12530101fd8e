// Package event provides the in-process domain event bus. Handlers run after
// the originating write has committed; a failing or panicking handler is
// logged and never reaches the publisher.
package event

import (
	"context"
	"sync"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithSyncDispatch runs handlers on the publishing goroutine
func WithSyncDispatch() Option {
	return func(b *InMemoryEventBus) {
		b.sync = true
	}
}

// InMemoryEventBus implements EventBus with in-memory pub/sub
type InMemoryEventBus struct {
	// mu also guards running, so a wg.Add in Publish never races Stop's Wait
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	running  bool

	logger *zap.Logger
	sync   bool
	wg     sync.WaitGroup
}

type delivery struct {
	handler shared.EventHandler
	event   shared.DomainEvent
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger, opts ...Option) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   log,
		running:  true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands every event to its handlers. It never fails; events
// published after Stop are dropped with a warning.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	if !b.running {
		b.mu.RUnlock()
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	var deliveries []delivery
	for _, event := range events {
		for _, handler := range b.handlersLocked(event.EventType()) {
			deliveries = append(deliveries, delivery{handler: handler, event: event})
		}
	}
	if !b.sync {
		b.wg.Add(len(deliveries))
	}
	b.mu.RUnlock()

	// handlers outlive the request
	bg := context.WithoutCancel(ctx)
	for _, d := range deliveries {
		if b.sync {
			b.dispatch(bg, d.handler, d.event)
			continue
		}
		go func(d delivery) {
			defer b.wg.Done()
			b.dispatch(bg, d.handler, d.event)
		}(d)
	}
	return nil
}

// Subscribe registers a handler. With no event types the handler's own
// EventTypes are used; an empty list subscribes to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.handlers {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

// Start marks the bus as accepting events
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	b.logger.Info("event bus started")
	return nil
}

// Stop stops accepting events and waits for in-flight handlers or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out with handlers in flight")
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) handlersLocked(eventType string) []shared.EventHandler {
	out := make([]shared.EventHandler, 0, len(b.handlers[eventType])+len(b.wildcard))
	out = append(out, b.handlers[eventType]...)
	return append(out, b.wildcard...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	log := logger.WithLogger(ctx, b.logger).With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked", zap.Any("panic", r))
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		log.Error("event handler failed", zap.Error(err))
	}
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
