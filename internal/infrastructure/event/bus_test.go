package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Due", uuid.New())}
}

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, e)
	h.mu.Unlock()
	if h.panic {
		panic("handler exploded")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithSyncDispatch())
	paid := &recordingHandler{types: []string{"DuePaid"}}
	all := &recordingHandler{}
	bus.Subscribe(paid)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("DuePaid"), newTestEvent("DueCreated")))

	assert.Equal(t, 1, paid.count())
	assert.Equal(t, 2, all.count())

	bus.Unsubscribe(paid)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("DuePaid")))
	assert.Equal(t, 1, paid.count())
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core), WithSyncDispatch())

	failing := &recordingHandler{types: []string{"X"}, err: errors.New("db down")}
	panicking := &recordingHandler{types: []string{"X"}, panic: true}
	after := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(after)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, after.count())
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestInMemoryEventBus_AsyncStopWaits(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	}
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Equal(t, 20, h.count())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 20, h.count())
}

type lateHandler struct {
	stopped *atomic.Bool
	late    atomic.Int32
	handled atomic.Int32
}

func (h *lateHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	if h.stopped.Load() {
		h.late.Add(1)
	}
	h.handled.Add(1)
	return nil
}

func (h *lateHandler) EventTypes() []string { return []string{"X"} }

func TestInMemoryEventBus_PublishDuringStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	var stopped atomic.Bool
	h := &lateHandler{stopped: &stopped}
	bus.Subscribe(h)

	var publishers sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		publishers.Add(1)
		go func() {
			defer publishers.Done()
			<-start
			for j := 0; j < 50; j++ {
				_ = bus.Publish(context.Background(), newTestEvent("X"))
			}
		}()
	}

	close(start)
	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
	stopped.Store(true)
	handledAtStop := h.handled.Load()

	publishers.Wait()
	assert.Zero(t, h.late.Load(), "no handler may start after Stop returns")
	assert.Equal(t, handledAtStop, h.handled.Load())
}
