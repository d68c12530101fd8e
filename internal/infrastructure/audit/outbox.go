// Package audit implements the best-effort audit trail writer.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	DefaultBufferSize   = 1024
	DefaultWriteTimeout = 5 * time.Second
)

// Outbox queues audit entries on a buffered channel drained by one worker.
// Emit never blocks: when the buffer is full the entry is dropped and logged.
type Outbox struct {
	repo         audit.Repository
	logger       *zap.Logger
	now          func() time.Time
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan *audit.Log
	done   chan struct{}
}

// NewOutbox creates an outbox; call Start to begin writing
func NewOutbox(repo audit.Repository, log *zap.Logger, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Outbox{
		repo:         repo,
		logger:       log.Named("audit"),
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
		queue:        make(chan *audit.Log, bufferSize),
		done:         make(chan struct{}),
	}
}

// Emit snapshots the entry and queues it
func (o *Outbox) Emit(ctx context.Context, entry audit.Entry) {
	record := audit.NewLog(entry, o.now())

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		logger.WithLogger(ctx, o.logger).Warn("audit outbox closed, entry dropped", entryFields(record)...)
		return
	}

	select {
	case o.queue <- record:
	default:
		logger.WithLogger(ctx, o.logger).Warn("audit outbox full, entry dropped", entryFields(record)...)
	}
}

// Start launches the writer goroutine
func (o *Outbox) Start() {
	go o.run()
}

// Close stops accepting entries and drains what is queued until ctx expires
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		o.logger.Warn("audit outbox drain timed out", zap.Int("pending", len(o.queue)))
		return ctx.Err()
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for record := range o.queue {
		o.write(record)
	}
}

func (o *Outbox) write(record *audit.Log) {
	ctx, cancel := context.WithTimeout(context.Background(), o.writeTimeout)
	defer cancel()
	if err := o.repo.Create(ctx, record); err != nil {
		o.logger.Warn("audit write failed", append(entryFields(record), zap.Error(err))...)
	}
}

func entryFields(l *audit.Log) []zap.Field {
	return []zap.Field{
		zap.String("action", string(l.Action)),
		zap.String("entity_type", string(l.EntityType)),
		zap.String("entity_id", l.EntityID),
		zap.String("user_id", l.UserID.String()),
	}
}

var _ audit.Emitter = (*Outbox)(nil)
