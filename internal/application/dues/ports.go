package dues

import (
	"context"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TxRunner runs fn inside one database transaction
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator drops cached report data after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

// Metrics counts dues engine activity
type Metrics interface {
	DuesCreated(ctx context.Context, n int)
	PaymentRecorded(ctx context.Context, method string, amount decimal.Decimal)
	LateFeesApplied(ctx context.Context, n int)
}

type noopMetrics struct{}

func (noopMetrics) DuesCreated(context.Context, int)                         {}
func (noopMetrics) PaymentRecorded(context.Context, string, decimal.Decimal) {}
func (noopMetrics) LateFeesApplied(context.Context, int)                     {}

// aggregate is anything that buffers domain events until persisted
type aggregate interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents drains the aggregate's events onto the bus.
// Publish failures are logged; the write has already happened.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, extra []shared.DomainEvent, aggs ...aggregate) {
	events := append([]shared.DomainEvent(nil), extra...)
	for _, a := range aggs {
		events = append(events, a.GetDomainEvents()...)
		a.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, log).Warn("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
