package dues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LateFeeService accrues late fees on dues past their due date
type LateFeeService struct {
	dueRepo dues.DueRepository
	policy  dues.LateFeePolicy
	audit   audit.Emitter
	events  shared.EventPublisher
	cache   CacheInvalidator
	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewLateFeeService creates a new LateFeeService
func NewLateFeeService(
	dueRepo dues.DueRepository,
	auditEmitter audit.Emitter,
	events shared.EventPublisher,
	cfg config.DuesConfig,
	logger *zap.Logger,
) *LateFeeService {
	return &LateFeeService{
		dueRepo: dueRepo,
		policy:  dues.NewLateFeePolicy(cfg.LateFeeRate),
		audit:   auditEmitter,
		events:  events,
		cache:   noopInvalidator{},
		metrics: noopMetrics{},
		logger:  logger,
		now:     time.Now,
	}
}

// SetCacheInvalidator wires the report cache
func (s *LateFeeService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// SetMetrics wires the dues counters
func (s *LateFeeService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// ApplyLateFees scans pending and partial dues and moves every late one to overdue.
// Updates are sequential. A due changed by a payment after the scan is reloaded
// and retried once; any other store failure stops the run and the count so far
// is returned with the error. Overdue dues are not rescanned, so a rerun is safe.
func (s *LateFeeService) ApplyLateFees(ctx context.Context, session shared.Session) (int, error) {
	if err := session.Validate(); err != nil {
		return 0, err
	}
	now := s.now()
	log := logger.WithLogger(ctx, s.logger)

	candidates, err := s.dueRepo.FindByStatuses(ctx, dues.OpenStatuses())
	if err != nil {
		return 0, err
	}

	count := 0
	defer func() {
		if count == 0 {
			return
		}
		s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityDue, audit.EntityIDBatch,
			fmt.Sprintf("Gecikme faizi uygulandı: %d aidat", count)).
			WithValues(nil, map[string]any{"count": count, "rate": s.policy.Rate, "run_at": now}))
		s.cache.Invalidate(ctx)
		s.metrics.LateFeesApplied(ctx, count)
	}()

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		due := &candidates[i]
		applied, err := due.ApplyLateFee(now, s.policy)
		if err != nil {
			return count, err
		}
		if !applied {
			continue
		}
		err = s.dueRepo.SaveWithLock(ctx, due)
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			log.Warn("due changed during late fee run, reloading", zap.String("due_id", due.ID.String()))
			due, applied, err = s.retryStale(ctx, due, now)
			if err == nil && !applied {
				continue
			}
		}
		if err != nil {
			log.Error("late fee update failed",
				zap.String("due_id", due.ID.String()),
				zap.Int("updated_so_far", count),
				zap.Error(err),
			)
			return count, fmt.Errorf("apply late fee to due %s: %w", candidates[i].ID, err)
		}
		count++
		publishEvents(ctx, s.events, s.logger, nil, due)
	}

	log.Info("late fees applied",
		zap.Int("scanned", len(candidates)),
		zap.Int("updated", count),
	)
	return count, nil
}

// retryStale reloads a due that lost the version check and applies the fee to
// the fresh copy. A due that was deleted, settled or changed again is skipped.
func (s *LateFeeService) retryStale(ctx context.Context, stale *dues.Due, now time.Time) (*dues.Due, bool, error) {
	fresh, err := s.dueRepo.FindByID(ctx, stale.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return stale, false, nil
		}
		return stale, false, err
	}
	if fresh == nil {
		return stale, false, nil
	}
	applied, err := fresh.ApplyLateFee(now, s.policy)
	if err != nil || !applied {
		return fresh, false, err
	}
	err = s.dueRepo.SaveWithLock(ctx, fresh)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		logger.WithLogger(ctx, s.logger).Warn("due changed again, left for the next run",
			zap.String("due_id", stale.ID.String()))
		return fresh, false, nil
	}
	if err != nil {
		return fresh, false, err
	}
	return fresh, true, nil
}
