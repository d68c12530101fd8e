package dues

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxBulkBatchSize caps a single insert so the bound parameters stay under driver limits
const MaxBulkBatchSize = 450

// DueService manages the lifecycle of monthly dues
type DueService struct {
	dueRepo   dues.DueRepository
	flatRepo  residence.FlatRepository
	blockRepo residence.BlockRepository
	payments  *PaymentService
	audit     audit.Emitter
	events    shared.EventPublisher
	cache     CacheInvalidator
	metrics   Metrics
	cfg       config.DuesConfig
	logger    *zap.Logger
}

// NewDueService creates a new DueService
func NewDueService(
	dueRepo dues.DueRepository,
	flatRepo residence.FlatRepository,
	blockRepo residence.BlockRepository,
	payments *PaymentService,
	auditEmitter audit.Emitter,
	events shared.EventPublisher,
	cfg config.DuesConfig,
	logger *zap.Logger,
) *DueService {
	return &DueService{
		dueRepo:   dueRepo,
		flatRepo:  flatRepo,
		blockRepo: blockRepo,
		payments:  payments,
		audit:     auditEmitter,
		events:    events,
		cache:     noopInvalidator{},
		metrics:   noopMetrics{},
		cfg:       cfg,
		logger:    logger,
	}
}

// SetCacheInvalidator wires the report cache
func (s *DueService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// SetMetrics wires the dues counters
func (s *DueService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

func (s *DueService) dueDay() int {
	if s.cfg.DueDay > 0 {
		return s.cfg.DueDay
	}
	return valueobject.DefaultDueDay
}

func (s *DueService) batchSize() int {
	if s.cfg.BulkBatchSize > 0 && s.cfg.BulkBatchSize < MaxBulkBatchSize {
		return s.cfg.BulkBatchSize
	}
	return MaxBulkBatchSize
}

func newPeriod(month, year int) (valueobject.Period, error) {
	p, err := valueobject.NewPeriod(month, year)
	if err != nil {
		return p, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return p, nil
}

// CreateDue assesses a single due against a flat
func (s *DueService) CreateDue(ctx context.Context, session shared.Session, req CreateDueRequest) (*DueResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	period, err := newPeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	flat, err := s.flatRepo.FindByID(ctx, req.FlatID)
	if err != nil {
		return nil, err
	}

	if s.cfg.EnforceUniquePeriod {
		exists, err := s.dueRepo.ExistsForPeriod(ctx, flat.ID, period.Month(), period.Year())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Flat %s already has a due for %s", flat.FlatNumber, period))
		}
	}

	residentID := req.ResidentID
	if residentID == nil {
		residentID = flat.BillableResident()
	}
	due, err := dues.NewDue(dues.FlatRef{
		ApartmentID: flat.ApartmentID,
		BlockID:     flat.BlockID,
		FlatID:      flat.ID,
		ResidentID:  residentID,
	}, req.Amount, period, s.dueDay(), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.dueRepo.Save(ctx, due); err != nil {
		return nil, err
	}

	resp := toDueResponse(due)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityDue, due.ID.String(),
		fmt.Sprintf("Aidat oluşturuldu: daire %s, %s", flat.FlatNumber, period)).
		WithValues(nil, resp))
	publishEvents(ctx, s.events, s.logger, nil, due)
	s.cache.Invalidate(ctx)
	s.metrics.DuesCreated(ctx, 1)

	return &resp, nil
}

// BulkCreateDues assesses one due per flat of an apartment or a single block.
// Inserts go out in chunks; a failing chunk leaves the earlier ones committed.
func (s *DueService) BulkCreateDues(ctx context.Context, session shared.Session, req BulkCreateDuesRequest) (*BulkCreateResult, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	period, err := newPeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}

	flats, err := s.flatsInScope(ctx, req.ApartmentID, req.BlockID)
	if err != nil {
		return nil, err
	}
	result := &BulkCreateResult{DueIDs: []uuid.UUID{}}
	if len(flats) == 0 {
		return result, nil
	}

	existing := map[uuid.UUID]bool{}
	if s.cfg.EnforceUniquePeriod {
		ids := make([]uuid.UUID, len(flats))
		for i := range flats {
			ids[i] = flats[i].ID
		}
		existing, err = s.dueRepo.FlatsWithDueForPeriod(ctx, ids, period.Month(), period.Year())
		if err != nil {
			return nil, err
		}
	}

	created := make([]*dues.Due, 0, len(flats))
	for i := range flats {
		flat := &flats[i]
		if existing[flat.ID] {
			result.Skipped++
			continue
		}
		due, err := dues.NewDue(dues.FlatRef{
			ApartmentID: flat.ApartmentID,
			BlockID:     flat.BlockID,
			FlatID:      flat.ID,
			ResidentID:  flat.BillableResident(),
		}, req.Amount, period, s.dueDay(), req.Description)
		if err != nil {
			return nil, err
		}
		created = append(created, due)
	}
	if len(created) == 0 {
		return result, nil
	}

	if err := s.dueRepo.CreateBatch(ctx, created, s.batchSize()); err != nil {
		logger.WithLogger(ctx, s.logger).Error("bulk due creation failed",
			zap.String("apartment_id", req.ApartmentID.String()),
			zap.String("period", period.String()),
			zap.Int("requested", len(created)),
			zap.Error(err),
		)
		return nil, err
	}

	for _, d := range created {
		result.DueIDs = append(result.DueIDs, d.ID)
	}
	result.Created = len(created)

	logger.WithLogger(ctx, s.logger).Info("bulk dues created",
		zap.String("apartment_id", req.ApartmentID.String()),
		zap.String("period", period.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)

	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityDue, audit.EntityIDBulk,
		fmt.Sprintf("Toplu aidat oluşturuldu: %d daire, %s", result.Created, period)).
		WithValues(nil, map[string]any{
			"apartment_id": req.ApartmentID,
			"block_id":     req.BlockID,
			"amount":       req.Amount,
			"month":        period.Month(),
			"year":         period.Year(),
			"count":        result.Created,
		}))
	aggs := make([]aggregate, len(created))
	for i, d := range created {
		aggs[i] = d
	}
	publishEvents(ctx, s.events, s.logger, nil, aggs...)
	s.cache.Invalidate(ctx)
	s.metrics.DuesCreated(ctx, result.Created)

	return result, nil
}

func (s *DueService) flatsInScope(ctx context.Context, apartmentID uuid.UUID, blockID *uuid.UUID) ([]residence.Flat, error) {
	if blockID == nil {
		return s.flatRepo.FindByApartment(ctx, apartmentID)
	}
	block, err := s.blockRepo.FindByID(ctx, *blockID)
	if err != nil {
		return nil, err
	}
	if block.ApartmentID != apartmentID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Block does not belong to the apartment")
	}
	return s.flatRepo.FindByBlock(ctx, block.ID)
}

// MarkAsPaid settles the remaining balance of a due.
// The balance is booked as a payment so the ledger still sums to paidAmount.
func (s *DueService) MarkAsPaid(ctx context.Context, session shared.Session, id uuid.UUID) (*DueResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	due, err := s.dueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if due.Status == dues.DueStatusPaid {
		resp := toDueResponse(due)
		return &resp, nil
	}

	if due.Remaining().IsPositive() {
		res, err := s.payments.settleRemaining(ctx, session, due)
		if err != nil {
			return nil, err
		}
		return &res.Due, nil
	}

	before := toDueResponse(due)
	if err := due.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.dueRepo.SaveWithLock(ctx, due); err != nil {
		due.ClearDomainEvents()
		return nil, err
	}

	resp := toDueResponse(due)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityDue, due.ID.String(),
		"Aidat ödendi olarak işaretlendi").WithValues(before, resp))
	publishEvents(ctx, s.events, s.logger, nil, due)
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateDue changes the description of a due
func (s *DueService) UpdateDue(ctx context.Context, session shared.Session, id uuid.UUID, req UpdateDueRequest) (*DueResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	due, err := s.dueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toDueResponse(due)
	due.UpdateDescription(req.Description)
	if err := s.dueRepo.SaveWithLock(ctx, due); err != nil {
		return nil, err
	}
	resp := toDueResponse(due)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityDue, due.ID.String(),
		"Aidat açıklaması güncellendi").WithValues(before, resp))
	return &resp, nil
}

// GetDue returns a due by id
func (s *DueService) GetDue(ctx context.Context, id uuid.UUID) (*DueResponse, error) {
	due, err := s.dueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toDueResponse(due)
	return &resp, nil
}

// ListDues lists dues with filtering
func (s *DueService) ListDues(ctx context.Context, filter DueListFilter) (shared.Paginated[DueResponse], error) {
	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	return s.list(ctx, domainFilter)
}

// ListOverdue lists overdue dues, oldest due date first by default
func (s *DueService) ListOverdue(ctx context.Context, filter DueListFilter) (shared.Paginated[DueResponse], error) {
	filter.Status = ""
	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	domainFilter.Statuses = []dues.DueStatus{dues.DueStatusOverdue}
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "due_date"
		domainFilter.OrderDir = "asc"
	}
	return s.list(ctx, domainFilter)
}

// FlatHistory lists every due assessed against a flat, newest period first
func (s *DueService) FlatHistory(ctx context.Context, flatID uuid.UUID, filter DueListFilter) (shared.Paginated[DueResponse], error) {
	if _, err := s.flatRepo.FindByID(ctx, flatID); err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	filter.FlatID = &flatID
	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "due_date"
	}
	return s.list(ctx, domainFilter)
}

func (s *DueService) list(ctx context.Context, filter dues.DueFilter) (shared.Paginated[DueResponse], error) {
	items, err := s.dueRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	total, err := s.dueRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[DueResponse]{}, err
	}
	return shared.NewPaginated(toDueResponses(items), total, filter.Page, filter.PageSize), nil
}

func (s *DueService) toDomainFilter(filter DueListFilter) (dues.DueFilter, error) {
	domainFilter := dues.DueFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		BlockID:     filter.BlockID,
		FlatID:      filter.FlatID,
		ResidentID:  filter.ResidentID,
		Month:       filter.Month,
		Year:        filter.Year,
	}
	if filter.Status != "" {
		status := dues.DueStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_INPUT", "Unknown due status")
		}
		domainFilter.Statuses = []dues.DueStatus{status}
	}
	return domainFilter, nil
}
