package finance

import (
	"context"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseIncomeService handles expense approval and non-dues income records
type ExpenseIncomeService struct {
	expenseRepo   finance.ExpenseRepository
	incomeRepo    finance.IncomeRepository
	apartmentRepo residence.ApartmentRepository
	audit         audit.Emitter
	events        shared.EventPublisher
	cache         CacheInvalidator
	logger        *zap.Logger
}

// NewExpenseIncomeService creates a new ExpenseIncomeService
func NewExpenseIncomeService(
	expenseRepo finance.ExpenseRepository,
	incomeRepo finance.IncomeRepository,
	apartmentRepo residence.ApartmentRepository,
	auditEmitter audit.Emitter,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ExpenseIncomeService {
	return &ExpenseIncomeService{
		expenseRepo:   expenseRepo,
		incomeRepo:    incomeRepo,
		apartmentRepo: apartmentRepo,
		audit:         auditEmitter,
		events:        events,
		cache:         noopInvalidator{},
		logger:        logger,
	}
}

// SetCacheInvalidator wires the report cache
func (s *ExpenseIncomeService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// ===================== Expense Operations =====================

// CreateExpense records a pending expense
func (s *ExpenseIncomeService) CreateExpense(ctx context.Context, session shared.Session, req ExpenseRequest) (*ExpenseResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.apartmentRepo.FindByID(ctx, req.ApartmentID); err != nil {
		return nil, err
	}
	expense, err := finance.NewExpense(req.ApartmentID, req.details(), session.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	resp := toExpenseResponse(expense)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityExpense, expense.ID.String(),
		"Gider eklendi: "+expense.Description).WithValues(nil, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateExpense edits a pending expense
func (s *ExpenseIncomeService) UpdateExpense(ctx context.Context, session shared.Session, id uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ApartmentID != uuid.Nil && req.ApartmentID != expense.ApartmentID {
		return nil, shared.NewDomainError("INVALID_INPUT", "An expense cannot move to another apartment")
	}
	before := toExpenseResponse(expense)
	if err := expense.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}

	resp := toExpenseResponse(expense)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityExpense, id.String(),
		"Gider güncellendi: "+expense.Description).WithValues(before, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// ApproveExpense moves a pending expense to approved
func (s *ExpenseIncomeService) ApproveExpense(ctx context.Context, session shared.Session, id uuid.UUID) (*ExpenseResponse, error) {
	return s.decide(ctx, session, id, audit.ActionApprove, func(e *finance.Expense) error {
		return e.Approve(session.UserID)
	})
}

// RejectExpense moves a pending expense to rejected
func (s *ExpenseIncomeService) RejectExpense(ctx context.Context, session shared.Session, id uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	return s.decide(ctx, session, id, audit.ActionReject, func(e *finance.Expense) error {
		return e.Reject(session.UserID, req.Reason)
	})
}

func (s *ExpenseIncomeService) decide(ctx context.Context, session shared.Session, id uuid.UUID, action audit.Action, transition func(*finance.Expense) error) (*ExpenseResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toExpenseResponse(expense)
	if err := transition(expense); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		expense.ClearDomainEvents()
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("expense decided",
		zap.String("expense_id", id.String()),
		zap.String("status", string(expense.Status)),
		zap.String("amount", expense.Amount.StringFixed(2)),
	)
	resp := toExpenseResponse(expense)
	desc := "Gider onaylandı: "
	if action == audit.ActionReject {
		desc = "Gider reddedildi: "
	}
	s.audit.Emit(ctx, audit.NewEntry(session, action, audit.EntityExpense, id.String(),
		desc+expense.Description).WithValues(before, resp))
	s.publish(ctx, expense)
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// DeleteExpense soft deletes an expense that has not been decided
func (s *ExpenseIncomeService) DeleteExpense(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !expense.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only pending expenses can be deleted")
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityExpense, id.String(),
		"Gider silindi: "+expense.Description).WithValues(toExpenseResponse(expense), nil))
	s.cache.Invalidate(ctx)
	return nil
}

// GetExpense returns an expense by id
func (s *ExpenseIncomeService) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toExpenseResponse(expense)
	return &resp, nil
}

// ListExpenses lists expenses with filtering, newest expense date first
func (s *ExpenseIncomeService) ListExpenses(ctx context.Context, filter ExpenseListFilter) (shared.Paginated[ExpenseResponse], error) {
	f := finance.ExpenseFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
		IsRecurring: filter.IsRecurring,
	}
	if filter.OrderBy == "" {
		f.OrderBy = "expense_date"
	}
	if filter.Category != "" {
		c := finance.ExpenseCategory(filter.Category)
		if !c.IsValid() {
			return shared.Paginated[ExpenseResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown expense category")
		}
		f.Category = &c
	}
	if filter.Status != "" {
		st := finance.ExpenseStatus(filter.Status)
		if !st.IsValid() {
			return shared.Paginated[ExpenseResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown expense status")
		}
		f.Status = &st
	}

	items, err := s.expenseRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}
	total, err := s.expenseRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, toExpenseResponse), total, f.Page, f.PageSize), nil
}

func (s *ExpenseIncomeService) publish(ctx context.Context, expense *finance.Expense) {
	events := expense.GetDomainEvents()
	expense.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("failed to publish expense events", zap.Error(err))
	}
}

// ===================== Income Operations =====================

// CreateIncome records a non-dues income
func (s *ExpenseIncomeService) CreateIncome(ctx context.Context, session shared.Session, req IncomeRequest) (*IncomeResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.apartmentRepo.FindByID(ctx, req.ApartmentID); err != nil {
		return nil, err
	}
	income, err := finance.NewIncome(req.ApartmentID, req.details(), session.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.incomeRepo.Save(ctx, income); err != nil {
		return nil, err
	}

	resp := toIncomeResponse(income)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityIncome, income.ID.String(),
		"Gelir eklendi: "+income.Category.DisplayName()).WithValues(nil, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// UpdateIncome edits an income record
func (s *ExpenseIncomeService) UpdateIncome(ctx context.Context, session shared.Session, id uuid.UUID, req IncomeRequest) (*IncomeResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ApartmentID != uuid.Nil && req.ApartmentID != income.ApartmentID {
		return nil, shared.NewDomainError("INVALID_INPUT", "An income cannot move to another apartment")
	}
	before := toIncomeResponse(income)
	if err := income.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.incomeRepo.Save(ctx, income); err != nil {
		return nil, err
	}

	resp := toIncomeResponse(income)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionUpdate, audit.EntityIncome, id.String(),
		"Gelir güncellendi: "+income.Category.DisplayName()).WithValues(before, resp))
	s.cache.Invalidate(ctx)
	return &resp, nil
}

// DeleteIncome soft deletes an income record
func (s *ExpenseIncomeService) DeleteIncome(ctx context.Context, session shared.Session, id uuid.UUID) error {
	if err := session.Validate(); err != nil {
		return err
	}
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.incomeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionDelete, audit.EntityIncome, id.String(),
		"Gelir silindi: "+income.Category.DisplayName()).WithValues(toIncomeResponse(income), nil))
	s.cache.Invalidate(ctx)
	return nil
}

// GetIncome returns an income by id
func (s *ExpenseIncomeService) GetIncome(ctx context.Context, id uuid.UUID) (*IncomeResponse, error) {
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toIncomeResponse(income)
	return &resp, nil
}

// ListIncomes lists incomes filtered by apartment, category and date range
func (s *ExpenseIncomeService) ListIncomes(ctx context.Context, filter IncomeListFilter) (shared.Paginated[IncomeResponse], error) {
	f := finance.IncomeFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	}
	if filter.OrderBy == "" {
		f.OrderBy = "income_date"
	}
	if filter.Category != "" {
		c := finance.IncomeCategory(filter.Category)
		if !c.IsValid() {
			return shared.Paginated[IncomeResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown income category")
		}
		f.Category = &c
	}

	items, err := s.incomeRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[IncomeResponse]{}, err
	}
	total, err := s.incomeRepo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[IncomeResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(items, toIncomeResponse), total, f.Page, f.PageSize), nil
}
