package finance

import (
	"context"
	"sync"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) SumAmount(ctx context.Context, filter finance.ExpenseFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, filter finance.ExpenseFilter) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}

// MockIncomeRepository is a mock implementation of finance.IncomeRepository
type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Income, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Income), args.Error(1)
}

func (m *MockIncomeRepository) FindAll(ctx context.Context, filter finance.IncomeFilter) ([]finance.Income, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Income), args.Error(1)
}

func (m *MockIncomeRepository) Count(ctx context.Context, filter finance.IncomeFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIncomeRepository) Save(ctx context.Context, income *finance.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIncomeRepository) SumAmount(ctx context.Context, filter finance.IncomeFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockApartmentRepository is a mock implementation of residence.ApartmentRepository
type MockApartmentRepository struct {
	mock.Mock
}

func (m *MockApartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Apartment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]residence.Apartment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]residence.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApartmentRepository) Save(ctx context.Context, apartment *residence.Apartment) error {
	args := m.Called(ctx, apartment)
	return args.Error(0)
}

func (m *MockApartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recordingEmitter struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingEmitter) Emit(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingEmitter) Entries() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (r *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingPublisher) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }
