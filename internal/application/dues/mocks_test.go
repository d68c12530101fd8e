package dues

import (
	"context"
	"sync"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDueRepository is a mock implementation of dues.DueRepository
type MockDueRepository struct {
	mock.Mock
}

func (m *MockDueRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Due, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.Due), args.Error(1)
}

func (m *MockDueRepository) FindAll(ctx context.Context, filter dues.DueFilter) ([]dues.Due, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dues.Due), args.Error(1)
}

func (m *MockDueRepository) Count(ctx context.Context, filter dues.DueFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDueRepository) FindByStatuses(ctx context.Context, statuses []dues.DueStatus) ([]dues.Due, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]dues.Due), args.Error(1)
}

func (m *MockDueRepository) ExistsForPeriod(ctx context.Context, flatID uuid.UUID, month, year int) (bool, error) {
	args := m.Called(ctx, flatID, month, year)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) FlatsWithDueForPeriod(ctx context.Context, flatIDs []uuid.UUID, month, year int) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, flatIDs, month, year)
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockDueRepository) Save(ctx context.Context, due *dues.Due) error {
	args := m.Called(ctx, due)
	return args.Error(0)
}

func (m *MockDueRepository) SaveWithLock(ctx context.Context, due *dues.Due) error {
	args := m.Called(ctx, due)
	return args.Error(0)
}

func (m *MockDueRepository) CreateBatch(ctx context.Context, items []*dues.Due, batchSize int) error {
	args := m.Called(ctx, items, batchSize)
	return args.Error(0)
}

func (m *MockDueRepository) SumOverdue(ctx context.Context, apartmentID *uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentRepository is a mock implementation of dues.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*dues.Payment, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByDue(ctx context.Context, dueID uuid.UUID) ([]dues.Payment, error) {
	args := m.Called(ctx, dueID)
	return args.Get(0).([]dues.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter dues.PaymentFilter) ([]dues.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]dues.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter dues.PaymentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *dues.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumAmount(ctx context.Context, filter dues.PaymentFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockFlatRepository is a mock implementation of residence.FlatRepository
type MockFlatRepository struct {
	mock.Mock
}

func (m *MockFlatRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Flat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) FindAll(ctx context.Context, filter residence.FlatFilter) ([]residence.Flat, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) Count(ctx context.Context, filter residence.FlatFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlatRepository) FindByBlock(ctx context.Context, blockID uuid.UUID) ([]residence.Flat, error) {
	args := m.Called(ctx, blockID)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Flat, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) Save(ctx context.Context, flat *residence.Flat) error {
	args := m.Called(ctx, flat)
	return args.Error(0)
}

func (m *MockFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBlockRepository is a mock implementation of residence.BlockRepository
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Block), args.Error(1)
}

func (m *MockBlockRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Block, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).([]residence.Block), args.Error(1)
}

func (m *MockBlockRepository) Save(ctx context.Context, block *residence.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingEmitter keeps every audit entry in memory
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

// recordingPublisher keeps every published event in memory
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

func (r *recordingPublisher) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// passthroughTx runs fn directly and reports whether it was used
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// recordingMetrics sums what the services report
type recordingMetrics struct {
	mu       sync.Mutex
	created  int
	payments int
	amount   decimal.Decimal
	lateFees int
}

func (r *recordingMetrics) DuesCreated(_ context.Context, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created += n
}

func (r *recordingMetrics) PaymentRecorded(_ context.Context, _ string, amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments++
	r.amount = r.amount.Add(amount)
}

func (r *recordingMetrics) LateFeesApplied(_ context.Context, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lateFees += n
}
