package finance

import (
	"context"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	ApartmentID *uuid.UUID
	Category    *ExpenseCategory
	Status      *ExpenseStatus
	FromDate    *time.Time
	ToDate      *time.Time
	IsRecurring *bool
}

// CategoryTotal is a per-category sum
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
	Save(ctx context.Context, expense *Expense) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, expense *Expense) error

	Delete(ctx context.Context, id uuid.UUID) error

	// SumAmount sums expense amounts matching the filter
	SumAmount(ctx context.Context, filter ExpenseFilter) (decimal.Decimal, error)

	// SumByCategory groups matching expenses by category
	SumByCategory(ctx context.Context, filter ExpenseFilter) ([]CategoryTotal, error)
}

// IncomeFilter defines filtering options for income queries
type IncomeFilter struct {
	shared.Filter
	ApartmentID *uuid.UUID
	Category    *IncomeCategory
	FromDate    *time.Time
	ToDate      *time.Time
}

// IncomeRepository defines the interface for income persistence
type IncomeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Income, error)
	FindAll(ctx context.Context, filter IncomeFilter) ([]Income, error)
	Count(ctx context.Context, filter IncomeFilter) (int64, error)
	Save(ctx context.Context, income *Income) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SumAmount sums income amounts matching the filter
	SumAmount(ctx context.Context, filter IncomeFilter) (decimal.Decimal, error)
}
