package dues

import (
	"context"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueFilter defines filtering options for due queries
type DueFilter struct {
	shared.Filter
	ApartmentID *uuid.UUID
	BlockID     *uuid.UUID
	FlatID      *uuid.UUID
	ResidentID  *uuid.UUID
	Statuses    []DueStatus
	Month       *int
	Year        *int
	DueFrom     *time.Time
	DueTo       *time.Time
}

// DueRepository defines the interface for due persistence
type DueRepository interface {
	// FindByID finds a due by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Due, error)

	// FindAll finds dues matching the filter
	FindAll(ctx context.Context, filter DueFilter) ([]Due, error)

	// Count counts dues matching the filter
	Count(ctx context.Context, filter DueFilter) (int64, error)

	// FindByStatuses returns every due in one of the given statuses, oldest due date first
	FindByStatuses(ctx context.Context, statuses []DueStatus) ([]Due, error)

	// ExistsForPeriod checks if a live due exists for a flat in a month
	ExistsForPeriod(ctx context.Context, flatID uuid.UUID, month, year int) (bool, error)

	// FlatsWithDueForPeriod returns the flats among flatIDs that already have a due for the month
	FlatsWithDueForPeriod(ctx context.Context, flatIDs []uuid.UUID, month, year int) (map[uuid.UUID]bool, error)

	// Save creates or updates a due
	Save(ctx context.Context, due *Due) error

	// SaveWithLock updates a due only if its stored version still matches
	SaveWithLock(ctx context.Context, due *Due) error

	// CreateBatch inserts dues in chunks of batchSize; earlier chunks stay committed on failure
	CreateBatch(ctx context.Context, dues []*Due, batchSize int) error

	// SumOverdue sums the outstanding balance (amount + late fee - paid) of overdue dues
	SumOverdue(ctx context.Context, apartmentID *uuid.UUID) (decimal.Decimal, error)
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	ApartmentID *uuid.UUID
	BlockID     *uuid.UUID
	FlatID      *uuid.UUID
	ResidentID  *uuid.UUID
	DueID       *uuid.UUID
	Method      *PaymentMethod
	FromDate    *time.Time
	ToDate      *time.Time
}

// PaymentRepository defines the interface for payment persistence.
// Payments are append-only: there is no update or delete.
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByReceiptNumber finds a payment by its receipt number
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*Payment, error)

	// FindByDue returns payments made against a due, oldest first
	FindByDue(ctx context.Context, dueID uuid.UUID) ([]Payment, error)

	// FindAll finds payments matching the filter
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// Create inserts a payment
	Create(ctx context.Context, payment *Payment) error

	// SumAmount sums payment amounts matching the filter
	SumAmount(ctx context.Context, filter PaymentFilter) (decimal.Decimal, error)
}
