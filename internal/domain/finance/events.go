package finance

import (
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventTypeExpenseDecided = "ExpenseDecided"

// ExpenseDecidedEvent is raised when an expense is approved or rejected
type ExpenseDecidedEvent struct {
	shared.BaseDomainEvent
	ExpenseID   uuid.UUID       `json:"expense_id"`
	ApartmentID uuid.UUID       `json:"apartment_id"`
	Status      ExpenseStatus   `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	DecidedBy   uuid.UUID       `json:"decided_by"`
}

// EventType returns the event type name
func (e *ExpenseDecidedEvent) EventType() string {
	return EventTypeExpenseDecided
}

// NewExpenseDecidedEvent creates a new ExpenseDecidedEvent
func NewExpenseDecidedEvent(e *Expense) *ExpenseDecidedEvent {
	var by uuid.UUID
	if e.ApprovedBy != nil {
		by = *e.ApprovedBy
	}
	return &ExpenseDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseDecided, "Expense", e.ID),
		ExpenseID:       e.ID,
		ApartmentID:     e.ApartmentID,
		Status:          e.Status,
		Amount:          e.Amount,
		Category:        e.Category,
		DecidedBy:       by,
	}
}
