package dues

import (
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeDueCreated       = "DueCreated"
	EventTypeDuePaid          = "DuePaid"
	EventTypeDuePartiallyPaid = "DuePartiallyPaid"
	EventTypeDueBecameOverdue = "DueBecameOverdue"
	EventTypePaymentRecorded  = "PaymentRecorded"

	aggregateTypeDue     = "Due"
	aggregateTypePayment = "Payment"
)

// DueCreatedEvent is raised when a due is assessed against a flat
type DueCreatedEvent struct {
	shared.BaseDomainEvent
	DueID   uuid.UUID       `json:"due_id"`
	FlatID  uuid.UUID       `json:"flat_id"`
	Amount  decimal.Decimal `json:"amount"`
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	DueDate time.Time       `json:"due_date"`
}

// EventType returns the event type name
func (e *DueCreatedEvent) EventType() string {
	return EventTypeDueCreated
}

// NewDueCreatedEvent creates a new DueCreatedEvent
func NewDueCreatedEvent(d *Due) *DueCreatedEvent {
	return &DueCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDueCreated, aggregateTypeDue, d.ID),
		DueID:           d.ID,
		FlatID:          d.FlatID,
		Amount:          d.Amount,
		Month:           d.Month,
		Year:            d.Year,
		DueDate:         d.DueDate,
	}
}

// DuePaidEvent is raised when a due is fully covered
type DuePaidEvent struct {
	shared.BaseDomainEvent
	DueID      uuid.UUID       `json:"due_id"`
	FlatID     uuid.UUID       `json:"flat_id"`
	ResidentID *uuid.UUID      `json:"resident_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// EventType returns the event type name
func (e *DuePaidEvent) EventType() string {
	return EventTypeDuePaid
}

// NewDuePaidEvent creates a new DuePaidEvent
func NewDuePaidEvent(d *Due) *DuePaidEvent {
	return &DuePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDuePaid, aggregateTypeDue, d.ID),
		DueID:           d.ID,
		FlatID:          d.FlatID,
		ResidentID:      d.ResidentID,
		Total:           d.TotalAmount(),
		PaidAmount:      d.PaidAmount,
	}
}

// DuePartiallyPaidEvent is raised when a payment leaves a balance
type DuePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	DueID     uuid.UUID       `json:"due_id"`
	FlatID    uuid.UUID       `json:"flat_id"`
	Applied   decimal.Decimal `json:"applied"`
	Remaining decimal.Decimal `json:"remaining"`
}

// EventType returns the event type name
func (e *DuePartiallyPaidEvent) EventType() string {
	return EventTypeDuePartiallyPaid
}

// NewDuePartiallyPaidEvent creates a new DuePartiallyPaidEvent
func NewDuePartiallyPaidEvent(d *Due, applied decimal.Decimal) *DuePartiallyPaidEvent {
	return &DuePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDuePartiallyPaid, aggregateTypeDue, d.ID),
		DueID:           d.ID,
		FlatID:          d.FlatID,
		Applied:         applied,
		Remaining:       d.Remaining(),
	}
}

// DueBecameOverdueEvent is raised when the late-fee job moves a due to overdue
type DueBecameOverdueEvent struct {
	shared.BaseDomainEvent
	DueID          uuid.UUID       `json:"due_id"`
	ApartmentID    uuid.UUID       `json:"apartment_id"`
	FlatID         uuid.UUID       `json:"flat_id"`
	ResidentID     *uuid.UUID      `json:"resident_id,omitempty"`
	PreviousStatus DueStatus       `json:"previous_status"`
	Amount         decimal.Decimal `json:"amount"`
	LateFee        decimal.Decimal `json:"late_fee"`
	DaysLate       int             `json:"days_late"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
}

// EventType returns the event type name
func (e *DueBecameOverdueEvent) EventType() string {
	return EventTypeDueBecameOverdue
}

// NewDueBecameOverdueEvent creates a new DueBecameOverdueEvent
func NewDueBecameOverdueEvent(d *Due, previous DueStatus, daysLate int) *DueBecameOverdueEvent {
	return &DueBecameOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDueBecameOverdue, aggregateTypeDue, d.ID),
		DueID:           d.ID,
		ApartmentID:     d.ApartmentID,
		FlatID:          d.FlatID,
		ResidentID:      d.ResidentID,
		PreviousStatus:  previous,
		Amount:          d.Amount,
		LateFee:         d.LateFee,
		DaysLate:        daysLate,
		Month:           d.Month,
		Year:            d.Year,
	}
}

// PaymentRecordedEvent is raised after a payment and its due update are persisted
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	DueID         uuid.UUID       `json:"due_id"`
	FlatID        uuid.UUID       `json:"flat_id"`
	ResidentID    *uuid.UUID      `json:"resident_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
	DueStatus     DueStatus       `json:"due_status"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment, d *Due) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, aggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		DueID:           d.ID,
		FlatID:          p.FlatID,
		ResidentID:      p.ResidentID,
		Amount:          p.Amount,
		ReceiptNumber:   p.ReceiptNumber,
		DueStatus:       d.Status,
	}
}
