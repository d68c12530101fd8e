package dues

import (
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueStatus represents the status of a monthly due
type DueStatus string

const (
	DueStatusPending DueStatus = "pending"
	DueStatusPartial DueStatus = "partial"
	DueStatusPaid    DueStatus = "paid"
	DueStatusOverdue DueStatus = "overdue"
)

// IsValid checks if the status is a valid DueStatus
func (s DueStatus) IsValid() bool {
	switch s {
	case DueStatusPending, DueStatusPartial, DueStatusPaid, DueStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of DueStatus
func (s DueStatus) String() string {
	return string(s)
}

// CanAccrueLateFee returns true for statuses scanned by the late-fee job
func (s DueStatus) CanAccrueLateFee() bool {
	return s == DueStatusPending || s == DueStatusPartial
}

// IsOpen returns true while money is still owed
func (s DueStatus) IsOpen() bool {
	return s != DueStatusPaid
}

// OpenStatuses are the statuses selected by the late-fee scan
func OpenStatuses() []DueStatus {
	return []DueStatus{DueStatusPending, DueStatusPartial}
}

// FlatRef locates the flat a due is assessed against
type FlatRef struct {
	ApartmentID uuid.UUID
	BlockID     uuid.UUID
	FlatID      uuid.UUID
	ResidentID  *uuid.UUID
}

// Validate checks the reference carries the mandatory ids
func (r FlatRef) Validate() error {
	if r.ApartmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if r.BlockID == uuid.Nil {
		return shared.NewDomainError("INVALID_BLOCK", "Block ID cannot be empty")
	}
	if r.FlatID == uuid.Nil {
		return shared.NewDomainError("INVALID_FLAT", "Flat ID cannot be empty")
	}
	return nil
}

// Due is a monthly maintenance fee obligation assessed against a flat.
// Dues are never deleted, only status-transitioned.
type Due struct {
	shared.BaseAggregateRoot
	ApartmentID    uuid.UUID
	BlockID        uuid.UUID
	FlatID         uuid.UUID
	ResidentID     *uuid.UUID
	Amount         decimal.Decimal
	Month          int
	Year           int
	DueDate        time.Time
	Status         DueStatus
	PaidAmount     decimal.Decimal
	LateFee        decimal.Decimal
	LateFeeApplied bool
	Description    string
	PaidAt         *time.Time
}

// NewDue creates a pending due with nothing paid and no late fee
func NewDue(ref FlatRef, amount decimal.Decimal, period valueobject.Period, dueDay int, description string) (*Due, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Due amount must be positive")
	}
	dueDate, err := period.DueDate(dueDay)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", err.Error())
	}
	if description == "" {
		description = period.DefaultDescription()
	}

	d := &Due{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       ref.ApartmentID,
		BlockID:           ref.BlockID,
		FlatID:            ref.FlatID,
		ResidentID:        ref.ResidentID,
		Amount:            amount,
		Month:             period.Month(),
		Year:              period.Year(),
		DueDate:           dueDate,
		Status:            DueStatusPending,
		PaidAmount:        decimal.Zero,
		LateFee:           decimal.Zero,
		LateFeeApplied:    false,
		Description:       description,
	}

	d.AddDomainEvent(NewDueCreatedEvent(d))

	return d, nil
}

// TotalAmount returns amount + lateFee
func (d *Due) TotalAmount() decimal.Decimal {
	return d.Amount.Add(d.LateFee)
}

// Remaining returns the balance still owed, never negative
func (d *Due) Remaining() decimal.Decimal {
	r := d.TotalAmount().Sub(d.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Credit returns the surplus paid beyond amount + lateFee
func (d *Due) Credit() decimal.Decimal {
	c := d.PaidAmount.Sub(d.TotalAmount())
	if c.IsNegative() {
		return decimal.Zero
	}
	return c
}

// Period returns the billing period of the due
func (d *Due) Period() valueobject.Period {
	p, _ := valueobject.NewPeriod(d.Month, d.Year)
	return p
}

// ApplyPayment adds a payment to the paid amount and derives the new status.
// Overdue collapses to partial as soon as any payment lands.
func (d *Due) ApplyPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	d.PaidAmount = d.PaidAmount.Add(amount)
	if d.PaidAmount.GreaterThanOrEqual(d.TotalAmount()) {
		now := time.Now()
		d.Status = DueStatusPaid
		d.PaidAt = &now
		d.AddDomainEvent(NewDuePaidEvent(d))
	} else {
		d.Status = DueStatusPartial
		d.AddDomainEvent(NewDuePartiallyPaidEvent(d, amount))
	}

	d.Touch()
	return nil
}

// ApplyLateFee recomputes the late fee against now and moves the due to overdue.
// Only pending and partial dues whose due date is at least one calendar day
// in the past are touched. The fee overwrites any previous value.
func (d *Due) ApplyLateFee(now time.Time, policy LateFeePolicy) (bool, error) {
	if !d.Status.CanAccrueLateFee() {
		return false, nil
	}
	daysLate := valueobject.DaysBetween(d.DueDate, now)
	if daysLate <= 0 {
		return false, nil
	}

	previous := d.Status
	d.LateFee = policy.Calculate(d.Amount, daysLate)
	d.LateFeeApplied = true
	d.Status = DueStatusOverdue
	d.Touch()

	d.AddDomainEvent(NewDueBecameOverdueEvent(d, previous, daysLate))
	return true, nil
}

// MarkPaid closes a due whose paid amount already covers amount + lateFee
func (d *Due) MarkPaid() error {
	if d.PaidAmount.LessThan(d.TotalAmount()) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Due still owes %s", d.Remaining().StringFixed(2)))
	}
	if d.Status == DueStatusPaid {
		return nil
	}
	now := time.Now()
	d.Status = DueStatusPaid
	d.PaidAt = &now
	d.Touch()
	d.AddDomainEvent(NewDuePaidEvent(d))
	return nil
}

// UpdateDescription changes the free text label
func (d *Due) UpdateDescription(description string) {
	d.Description = description
	d.Touch()
}
