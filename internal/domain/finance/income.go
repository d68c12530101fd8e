package finance

import (
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeCategory represents the source of non-dues income
type IncomeCategory string

const (
	IncomeCategoryRent        IncomeCategory = "rent"
	IncomeCategoryParking     IncomeCategory = "parking"
	IncomeCategoryAdvertising IncomeCategory = "advertising"
	IncomeCategoryEvent       IncomeCategory = "event"
	IncomeCategoryInterest    IncomeCategory = "interest"
	IncomeCategoryOther       IncomeCategory = "other"
)

// IsValid checks if the category is a valid IncomeCategory
func (c IncomeCategory) IsValid() bool {
	switch c {
	case IncomeCategoryRent, IncomeCategoryParking, IncomeCategoryAdvertising,
		IncomeCategoryEvent, IncomeCategoryInterest, IncomeCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of IncomeCategory
func (c IncomeCategory) String() string {
	return string(c)
}

// DisplayName returns the Turkish label of the category
func (c IncomeCategory) DisplayName() string {
	switch c {
	case IncomeCategoryRent:
		return "Kira"
	case IncomeCategoryParking:
		return "Otopark"
	case IncomeCategoryAdvertising:
		return "Reklam"
	case IncomeCategoryEvent:
		return "Etkinlik"
	case IncomeCategoryInterest:
		return "Faiz"
	default:
		return "Diğer"
	}
}

// Income is money received outside of dues. It has no state machine.
type Income struct {
	shared.BaseAggregateRoot
	ApartmentID uuid.UUID
	Category    IncomeCategory
	Amount      decimal.Decimal
	Description string
	IncomeDate  time.Time
	Payer       string
	CreatedBy   uuid.UUID
}

// IncomeDetails are the editable fields of an income
type IncomeDetails struct {
	Category    IncomeCategory
	Amount      decimal.Decimal
	Description string
	IncomeDate  time.Time
	Payer       string
}

func (d IncomeDetails) validate() error {
	if !d.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Income category is not valid")
	}
	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Income amount must be positive")
	}
	return nil
}

// NewIncome creates an income record
func NewIncome(apartmentID uuid.UUID, details IncomeDetails, createdBy uuid.UUID) (*Income, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	i := &Income{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       apartmentID,
		CreatedBy:         createdBy,
	}
	i.apply(details)
	return i, nil
}

func (i *Income) apply(d IncomeDetails) {
	i.Category = d.Category
	i.Amount = d.Amount.Round(2)
	i.Description = strings.TrimSpace(d.Description)
	i.Payer = strings.TrimSpace(d.Payer)
	i.IncomeDate = d.IncomeDate
	if i.IncomeDate.IsZero() {
		i.IncomeDate = time.Now()
	}
}

// Update replaces the editable fields
func (i *Income) Update(details IncomeDetails) error {
	if err := details.validate(); err != nil {
		return err
	}
	i.apply(details)
	i.Touch()
	i.IncrementVersion()
	return nil
}
