package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryCleaning    ExpenseCategory = "cleaning"
	ExpenseCategoryElectricity ExpenseCategory = "electricity"
	ExpenseCategoryWater       ExpenseCategory = "water"
	ExpenseCategoryGas         ExpenseCategory = "gas"
	ExpenseCategoryElevator    ExpenseCategory = "elevator"
	ExpenseCategorySecurity    ExpenseCategory = "security"
	ExpenseCategoryInsurance   ExpenseCategory = "insurance"
	ExpenseCategoryGarden      ExpenseCategory = "garden"
	ExpenseCategoryRepair      ExpenseCategory = "repair"
	ExpenseCategoryManagement  ExpenseCategory = "management"
	ExpenseCategoryLegal       ExpenseCategory = "legal"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// AllExpenseCategories lists every category in display order
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryMaintenance, ExpenseCategoryCleaning, ExpenseCategoryElectricity,
		ExpenseCategoryWater, ExpenseCategoryGas, ExpenseCategoryElevator,
		ExpenseCategorySecurity, ExpenseCategoryInsurance, ExpenseCategoryGarden,
		ExpenseCategoryRepair, ExpenseCategoryManagement, ExpenseCategoryLegal,
		ExpenseCategoryOther,
	}
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	for _, known := range AllExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// DisplayName returns the Turkish label of the category
func (c ExpenseCategory) DisplayName() string {
	switch c {
	case ExpenseCategoryMaintenance:
		return "Bakım"
	case ExpenseCategoryCleaning:
		return "Temizlik"
	case ExpenseCategoryElectricity:
		return "Elektrik"
	case ExpenseCategoryWater:
		return "Su"
	case ExpenseCategoryGas:
		return "Doğalgaz"
	case ExpenseCategoryElevator:
		return "Asansör"
	case ExpenseCategorySecurity:
		return "Güvenlik"
	case ExpenseCategoryInsurance:
		return "Sigorta"
	case ExpenseCategoryGarden:
		return "Bahçe"
	case ExpenseCategoryRepair:
		return "Tamirat"
	case ExpenseCategoryManagement:
		return "Yönetim"
	case ExpenseCategoryLegal:
		return "Hukuk"
	default:
		return "Diğer"
	}
}

// ExpenseStatus represents the approval status of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsTerminal returns true for approved and rejected; there is no way back
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected
}

// CanApprove returns true if the expense can be approved or rejected
func (s ExpenseStatus) CanApprove() bool {
	return s == ExpenseStatusPending
}

// RecurringPeriod is how often a recurring expense repeats
type RecurringPeriod string

const (
	RecurringMonthly   RecurringPeriod = "monthly"
	RecurringQuarterly RecurringPeriod = "quarterly"
	RecurringYearly    RecurringPeriod = "yearly"
)

// IsValid checks if the recurring period is known
func (p RecurringPeriod) IsValid() bool {
	switch p {
	case RecurringMonthly, RecurringQuarterly, RecurringYearly:
		return true
	}
	return false
}

// Expense is money spent on behalf of an apartment complex.
// State machine: pending -> approved | rejected.
type Expense struct {
	shared.BaseAggregateRoot
	ApartmentID     uuid.UUID
	Category        ExpenseCategory
	Amount          decimal.Decimal
	Description     string
	Vendor          string
	InvoiceNumber   string
	ExpenseDate     time.Time
	IsRecurring     bool
	RecurringPeriod *RecurringPeriod
	Status          ExpenseStatus
	ApprovedBy      *uuid.UUID
	ApprovalDate    *time.Time
	RejectionReason string
	CreatedBy       uuid.UUID
}

// ExpenseDetails are the editable fields of an expense
type ExpenseDetails struct {
	Category        ExpenseCategory
	Amount          decimal.Decimal
	Description     string
	Vendor          string
	InvoiceNumber   string
	ExpenseDate     time.Time
	IsRecurring     bool
	RecurringPeriod *RecurringPeriod
}

func (d ExpenseDetails) validate() error {
	if !d.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if d.IsRecurring {
		if d.RecurringPeriod == nil || !d.RecurringPeriod.IsValid() {
			return shared.NewDomainError("INVALID_RECURRING_PERIOD", "Recurring expenses need a valid period")
		}
	}
	return nil
}

// NewExpense creates a pending expense
func NewExpense(apartmentID uuid.UUID, details ExpenseDetails, createdBy uuid.UUID) (*Expense, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	e := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       apartmentID,
		Status:            ExpenseStatusPending,
		CreatedBy:         createdBy,
	}
	e.apply(details)
	return e, nil
}

func (e *Expense) apply(d ExpenseDetails) {
	e.Category = d.Category
	e.Amount = d.Amount.Round(2)
	e.Description = strings.TrimSpace(d.Description)
	e.Vendor = strings.TrimSpace(d.Vendor)
	e.InvoiceNumber = strings.TrimSpace(d.InvoiceNumber)
	e.ExpenseDate = d.ExpenseDate
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now()
	}
	e.IsRecurring = d.IsRecurring
	e.RecurringPeriod = nil
	if d.IsRecurring {
		e.RecurringPeriod = d.RecurringPeriod
	}
}

// Update replaces the editable fields while the expense is pending
func (e *Expense) Update(details ExpenseDetails) error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update expense in %s status", e.Status))
	}
	if err := details.validate(); err != nil {
		return err
	}
	e.apply(details)
	e.Touch()
	return nil
}

// Approve approves the expense
func (e *Expense) Approve(approvedBy uuid.UUID) error {
	if !e.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedBy = &approvedBy
	e.ApprovalDate = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewExpenseDecidedEvent(e))
	return nil
}

// Reject rejects the expense
func (e *Expense) Reject(rejectedBy uuid.UUID, reason string) error {
	if !e.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Rejector user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.ApprovedBy = &rejectedBy
	e.ApprovalDate = &now
	e.RejectionReason = strings.TrimSpace(reason)
	e.UpdatedAt = now

	e.AddDomainEvent(NewExpenseDecidedEvent(e))
	return nil
}

// CanDelete returns true while the expense has not been decided
func (e *Expense) CanDelete() bool {
	return e.Status == ExpenseStatusPending
}
