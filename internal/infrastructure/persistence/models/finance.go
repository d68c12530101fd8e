package models

import (
	"time"

	"github.com/aidat/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense aggregate
type ExpenseModel struct {
	AggregateModel
	ApartmentID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	Category        finance.ExpenseCategory  `gorm:"type:varchar(30);not null;index"`
	Amount          decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Description     string                   `gorm:"type:text"`
	Vendor          string                   `gorm:"type:varchar(200)"`
	InvoiceNumber   string                   `gorm:"type:varchar(100)"`
	ExpenseDate     time.Time                `gorm:"not null;index"`
	IsRecurring     bool                     `gorm:"not null;default:false"`
	RecurringPeriod *finance.RecurringPeriod `gorm:"type:varchar(20)"`
	Status          finance.ExpenseStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy      *uuid.UUID               `gorm:"type:uuid"`
	ApprovalDate    *time.Time
	RejectionReason string    `gorm:"type:varchar(500)"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		Category:          m.Category,
		Amount:            m.Amount,
		Description:       m.Description,
		Vendor:            m.Vendor,
		InvoiceNumber:     m.InvoiceNumber,
		ExpenseDate:       m.ExpenseDate,
		IsRecurring:       m.IsRecurring,
		RecurringPeriod:   m.RecurringPeriod,
		Status:            m.Status,
		ApprovedBy:        m.ApprovedBy,
		ApprovalDate:      m.ApprovalDate,
		RejectionReason:   m.RejectionReason,
		CreatedBy:         m.CreatedBy,
	}
}

// ExpenseModelFromDomain creates a new model from a domain Expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		ApartmentID:     e.ApartmentID,
		Category:        e.Category,
		Amount:          e.Amount,
		Description:     e.Description,
		Vendor:          e.Vendor,
		InvoiceNumber:   e.InvoiceNumber,
		ExpenseDate:     e.ExpenseDate,
		IsRecurring:     e.IsRecurring,
		RecurringPeriod: e.RecurringPeriod,
		Status:          e.Status,
		ApprovedBy:      e.ApprovedBy,
		ApprovalDate:    e.ApprovalDate,
		RejectionReason: e.RejectionReason,
		CreatedBy:       e.CreatedBy,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// IncomeModel is the persistence model for the Income aggregate
type IncomeModel struct {
	AggregateModel
	ApartmentID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Category    finance.IncomeCategory `gorm:"type:varchar(30);not null;index"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Description string                 `gorm:"type:text"`
	IncomeDate  time.Time              `gorm:"not null;index"`
	Payer       string                 `gorm:"type:varchar(200)"`
	CreatedBy   uuid.UUID              `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (IncomeModel) TableName() string {
	return "incomes"
}

// ToDomain converts the model to a domain Income
func (m *IncomeModel) ToDomain() *finance.Income {
	return &finance.Income{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		Category:          m.Category,
		Amount:            m.Amount,
		Description:       m.Description,
		IncomeDate:        m.IncomeDate,
		Payer:             m.Payer,
		CreatedBy:         m.CreatedBy,
	}
}

// IncomeModelFromDomain creates a new model from a domain Income
func IncomeModelFromDomain(i *finance.Income) *IncomeModel {
	m := &IncomeModel{
		ApartmentID: i.ApartmentID,
		Category:    i.Category,
		Amount:      i.Amount,
		Description: i.Description,
		IncomeDate:  i.IncomeDate,
		Payer:       i.Payer,
		CreatedBy:   i.CreatedBy,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
