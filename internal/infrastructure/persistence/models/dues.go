package models

import (
	"time"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueModel is the persistence model for the Due aggregate
type DueModel struct {
	AggregateModel
	ApartmentID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BlockID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	FlatID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_dues_flat_period,priority:1"`
	ResidentID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Month          int             `gorm:"not null;index:idx_dues_flat_period,priority:3"`
	Year           int             `gorm:"not null;index:idx_dues_flat_period,priority:2"`
	DueDate        time.Time       `gorm:"type:date;not null;index"`
	Status         dues.DueStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LateFee        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LateFeeApplied bool            `gorm:"not null;default:false"`
	Description    string          `gorm:"type:varchar(500)"`
	PaidAt         *time.Time
}

// TableName returns the table name for GORM
func (DueModel) TableName() string {
	return "dues"
}

// ToDomain converts the model to a domain Due
func (m *DueModel) ToDomain() *dues.Due {
	return &dues.Due{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		BlockID:           m.BlockID,
		FlatID:            m.FlatID,
		ResidentID:        m.ResidentID,
		Amount:            m.Amount,
		Month:             m.Month,
		Year:              m.Year,
		DueDate:           m.DueDate,
		Status:            m.Status,
		PaidAmount:        m.PaidAmount,
		LateFee:           m.LateFee,
		LateFeeApplied:    m.LateFeeApplied,
		Description:       m.Description,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain populates the model from a domain Due
func (m *DueModel) FromDomain(d *dues.Due) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.ApartmentID = d.ApartmentID
	m.BlockID = d.BlockID
	m.FlatID = d.FlatID
	m.ResidentID = d.ResidentID
	m.Amount = d.Amount
	m.Month = d.Month
	m.Year = d.Year
	m.DueDate = d.DueDate
	m.Status = d.Status
	m.PaidAmount = d.PaidAmount
	m.LateFee = d.LateFee
	m.LateFeeApplied = d.LateFeeApplied
	m.Description = d.Description
	m.PaidAt = d.PaidAt
}

// DueModelFromDomain creates a new model from a domain Due
func DueModelFromDomain(d *dues.Due) *DueModel {
	m := &DueModel{}
	m.FromDomain(d)
	return m
}

// PaymentModel is the persistence model for the Payment ledger entry.
// Rows are inserted once and never updated.
type PaymentModel struct {
	BaseModel
	DueID             uuid.UUID          `gorm:"type:uuid;not null;index"`
	ApartmentID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	BlockID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	FlatID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	ResidentID        *uuid.UUID         `gorm:"type:uuid;index"`
	Amount            decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	PaymentDate       time.Time          `gorm:"not null;index"`
	PaymentMethod     dues.PaymentMethod `gorm:"type:varchar(20);not null"`
	BankReference     string             `gorm:"type:varchar(100)"`
	ReceiptNumber     string             `gorm:"type:varchar(40);not null;uniqueIndex"`
	Description       string             `gorm:"type:varchar(500)"`
	InstallmentNumber *int
	TotalInstallments *int
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() *dues.Payment {
	return &dues.Payment{
		BaseEntity:        m.BaseModel.ToDomain(),
		DueID:             m.DueID,
		ApartmentID:       m.ApartmentID,
		BlockID:           m.BlockID,
		FlatID:            m.FlatID,
		ResidentID:        m.ResidentID,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate,
		PaymentMethod:     m.PaymentMethod,
		BankReference:     m.BankReference,
		ReceiptNumber:     m.ReceiptNumber,
		Description:       m.Description,
		InstallmentNumber: m.InstallmentNumber,
		TotalInstallments: m.TotalInstallments,
		CreatedBy:         m.CreatedBy,
	}
}

// PaymentModelFromDomain creates a new model from a domain Payment
func PaymentModelFromDomain(p *dues.Payment) *PaymentModel {
	m := &PaymentModel{
		DueID:             p.DueID,
		ApartmentID:       p.ApartmentID,
		BlockID:           p.BlockID,
		FlatID:            p.FlatID,
		ResidentID:        p.ResidentID,
		Amount:            p.Amount,
		PaymentDate:       p.PaymentDate,
		PaymentMethod:     p.PaymentMethod,
		BankReference:     p.BankReference,
		ReceiptNumber:     p.ReceiptNumber,
		Description:       p.Description,
		InstallmentNumber: p.InstallmentNumber,
		TotalInstallments: p.TotalInstallments,
		CreatedBy:         p.CreatedBy,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
