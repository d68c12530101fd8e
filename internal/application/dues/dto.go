package dues

import (
	"time"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueResponse represents a due in API responses
type DueResponse struct {
	ID             uuid.UUID       `json:"id"`
	ApartmentID    uuid.UUID       `json:"apartment_id"`
	BlockID        uuid.UUID       `json:"block_id"`
	FlatID         uuid.UUID       `json:"flat_id"`
	ResidentID     *uuid.UUID      `json:"resident_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	DueDate        time.Time       `json:"due_date"`
	Status         string          `json:"status"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	LateFee        decimal.Decimal `json:"late_fee"`
	LateFeeApplied bool            `json:"late_fee_applied"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RemainingDebt  decimal.Decimal `json:"remaining_debt"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	Description    string          `json:"description"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// CreateDueRequest represents a request to assess a due against one flat
type CreateDueRequest struct {
	FlatID      uuid.UUID       `json:"flat_id" binding:"required"`
	ResidentID  *uuid.UUID      `json:"resident_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Month       int             `json:"month" binding:"required,min=1,max=12"`
	Year        int             `json:"year" binding:"required,min=2000,max=2100"`
	Description string          `json:"description" binding:"max=500"`
}

// BulkCreateDuesRequest assesses the same due against every flat in scope
type BulkCreateDuesRequest struct {
	ApartmentID uuid.UUID       `json:"apartment_id" binding:"required"`
	BlockID     *uuid.UUID      `json:"block_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Month       int             `json:"month" binding:"required,min=1,max=12"`
	Year        int             `json:"year" binding:"required,min=2000,max=2100"`
	Description string          `json:"description" binding:"max=500"`
}

// BulkCreateResult lists the dues created by a bulk run
type BulkCreateResult struct {
	DueIDs  []uuid.UUID `json:"due_ids"`
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
}

// UpdateDueRequest changes the free text of a due
type UpdateDueRequest struct {
	Description string `json:"description" binding:"required,max=500"`
}

// DueListFilter defines filtering options for due list queries
type DueListFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	BlockID     *uuid.UUID `form:"block_id"`
	FlatID      *uuid.UUID `form:"flat_id"`
	ResidentID  *uuid.UUID `form:"resident_id"`
	Status      string     `form:"status"`
	Month       *int       `form:"month" binding:"omitempty,min=1,max=12"`
	Year        *int       `form:"year"`
	Search      string     `form:"search"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,max=100"`
}

// LateFeeRunResponse reports a late-fee run
type LateFeeRunResponse struct {
	Updated int `json:"updated"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	DueID             uuid.UUID       `json:"due_id"`
	ApartmentID       uuid.UUID       `json:"apartment_id"`
	BlockID           uuid.UUID       `json:"block_id"`
	FlatID            uuid.UUID       `json:"flat_id"`
	ResidentID        *uuid.UUID      `json:"resident_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentDate       time.Time       `json:"payment_date"`
	PaymentMethod     string          `json:"payment_method"`
	BankReference     string          `json:"bank_reference,omitempty"`
	ReceiptNumber     string          `json:"receipt_number"`
	Description       string          `json:"description,omitempty"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	TotalInstallments *int            `json:"total_installments,omitempty"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

// RecordPaymentResponse carries the payment and the due after reconciliation
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Due     DueResponse     `json:"due"`
}

// RecordPaymentRequest represents a request to record a payment against a due
type RecordPaymentRequest struct {
	DueID             uuid.UUID       `json:"due_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate       *time.Time      `json:"payment_date"`
	PaymentMethod     string          `json:"payment_method" binding:"required,oneof=cash bank-transfer credit-card check other"`
	BankReference     string          `json:"bank_reference" binding:"max=100"`
	Description       string          `json:"description" binding:"max=500"`
	InstallmentNumber *int            `json:"installment_number" binding:"omitempty,min=1"`
	TotalInstallments *int            `json:"total_installments" binding:"omitempty,min=1"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	ApartmentID   *uuid.UUID `form:"apartment_id"`
	BlockID       *uuid.UUID `form:"block_id"`
	FlatID        *uuid.UUID `form:"flat_id"`
	ResidentID    *uuid.UUID `form:"resident_id"`
	DueID         *uuid.UUID `form:"due_id"`
	PaymentMethod string     `form:"payment_method"`
	FromDate      *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate        *time.Time `form:"to_date" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size" binding:"omitempty,max=100"`
}

func toDueResponse(d *dues.Due) DueResponse {
	return DueResponse{
		ID:             d.ID,
		ApartmentID:    d.ApartmentID,
		BlockID:        d.BlockID,
		FlatID:         d.FlatID,
		ResidentID:     d.ResidentID,
		Amount:         d.Amount,
		Month:          d.Month,
		Year:           d.Year,
		DueDate:        d.DueDate,
		Status:         d.Status.String(),
		PaidAmount:     d.PaidAmount,
		LateFee:        d.LateFee,
		LateFeeApplied: d.LateFeeApplied,
		TotalAmount:    d.TotalAmount(),
		RemainingDebt:  d.Remaining(),
		CreditAmount:   d.Credit(),
		Description:    d.Description,
		PaidAt:         d.PaidAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}
}

func toDueResponses(items []dues.Due) []DueResponse {
	out := make([]DueResponse, len(items))
	for i := range items {
		out[i] = toDueResponse(&items[i])
	}
	return out
}

func toPaymentResponse(p *dues.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		DueID:             p.DueID,
		ApartmentID:       p.ApartmentID,
		BlockID:           p.BlockID,
		FlatID:            p.FlatID,
		ResidentID:        p.ResidentID,
		Amount:            p.Amount,
		PaymentDate:       p.PaymentDate,
		PaymentMethod:     p.PaymentMethod.String(),
		BankReference:     p.BankReference,
		ReceiptNumber:     p.ReceiptNumber,
		Description:       p.Description,
		InstallmentNumber: p.InstallmentNumber,
		TotalInstallments: p.TotalInstallments,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
	}
}

func toPaymentResponses(items []dues.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(items))
	for i := range items {
		out[i] = toPaymentResponse(&items[i])
	}
	return out
}
