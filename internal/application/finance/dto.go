package finance

import (
	"time"

	"github.com/aidat/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	ApartmentID     uuid.UUID       `json:"apartment_id"`
	Category        string          `json:"category"`
	CategoryName    string          `json:"category_name"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Vendor          string          `json:"vendor,omitempty"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	ExpenseDate     time.Time       `json:"expense_date"`
	IsRecurring     bool            `json:"is_recurring"`
	RecurringPeriod *string         `json:"recurring_period,omitempty"`
	Status          string          `json:"status"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ExpenseRequest is used to create or update an expense
type ExpenseRequest struct {
	ApartmentID     uuid.UUID       `json:"apartment_id" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"required,max=500"`
	Vendor          string          `json:"vendor" binding:"max=200"`
	InvoiceNumber   string          `json:"invoice_number" binding:"max=100"`
	ExpenseDate     *time.Time      `json:"expense_date"`
	IsRecurring     bool            `json:"is_recurring"`
	RecurringPeriod string          `json:"recurring_period" binding:"omitempty,oneof=monthly quarterly yearly"`
}

// RejectExpenseRequest carries the optional rejection reason
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ExpenseListFilter defines filtering options for expense list queries
type ExpenseListFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	Category    string     `form:"category"`
	Status      string     `form:"status"`
	FromDate    *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate      *time.Time `form:"to_date" time_format:"2006-01-02"`
	IsRecurring *bool      `form:"is_recurring"`
	Search      string     `form:"search"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,max=100"`
}

// IncomeResponse represents a non-dues income in API responses
type IncomeResponse struct {
	ID           uuid.UUID       `json:"id"`
	ApartmentID  uuid.UUID       `json:"apartment_id"`
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	IncomeDate   time.Time       `json:"income_date"`
	Payer        string          `json:"payer,omitempty"`
	CreatedBy    uuid.UUID       `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IncomeRequest is used to create or update an income
type IncomeRequest struct {
	ApartmentID uuid.UUID       `json:"apartment_id" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
	IncomeDate  *time.Time      `json:"income_date"`
	Payer       string          `json:"payer" binding:"max=200"`
}

// IncomeListFilter defines filtering options for income list queries
type IncomeListFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	Category    string     `form:"category"`
	FromDate    *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate      *time.Time `form:"to_date" time_format:"2006-01-02"`
	Search      string     `form:"search"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,max=100"`
}

func (r ExpenseRequest) details() finance.ExpenseDetails {
	d := finance.ExpenseDetails{
		Category:      finance.ExpenseCategory(r.Category),
		Amount:        r.Amount,
		Description:   r.Description,
		Vendor:        r.Vendor,
		InvoiceNumber: r.InvoiceNumber,
		IsRecurring:   r.IsRecurring,
	}
	if r.ExpenseDate != nil {
		d.ExpenseDate = *r.ExpenseDate
	}
	if r.RecurringPeriod != "" {
		p := finance.RecurringPeriod(r.RecurringPeriod)
		d.RecurringPeriod = &p
	}
	return d
}

func (r IncomeRequest) details() finance.IncomeDetails {
	d := finance.IncomeDetails{
		Category:    finance.IncomeCategory(r.Category),
		Amount:      r.Amount,
		Description: r.Description,
		Payer:       r.Payer,
	}
	if r.IncomeDate != nil {
		d.IncomeDate = *r.IncomeDate
	}
	return d
}

func toExpenseResponse(e *finance.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:              e.ID,
		ApartmentID:     e.ApartmentID,
		Category:        string(e.Category),
		CategoryName:    e.Category.DisplayName(),
		Amount:          e.Amount,
		Description:     e.Description,
		Vendor:          e.Vendor,
		InvoiceNumber:   e.InvoiceNumber,
		ExpenseDate:     e.ExpenseDate,
		IsRecurring:     e.IsRecurring,
		Status:          string(e.Status),
		ApprovedBy:      e.ApprovedBy,
		ApprovalDate:    e.ApprovalDate,
		RejectionReason: e.RejectionReason,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		Version:         e.Version,
	}
	if e.RecurringPeriod != nil {
		p := string(*e.RecurringPeriod)
		resp.RecurringPeriod = &p
	}
	return resp
}

func toIncomeResponse(i *finance.Income) IncomeResponse {
	return IncomeResponse{
		ID:           i.ID,
		ApartmentID:  i.ApartmentID,
		Category:     string(i.Category),
		CategoryName: i.Category.DisplayName(),
		Amount:       i.Amount,
		Description:  i.Description,
		IncomeDate:   i.IncomeDate,
		Payer:        i.Payer,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
