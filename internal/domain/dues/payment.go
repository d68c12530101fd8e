package dues

import (
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a resident paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit-card"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard,
		PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Installment describes one installment of a split payment
type Installment struct {
	Number int
	Total  int
}

// Validate checks 1 <= Number <= Total
func (i Installment) Validate() error {
	if i.Total < 1 || i.Number < 1 || i.Number > i.Total {
		return shared.NewDomainError("INVALID_INSTALLMENT", "Installment number must be between 1 and total installments")
	}
	return nil
}

// Payment is an append-only ledger entry recorded against a due.
// The location ids are a snapshot of the due at the time of payment.
type Payment struct {
	shared.BaseEntity
	DueID             uuid.UUID
	ApartmentID       uuid.UUID
	BlockID           uuid.UUID
	FlatID            uuid.UUID
	ResidentID        *uuid.UUID
	Amount            decimal.Decimal
	PaymentDate       time.Time
	PaymentMethod     PaymentMethod
	BankReference     string
	ReceiptNumber     string
	Description       string
	InstallmentNumber *int
	TotalInstallments *int
	CreatedBy         uuid.UUID
}

// PaymentDetails are the caller supplied fields of a payment
type PaymentDetails struct {
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        PaymentMethod
	BankReference string
	Description   string
	Installment   *Installment
}

// NewPayment creates a payment snapshotting the due's location
func NewPayment(due *Due, details PaymentDetails, receiptNumber string, createdBy uuid.UUID) (*Payment, error) {
	if due == nil {
		return nil, shared.ErrNotFound
	}
	// amounts below one kuruş round to zero
	amount := details.Amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !details.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	paymentDate := details.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	p := &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		DueID:         due.ID,
		ApartmentID:   due.ApartmentID,
		BlockID:       due.BlockID,
		FlatID:        due.FlatID,
		ResidentID:    due.ResidentID,
		Amount:        amount,
		PaymentDate:   paymentDate,
		PaymentMethod: details.Method,
		BankReference: details.BankReference,
		ReceiptNumber: receiptNumber,
		Description:   details.Description,
		CreatedBy:     createdBy,
	}

	if details.Installment != nil {
		if err := details.Installment.Validate(); err != nil {
			return nil, err
		}
		n, t := details.Installment.Number, details.Installment.Total
		p.InstallmentNumber = &n
		p.TotalInstallments = &t
	}

	return p, nil
}
