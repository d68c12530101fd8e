package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies a notification
type Type string

const (
	TypeOverdue  Type = "overdue"
	TypeReminder Type = "reminder"
	TypePayment  Type = "payment"
	TypeSystem   Type = "system"
	TypeAlert    Type = "alert"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeOverdue, TypeReminder, TypePayment, TypeSystem, TypeAlert:
		return true
	}
	return false
}

// Notification is an in-app message for admins.
// A nil UserID means every admin sees it.
type Notification struct {
	shared.BaseEntity
	UserID            *uuid.UUID
	Type              Type
	Title             string
	Message           string
	IsRead            bool
	ReadAt            *time.Time
	Link              string
	RelatedEntityType string
	RelatedEntityID   *uuid.UUID
}

// New creates an unread notification
func New(userID *uuid.UUID, notificationType Type, title, message string) (*Notification, error) {
	if !notificationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Notification type is not valid")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       notificationType,
		Title:      title,
		Message:    strings.TrimSpace(message),
	}, nil
}

// RelatedTo links the notification to an entity
func (n *Notification) RelatedTo(entityType string, id uuid.UUID, link string) *Notification {
	n.RelatedEntityType = entityType
	n.RelatedEntityID = &id
	n.Link = link
	return n
}

// MarkRead marks the notification as read; repeated calls keep the first timestamp
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
}

// OverdueAlert builds the message raised when a due becomes overdue
func OverdueAlert(dueID uuid.UUID, flatLabel string, amount, lateFee decimal.Decimal, daysLate int) *Notification {
	n, _ := New(nil, TypeOverdue, "Gecikmiş aidat",
		fmt.Sprintf("%s için %s TL aidat %d gün gecikti, gecikme bedeli %s TL.",
			flatLabel, amount.StringFixed(2), daysLate, lateFee.StringFixed(2)))
	return n.RelatedTo("due", dueID, "/dues/"+dueID.String())
}

// PaymentConfirmation builds the message raised when a payment is recorded
func PaymentConfirmation(paymentID uuid.UUID, flatLabel string, amount decimal.Decimal, receiptNumber string) *Notification {
	n, _ := New(nil, TypePayment, "Ödeme alındı",
		fmt.Sprintf("%s için %s TL ödeme alındı. Makbuz no: %s", flatLabel, amount.StringFixed(2), receiptNumber))
	return n.RelatedTo("payment", paymentID, "/payments/"+paymentID.String())
}

// MonthlyReminder builds the reminder sent before dues of a month fall due
func MonthlyReminder(month, year int, openCount int64) *Notification {
	n, _ := New(nil, TypeReminder, "Aylık aidat hatırlatması",
		fmt.Sprintf("%02d/%d dönemi için %d açık aidat bulunuyor.", month, year, openCount))
	return n
}

// Filter defines filtering options for notification queries
type Filter struct {
	shared.Filter
	UserID *uuid.UUID
	Type   *Type
	IsRead *bool
}

// Repository defines the interface for notification persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindForUser returns notifications addressed to the user or to everyone
	FindForUser(ctx context.Context, filter Filter) ([]Notification, error)
	CountForUser(ctx context.Context, filter Filter) (int64, error)

	Save(ctx context.Context, n *Notification) error

	// MarkAllRead marks every unread notification visible to the user as read
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
