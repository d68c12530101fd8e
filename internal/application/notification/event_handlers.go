package notification

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/notification"
	"github.com/aidat/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OverdueAlertHandler handles DueBecameOverdueEvent
// and posts an overdue alert for every admin
type OverdueAlertHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewOverdueAlertHandler creates a new handler for overdue events
func NewOverdueAlertHandler(service *NotificationService, logger *zap.Logger) *OverdueAlertHandler {
	return &OverdueAlertHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OverdueAlertHandler) EventTypes() []string {
	return []string{dues.EventTypeDueBecameOverdue}
}

// Handle processes a DueBecameOverdueEvent
func (h *OverdueAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	overdue, ok := event.(*dues.DueBecameOverdueEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", dues.EventTypeDueBecameOverdue),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			dues.EventTypeDueBecameOverdue, event.EventType())
	}

	label := h.service.flatLabel(ctx, overdue.FlatID)
	n := notification.OverdueAlert(overdue.DueID, label, overdue.Amount, overdue.LateFee, overdue.DaysLate)
	if err := h.service.notify(ctx, n); err != nil {
		h.logger.Error("failed to create overdue alert",
			zap.String("due_id", overdue.DueID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("overdue alert created",
		zap.String("due_id", overdue.DueID.String()),
		zap.Int("days_late", overdue.DaysLate),
	)
	return nil
}

// PaymentConfirmationHandler handles PaymentRecordedEvent
// and posts a confirmation carrying the receipt number
type PaymentConfirmationHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewPaymentConfirmationHandler creates a new handler for payment events
func NewPaymentConfirmationHandler(service *NotificationService, logger *zap.Logger) *PaymentConfirmationHandler {
	return &PaymentConfirmationHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PaymentConfirmationHandler) EventTypes() []string {
	return []string{dues.EventTypePaymentRecorded}
}

// Handle processes a PaymentRecordedEvent
func (h *PaymentConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*dues.PaymentRecordedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", dues.EventTypePaymentRecorded),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			dues.EventTypePaymentRecorded, event.EventType())
	}

	label := h.service.flatLabel(ctx, recorded.FlatID)
	n := notification.PaymentConfirmation(recorded.PaymentID, label, recorded.Amount, recorded.ReceiptNumber)
	if err := h.service.notify(ctx, n); err != nil {
		h.logger.Error("failed to create payment confirmation",
			zap.String("payment_id", recorded.PaymentID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
