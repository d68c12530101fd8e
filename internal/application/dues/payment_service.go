package dues

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService reconciles payments against dues
type PaymentService struct {
	dueRepo     dues.DueRepository
	paymentRepo dues.PaymentRepository
	tx          TxRunner
	receipts    *dues.ReceiptNumberGenerator
	audit       audit.Emitter
	events      shared.EventPublisher
	cache       CacheInvalidator
	metrics     Metrics
	cfg         config.DuesConfig
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	dueRepo dues.DueRepository,
	paymentRepo dues.PaymentRepository,
	tx TxRunner,
	auditEmitter audit.Emitter,
	events shared.EventPublisher,
	cfg config.DuesConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		dueRepo:     dueRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		receipts:    dues.NewReceiptNumberGenerator(),
		audit:       auditEmitter,
		events:      events,
		cache:       noopInvalidator{},
		metrics:     noopMetrics{},
		cfg:         cfg,
		logger:      logger,
	}
}

// SetCacheInvalidator wires the report cache
func (s *PaymentService) SetCacheInvalidator(c CacheInvalidator) {
	if c != nil {
		s.cache = c
	}
}

// SetMetrics wires the dues counters
func (s *PaymentService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// RecordPayment inserts a payment and applies it to its due in one transaction.
// A concurrent write to the due aborts both with CONCURRENCY_CONFLICT.
func (s *PaymentService) RecordPayment(ctx context.Context, session shared.Session, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	details := dues.PaymentDetails{
		Amount:        req.Amount,
		Method:        dues.PaymentMethod(req.PaymentMethod),
		BankReference: req.BankReference,
		Description:   req.Description,
	}
	if req.PaymentDate != nil {
		details.PaymentDate = *req.PaymentDate
	}
	if req.InstallmentNumber != nil || req.TotalInstallments != nil {
		if req.InstallmentNumber == nil || req.TotalInstallments == nil {
			return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Installment number and total must be given together")
		}
		details.Installment = &dues.Installment{Number: *req.InstallmentNumber, Total: *req.TotalInstallments}
	}

	var (
		due     *dues.Due
		payment *dues.Payment
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		due, err = s.dueRepo.FindByID(ctx, req.DueID)
		if err != nil {
			return err
		}
		if due == nil {
			return shared.NewDomainError("NOT_FOUND", "Due not found")
		}
		if s.cfg.RejectOverpayment && details.Amount.GreaterThan(due.Remaining()) {
			return shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("Payment of %s exceeds the remaining balance of %s",
					details.Amount.StringFixed(2), due.Remaining().StringFixed(2)))
		}

		payment, err = dues.NewPayment(due, details, s.receipts.Next(), session.UserID)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := due.ApplyPayment(payment.Amount); err != nil {
			return err
		}
		return s.dueRepo.SaveWithLock(ctx, due)
	})
	if err != nil {
		if due != nil {
			due.ClearDomainEvents()
		}
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("due_id", due.ID.String()),
		zap.String("receipt_number", payment.ReceiptNumber),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("due_status", due.Status.String()),
	)

	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityPayment, payment.ID.String(),
		fmt.Sprintf("Ödeme alındı: %s TL, makbuz %s", payment.Amount.StringFixed(2), payment.ReceiptNumber)).
		WithValues(nil, toPaymentResponse(payment)))
	publishEvents(ctx, s.events, s.logger,
		[]shared.DomainEvent{dues.NewPaymentRecordedEvent(payment, due)}, due)
	s.cache.Invalidate(ctx)
	s.metrics.PaymentRecorded(ctx, string(payment.PaymentMethod), payment.Amount)

	return &RecordPaymentResponse{
		Payment: toPaymentResponse(payment),
		Due:     toDueResponse(due),
	}, nil
}

// settleRemaining records a payment for whatever the due still owes
func (s *PaymentService) settleRemaining(ctx context.Context, session shared.Session, due *dues.Due) (*RecordPaymentResponse, error) {
	return s.RecordPayment(ctx, session, RecordPaymentRequest{
		DueID:         due.ID,
		Amount:        due.Remaining(),
		PaymentMethod: dues.PaymentMethodOther.String(),
		Description:   "marked as paid",
	})
}

// GetPayment returns a payment by id
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

// GetByReceiptNumber looks a payment up by its receipt number
func (s *PaymentService) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	resp := toPaymentResponse(p)
	return &resp, nil
}

// ListByDue returns the payments made against a due, oldest first
func (s *PaymentService) ListByDue(ctx context.Context, dueID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.dueRepo.FindByID(ctx, dueID); err != nil {
		return nil, err
	}
	items, err := s.paymentRepo.FindByDue(ctx, dueID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(items), nil
}

// ListPayments lists payments with filtering
func (s *PaymentService) ListPayments(ctx context.Context, filter PaymentListFilter) (shared.Paginated[PaymentResponse], error) {
	domainFilter := dues.PaymentFilter{
		Filter:      shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		ApartmentID: filter.ApartmentID,
		BlockID:     filter.BlockID,
		FlatID:      filter.FlatID,
		ResidentID:  filter.ResidentID,
		DueID:       filter.DueID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	}
	if filter.OrderBy == "" {
		domainFilter.OrderBy = "payment_date"
	}
	if filter.PaymentMethod != "" {
		method := dues.PaymentMethod(filter.PaymentMethod)
		if !method.IsValid() {
			return shared.Paginated[PaymentResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown payment method")
		}
		domainFilter.Method = &method
	}

	items, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	return shared.NewPaginated(toPaymentResponses(items), total, domainFilter.Page, domainFilter.PageSize), nil
}
