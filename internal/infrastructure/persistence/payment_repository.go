package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM.
// There is no update path: payments are written once.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Payment, error) {
	var model models.PaymentModel
	if err := Query(ctx, r.db, &models.PaymentModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByReceiptNumber finds a payment by its receipt number
func (r *GormPaymentRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*dues.Payment, error) {
	var model models.PaymentModel
	if err := Query(ctx, r.db, &models.PaymentModel{}).Where("receipt_number = ?", receiptNumber).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByDue returns payments made against a due, oldest first
func (r *GormPaymentRepository) FindByDue(ctx context.Context, dueID uuid.UUID) ([]dues.Payment, error) {
	var rows []models.PaymentModel
	if err := Query(ctx, r.db, &models.PaymentModel{}).
		Where("due_id = ?", dueID).
		Order("payment_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	return toPayments(rows), nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter dues.PaymentFilter) ([]dues.Payment, error) {
	var rows []models.PaymentModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.PaymentModel{}), filter), filter.Filter, PaymentSortFields, "payment_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	return toPayments(rows), nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter dues.PaymentFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.PaymentModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return count, nil
}

// Create inserts a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *dues.Payment) error {
	if err := dbFor(ctx, r.db).Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// SumAmount sums payment amounts matching the filter
func (r *GormPaymentRepository) SumAmount(ctx context.Context, filter dues.PaymentFilter) (decimal.Decimal, error) {
	return sumColumn(r.applyFilter(Query(ctx, r.db, &models.PaymentModel{}), filter), "amount")
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter dues.PaymentFilter) *gorm.DB {
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.BlockID != nil {
		query = query.Where("block_id = ?", *filter.BlockID)
	}
	if filter.FlatID != nil {
		query = query.Where("flat_id = ?", *filter.FlatID)
	}
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.DueID != nil {
		query = query.Where("due_id = ?", *filter.DueID)
	}
	if filter.Method != nil {
		query = query.Where("payment_method = ?", *filter.Method)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}
	return searchAny(query, filter.Search, "receipt_number", "bank_reference", "description")
}

func toPayments(rows []models.PaymentModel) []dues.Payment {
	out := make([]dues.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
