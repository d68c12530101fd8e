package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := Query(ctx, r.db, &models.ExpenseModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	var rows []models.ExpenseModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.ExpenseModel{}), filter), filter.Filter, ExpenseSortFields, "expense_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	out := make([]finance.Expense, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.ExpenseModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return dbFor(ctx, r.db).Save(models.ExpenseModelFromDomain(expense)).Error
}

// SaveWithLock writes the expense only if the stored version still matches
func (r *GormExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.Expense) error {
	result := dbFor(ctx, r.db).
		Model(&models.ExpenseModel{}).
		Where("id = ? AND version = ? AND is_deleted = ?", expense.ID, expense.Version, false).
		Updates(map[string]any{
			"category":         expense.Category,
			"amount":           expense.Amount,
			"description":      expense.Description,
			"vendor":           expense.Vendor,
			"invoice_number":   expense.InvoiceNumber,
			"expense_date":     expense.ExpenseDate,
			"is_recurring":     expense.IsRecurring,
			"recurring_period": expense.RecurringPeriod,
			"status":           expense.Status,
			"approved_by":      expense.ApprovedBy,
			"approval_date":    expense.ApprovalDate,
			"rejection_reason": expense.RejectionReason,
			"version":          expense.Version + 1,
			"updated_at":       expense.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Expense was modified by another operation")
	}
	expense.IncrementVersion()
	return nil
}

// Delete soft-deletes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.ExpenseModel{}, id)
}

// SumAmount sums expense amounts matching the filter
func (r *GormExpenseRepository) SumAmount(ctx context.Context, filter finance.ExpenseFilter) (decimal.Decimal, error) {
	return sumColumn(r.applyFilter(Query(ctx, r.db, &models.ExpenseModel{}), filter), "amount")
}

// SumByCategory groups matching expenses by category, largest first
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, filter finance.ExpenseFilter) ([]finance.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	if err := r.applyFilter(Query(ctx, r.db, &models.ExpenseModel{}), filter).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}

	out := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		out[i] = finance.CategoryTotal{Category: row.Category, Total: row.Total}
	}
	return out, nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IsRecurring != nil {
		query = query.Where("is_recurring = ?", *filter.IsRecurring)
	}
	if filter.FromDate != nil {
		query = query.Where("expense_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("expense_date <= ?", *filter.ToDate)
	}
	return searchAny(query, filter.Search, "description", "vendor", "invoice_number")
}
