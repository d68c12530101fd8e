package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormIncomeRepository implements IncomeRepository using GORM
type GormIncomeRepository struct {
	db *gorm.DB
}

// NewGormIncomeRepository creates a new GormIncomeRepository
func NewGormIncomeRepository(db *gorm.DB) *GormIncomeRepository {
	return &GormIncomeRepository{db: db}
}

// FindByID finds an income by its ID
func (r *GormIncomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Income, error) {
	var model models.IncomeModel
	if err := Query(ctx, r.db, &models.IncomeModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds incomes matching the filter
func (r *GormIncomeRepository) FindAll(ctx context.Context, filter finance.IncomeFilter) ([]finance.Income, error) {
	var rows []models.IncomeModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.IncomeModel{}), filter), filter.Filter, IncomeSortFields, "income_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find incomes: %w", err)
	}
	out := make([]finance.Income, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts incomes matching the filter
func (r *GormIncomeRepository) Count(ctx context.Context, filter finance.IncomeFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.IncomeModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count incomes: %w", err)
	}
	return count, nil
}

// Save creates or updates an income
func (r *GormIncomeRepository) Save(ctx context.Context, income *finance.Income) error {
	return dbFor(ctx, r.db).Save(models.IncomeModelFromDomain(income)).Error
}

// Delete soft-deletes an income
func (r *GormIncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.IncomeModel{}, id)
}

// SumAmount sums income amounts matching the filter
func (r *GormIncomeRepository) SumAmount(ctx context.Context, filter finance.IncomeFilter) (decimal.Decimal, error) {
	return sumColumn(r.applyFilter(Query(ctx, r.db, &models.IncomeModel{}), filter), "amount")
}

func (r *GormIncomeRepository) applyFilter(query *gorm.DB, filter finance.IncomeFilter) *gorm.DB {
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("income_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("income_date <= ?", *filter.ToDate)
	}
	return searchAny(query, filter.Search, "description", "payer")
}
