package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultBatchSize keeps bulk inserts under the per-statement parameter limits
const DefaultBatchSize = 450

// GormDueRepository implements DueRepository using GORM
type GormDueRepository struct {
	db *gorm.DB
}

// NewGormDueRepository creates a new GormDueRepository
func NewGormDueRepository(db *gorm.DB) *GormDueRepository {
	return &GormDueRepository{db: db}
}

// FindByID finds a due by its ID
func (r *GormDueRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Due, error) {
	var model models.DueModel
	if err := Query(ctx, r.db, &models.DueModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds dues matching the filter
func (r *GormDueRepository) FindAll(ctx context.Context, filter dues.DueFilter) ([]dues.Due, error) {
	var rows []models.DueModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.DueModel{}), filter), filter.Filter, DueSortFields, "due_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find dues: %w", err)
	}
	return toDues(rows), nil
}

// Count counts dues matching the filter
func (r *GormDueRepository) Count(ctx context.Context, filter dues.DueFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.DueModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count dues: %w", err)
	}
	return count, nil
}

// FindByStatuses returns every due in one of the given statuses, oldest due date first
func (r *GormDueRepository) FindByStatuses(ctx context.Context, statuses []dues.DueStatus) ([]dues.Due, error) {
	if len(statuses) == 0 {
		return []dues.Due{}, nil
	}
	var rows []models.DueModel
	if err := Query(ctx, r.db, &models.DueModel{}).
		Where("status IN ?", statuses).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find dues by status: %w", err)
	}
	return toDues(rows), nil
}

// ExistsForPeriod checks if a live due exists for a flat in a month
func (r *GormDueRepository) ExistsForPeriod(ctx context.Context, flatID uuid.UUID, month, year int) (bool, error) {
	var count int64
	if err := Query(ctx, r.db, &models.DueModel{}).
		Where("flat_id = ? AND year = ? AND month = ?", flatID, year, month).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check due period: %w", err)
	}
	return count > 0, nil
}

// FlatsWithDueForPeriod returns the flats among flatIDs that already have a due for the month
func (r *GormDueRepository) FlatsWithDueForPeriod(ctx context.Context, flatIDs []uuid.UUID, month, year int) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool)
	if len(flatIDs) == 0 {
		return existing, nil
	}
	for start := 0; start < len(flatIDs); start += DefaultBatchSize {
		end := min(start+DefaultBatchSize, len(flatIDs))
		var ids []uuid.UUID
		if err := Query(ctx, r.db, &models.DueModel{}).
			Where("flat_id IN ? AND year = ? AND month = ?", flatIDs[start:end], year, month).
			Pluck("flat_id", &ids).Error; err != nil {
			return nil, fmt.Errorf("check due period: %w", err)
		}
		for _, id := range ids {
			existing[id] = true
		}
	}
	return existing, nil
}

// Save creates or updates a due without a version check
func (r *GormDueRepository) Save(ctx context.Context, due *dues.Due) error {
	return dbFor(ctx, r.db).Save(models.DueModelFromDomain(due)).Error
}

// SaveWithLock writes the due only if the stored version still equals due.Version.
// On success the version is bumped on both the row and the aggregate.
func (r *GormDueRepository) SaveWithLock(ctx context.Context, due *dues.Due) error {
	result := dbFor(ctx, r.db).
		Model(&models.DueModel{}).
		Where("id = ? AND version = ? AND is_deleted = ?", due.ID, due.Version, false).
		Updates(map[string]any{
			"resident_id":      due.ResidentID,
			"amount":           due.Amount,
			"status":           due.Status,
			"paid_amount":      due.PaidAmount,
			"late_fee":         due.LateFee,
			"late_fee_applied": due.LateFeeApplied,
			"description":      due.Description,
			"paid_at":          due.PaidAt,
			"version":          due.Version + 1,
			"updated_at":       due.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("update due: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Due was modified by another operation")
	}
	due.IncrementVersion()
	return nil
}

// CreateBatch inserts dues in chunks of batchSize. Each chunk is its own
// statement, so earlier chunks stay committed when a later one fails.
func (r *GormDueRepository) CreateBatch(ctx context.Context, items []*dues.Due, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 || batchSize > DefaultBatchSize {
		batchSize = DefaultBatchSize
	}

	db := dbFor(ctx, r.db)
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		chunk := make([]*models.DueModel, 0, end-start)
		for _, d := range items[start:end] {
			chunk = append(chunk, models.DueModelFromDomain(d))
		}
		if err := db.Create(&chunk).Error; err != nil {
			return fmt.Errorf("insert dues %d-%d of %d: %w", start+1, end, len(items), err)
		}
	}
	return nil
}

// SumOverdue sums the outstanding balance of overdue dues
func (r *GormDueRepository) SumOverdue(ctx context.Context, apartmentID *uuid.UUID) (decimal.Decimal, error) {
	query := Query(ctx, r.db, &models.DueModel{}).Where("status = ?", dues.DueStatusOverdue)
	if apartmentID != nil {
		query = query.Where("apartment_id = ?", *apartmentID)
	}
	return sumColumn(query, "amount + late_fee - paid_amount")
}

func (r *GormDueRepository) applyFilter(query *gorm.DB, filter dues.DueFilter) *gorm.DB {
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
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	return searchAny(query, filter.Search, "description")
}

func toDues(rows []models.DueModel) []dues.Due {
	out := make([]dues.Due, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
