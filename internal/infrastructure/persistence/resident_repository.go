package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormResidentRepository implements ResidentRepository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// FindByID finds a resident by its ID
func (r *GormResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Resident, error) {
	var model models.ResidentModel
	if err := Query(ctx, r.db, &models.ResidentModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds residents matching the filter
func (r *GormResidentRepository) FindAll(ctx context.Context, filter residence.ResidentFilter) ([]residence.Resident, error) {
	var rows []models.ResidentModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.ResidentModel{}), filter), filter.Filter, ResidentSortFields, "last_name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find residents: %w", err)
	}
	return toResidents(rows), nil
}

// Count counts residents matching the filter
func (r *GormResidentRepository) Count(ctx context.Context, filter residence.ResidentFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.ResidentModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count residents: %w", err)
	}
	return count, nil
}

// FindActiveByFlat returns current residents of a flat
func (r *GormResidentRepository) FindActiveByFlat(ctx context.Context, flatID uuid.UUID) ([]residence.Resident, error) {
	var rows []models.ResidentModel
	if err := Query(ctx, r.db, &models.ResidentModel{}).
		Where("flat_id = ? AND is_active = ?", flatID, true).
		Order("move_in_date DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find residents: %w", err)
	}
	return toResidents(rows), nil
}

// FindHistoryByFlat returns all residents who ever lived in a flat, newest move-in first
func (r *GormResidentRepository) FindHistoryByFlat(ctx context.Context, flatID uuid.UUID) ([]residence.Resident, error) {
	var rows []models.ResidentModel
	if err := Query(ctx, r.db, &models.ResidentModel{}).
		Where("flat_id = ?", flatID).
		Order("move_in_date DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find resident history: %w", err)
	}
	return toResidents(rows), nil
}

// ExistsActiveByTCNo checks if an active resident already uses the national id
func (r *GormResidentRepository) ExistsActiveByTCNo(ctx context.Context, tcNo string) (bool, error) {
	var count int64
	if err := Query(ctx, r.db, &models.ResidentModel{}).
		Where("tc_no = ? AND is_active = ?", tcNo, true).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check resident: %w", err)
	}
	return count > 0, nil
}

// Save creates or updates a resident
func (r *GormResidentRepository) Save(ctx context.Context, resident *residence.Resident) error {
	return dbFor(ctx, r.db).Save(models.ResidentModelFromDomain(resident)).Error
}

// Delete soft-deletes a resident
func (r *GormResidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.ResidentModel{}, id)
}

func (r *GormResidentRepository) applyFilter(query *gorm.DB, filter residence.ResidentFilter) *gorm.DB {
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.BlockID != nil {
		query = query.Where("block_id = ?", *filter.BlockID)
	}
	if filter.FlatID != nil {
		query = query.Where("flat_id = ?", *filter.FlatID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return searchAny(query, filter.Search, "first_name", "last_name", "phone", "email")
}

func toResidents(rows []models.ResidentModel) []residence.Resident {
	out := make([]residence.Resident, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
