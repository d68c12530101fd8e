package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApartmentRepository implements ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// FindByID finds an apartment by its ID
func (r *GormApartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Apartment, error) {
	var model models.ApartmentModel
	if err := Query(ctx, r.db, &models.ApartmentModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds apartments matching the filter
func (r *GormApartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]residence.Apartment, error) {
	var rows []models.ApartmentModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.ApartmentModel{}), filter), filter, ApartmentSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find apartments: %w", err)
	}
	out := make([]residence.Apartment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts apartments matching the filter
func (r *GormApartmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.ApartmentModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count apartments: %w", err)
	}
	return count, nil
}

// Save creates or updates an apartment
func (r *GormApartmentRepository) Save(ctx context.Context, apartment *residence.Apartment) error {
	return dbFor(ctx, r.db).Save(models.ApartmentModelFromDomain(apartment)).Error
}

// Delete soft-deletes an apartment
func (r *GormApartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.ApartmentModel{}, id)
}

func (r *GormApartmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return searchAny(query, filter.Search, "name", "city", "district")
}

// GormBlockRepository implements BlockRepository using GORM
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository creates a new GormBlockRepository
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	return &GormBlockRepository{db: db}
}

// FindByID finds a block by its ID
func (r *GormBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Block, error) {
	var model models.BlockModel
	if err := Query(ctx, r.db, &models.BlockModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByApartment returns the live blocks of an apartment ordered by name
func (r *GormBlockRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Block, error) {
	var rows []models.BlockModel
	if err := Query(ctx, r.db, &models.BlockModel{}).
		Where("apartment_id = ?", apartmentID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find blocks: %w", err)
	}
	out := make([]residence.Block, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a block
func (r *GormBlockRepository) Save(ctx context.Context, block *residence.Block) error {
	return dbFor(ctx, r.db).Save(models.BlockModelFromDomain(block)).Error
}

// Delete soft-deletes a block
func (r *GormBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.BlockModel{}, id)
}
