package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFlatRepository implements FlatRepository using GORM
type GormFlatRepository struct {
	db *gorm.DB
}

// NewGormFlatRepository creates a new GormFlatRepository
func NewGormFlatRepository(db *gorm.DB) *GormFlatRepository {
	return &GormFlatRepository{db: db}
}

// FindByID finds a flat by its ID
func (r *GormFlatRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Flat, error) {
	var model models.FlatModel
	if err := Query(ctx, r.db, &models.FlatModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds flats matching the filter
func (r *GormFlatRepository) FindAll(ctx context.Context, filter residence.FlatFilter) ([]residence.Flat, error) {
	var rows []models.FlatModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.FlatModel{}), filter), filter.Filter, FlatSortFields, "flat_number")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find flats: %w", err)
	}
	return toFlats(rows), nil
}

// Count counts flats matching the filter
func (r *GormFlatRepository) Count(ctx context.Context, filter residence.FlatFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.FlatModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count flats: %w", err)
	}
	return count, nil
}

// FindByBlock returns every live flat of a block
func (r *GormFlatRepository) FindByBlock(ctx context.Context, blockID uuid.UUID) ([]residence.Flat, error) {
	return r.findBy(ctx, "block_id = ?", blockID)
}

// FindByApartment returns every live flat of an apartment
func (r *GormFlatRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Flat, error) {
	return r.findBy(ctx, "apartment_id = ?", apartmentID)
}

func (r *GormFlatRepository) findBy(ctx context.Context, cond string, arg uuid.UUID) ([]residence.Flat, error) {
	var rows []models.FlatModel
	if err := Query(ctx, r.db, &models.FlatModel{}).
		Where(cond, arg).
		Order("flat_number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find flats: %w", err)
	}
	return toFlats(rows), nil
}

// Save creates or updates a flat
func (r *GormFlatRepository) Save(ctx context.Context, flat *residence.Flat) error {
	return dbFor(ctx, r.db).Save(models.FlatModelFromDomain(flat)).Error
}

// Delete soft-deletes a flat
func (r *GormFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return SoftDelete(ctx, r.db, &models.FlatModel{}, id)
}

func (r *GormFlatRepository) applyFilter(query *gorm.DB, filter residence.FlatFilter) *gorm.DB {
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.BlockID != nil {
		query = query.Where("block_id = ?", *filter.BlockID)
	}
	if filter.OccupancyStatus != nil {
		query = query.Where("occupancy_status = ?", *filter.OccupancyStatus)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return searchAny(query, filter.Search, "flat_number")
}

func toFlats(rows []models.FlatModel) []residence.Flat {
	out := make([]residence.Flat, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
