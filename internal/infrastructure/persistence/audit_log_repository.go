package persistence

import (
	"context"
	"fmt"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM.
// The table is append-only.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create inserts an audit log entry
func (r *GormAuditLogRepository) Create(ctx context.Context, log *audit.Log) error {
	if err := dbFor(ctx, r.db).Create(models.AuditLogModelFromDomain(log)).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// FindAll finds audit logs matching the filter, newest first by default
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter audit.Filter) ([]audit.Log, error) {
	var rows []models.AuditLogModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.AuditLogModel{}), filter), filter.Filter, AuditLogSortFields, "timestamp")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find audit logs: %w", err)
	}
	out := make([]audit.Log, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts audit logs matching the filter
func (r *GormAuditLogRepository) Count(ctx context.Context, filter audit.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.AuditLogModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count audit logs: %w", err)
	}
	return count, nil
}

func (r *GormAuditLogRepository) applyFilter(query *gorm.DB, filter audit.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.FromDate != nil {
		query = query.Where("timestamp >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("timestamp <= ?", *filter.ToDate)
	}
	return searchAny(query, filter.Search, "description", "user_email")
}
