package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/notification"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := Query(ctx, r.db, &models.NotificationModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindForUser returns notifications addressed to the user or broadcast to everyone
func (r *GormNotificationRepository) FindForUser(ctx context.Context, filter notification.Filter) ([]notification.Notification, error) {
	var rows []models.NotificationModel
	query := paginate(r.applyFilter(Query(ctx, r.db, &models.NotificationModel{}), filter), filter.Filter, NotificationSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForUser counts notifications visible to the user
func (r *GormNotificationRepository) CountForUser(ctx context.Context, filter notification.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(Query(ctx, r.db, &models.NotificationModel{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return dbFor(ctx, r.db).Save(models.NotificationModelFromDomain(n)).Error
}

// MarkAllRead marks every unread notification visible to the user as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := Query(ctx, r.db, &models.NotificationModel{}).
		Where("is_read = ?", false).
		Where("(user_id = ? OR user_id IS NULL)", userID).
		Updates(map[string]any{"is_read": true, "read_at": now, "updated_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter notification.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("(user_id = ? OR user_id IS NULL)", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	return query
}
