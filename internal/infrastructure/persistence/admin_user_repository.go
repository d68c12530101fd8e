package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidat/backend/internal/domain/identity"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := Query(ctx, r.db, &models.AdminUserModel{}).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an admin by email, case-insensitively
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := Query(ctx, r.db, &models.AdminUserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists every admin ordered by email
func (r *GormAdminUserRepository) FindAll(ctx context.Context) ([]identity.AdminUser, error) {
	var rows []models.AdminUserModel
	if err := Query(ctx, r.db, &models.AdminUserModel{}).Order("email ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find admins: %w", err)
	}
	out := make([]identity.AdminUser, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByEmail checks if an admin with the email exists
func (r *GormAdminUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := Query(ctx, r.db, &models.AdminUserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return count > 0, nil
}

// Save creates or updates an admin
func (r *GormAdminUserRepository) Save(ctx context.Context, user *identity.AdminUser) error {
	return dbFor(ctx, r.db).Save(models.AdminUserModelFromDomain(user)).Error
}
