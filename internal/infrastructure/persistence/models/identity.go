package models

import (
	"time"

	"github.com/aidat/backend/internal/domain/identity"
	"github.com/aidat/backend/internal/domain/shared"
)

// AdminUserModel is the persistence model for console administrators
type AdminUserModel struct {
	AggregateModel
	Email        string      `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	DisplayName  string      `gorm:"type:varchar(200)"`
	Role         shared.Role `gorm:"type:varchar(20);not null;default:'admin'"`
	IsActive     bool        `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the model to a domain AdminUser
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              m.Role,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// AdminUserModelFromDomain creates a new model from a domain AdminUser
func AdminUserModelFromDomain(u *identity.AdminUser) *AdminUserModel {
	m := &AdminUserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
