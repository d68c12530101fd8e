package models

import (
	"time"

	"github.com/aidat/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	BaseModel
	UserID            *uuid.UUID        `gorm:"type:uuid;index"`
	Type              notification.Type `gorm:"type:varchar(20);not null;index"`
	Title             string            `gorm:"type:varchar(200);not null"`
	Message           string            `gorm:"type:text;not null"`
	IsRead            bool              `gorm:"not null;default:false;index"`
	ReadAt            *time.Time
	Link              string     `gorm:"type:varchar(300)"`
	RelatedEntityType string     `gorm:"type:varchar(30)"`
	RelatedEntityID   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:        m.BaseModel.ToDomain(),
		UserID:            m.UserID,
		Type:              m.Type,
		Title:             m.Title,
		Message:           m.Message,
		IsRead:            m.IsRead,
		ReadAt:            m.ReadAt,
		Link:              m.Link,
		RelatedEntityType: m.RelatedEntityType,
		RelatedEntityID:   m.RelatedEntityID,
	}
}

// NotificationModelFromDomain creates a new model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		UserID:            n.UserID,
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		IsRead:            n.IsRead,
		ReadAt:            n.ReadAt,
		Link:              n.Link,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
