package models

import (
	"encoding/json"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for audit log entries.
// The table is append-only; the tombstone columns exist only to keep
// the shared read scope uniform.
type AuditLogModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserEmail   string           `gorm:"type:varchar(200)"`
	Action      audit.Action     `gorm:"type:varchar(20);not null;index"`
	EntityType  audit.EntityType `gorm:"type:varchar(30);not null;index:idx_audit_entity,priority:1"`
	EntityID    string           `gorm:"type:varchar(64);not null;index:idx_audit_entity,priority:2"`
	OldValue    *string          `gorm:"type:text"`
	NewValue    *string          `gorm:"type:text"`
	Description string           `gorm:"type:text"`
	Timestamp   time.Time        `gorm:"not null;index"`
	SoftDeleteModel
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the model to a domain audit Log
func (m *AuditLogModel) ToDomain() *audit.Log {
	l := &audit.Log{
		ID:          m.ID,
		UserID:      m.UserID,
		UserEmail:   m.UserEmail,
		Action:      m.Action,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		Timestamp:   m.Timestamp,
	}
	if m.OldValue != nil {
		l.OldValue = json.RawMessage(*m.OldValue)
	}
	if m.NewValue != nil {
		l.NewValue = json.RawMessage(*m.NewValue)
	}
	return l
}

// AuditLogModelFromDomain creates a new model from a domain audit Log
func AuditLogModelFromDomain(l *audit.Log) *AuditLogModel {
	m := &AuditLogModel{
		ID:          l.ID,
		UserID:      l.UserID,
		UserEmail:   l.UserEmail,
		Action:      l.Action,
		EntityType:  l.EntityType,
		EntityID:    l.EntityID,
		Description: l.Description,
		Timestamp:   l.Timestamp,
	}
	if len(l.OldValue) > 0 {
		s := string(l.OldValue)
		m.OldValue = &s
	}
	if len(l.NewValue) > 0 {
		s := string(l.NewValue)
		m.NewValue = &s
	}
	return m
}
