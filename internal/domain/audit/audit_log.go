package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is what was done to an entity
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionLogin   Action = "login"
	ActionLogout  Action = "logout"
	ActionExport  Action = "export"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout,
		ActionExport, ActionApprove, ActionReject:
		return true
	}
	return false
}

// EntityType is the kind of entity an audit entry refers to
type EntityType string

const (
	EntityApartment    EntityType = "apartment"
	EntityBlock        EntityType = "block"
	EntityFlat         EntityType = "flat"
	EntityResident     EntityType = "resident"
	EntityDue          EntityType = "due"
	EntityPayment      EntityType = "payment"
	EntityExpense      EntityType = "expense"
	EntityIncome       EntityType = "income"
	EntityNotification EntityType = "notification"
	EntityAdmin        EntityType = "admin"
	EntitySystem       EntityType = "system"
)

// IsValid checks if the entity type is known
func (t EntityType) IsValid() bool {
	switch t {
	case EntityApartment, EntityBlock, EntityFlat, EntityResident, EntityDue,
		EntityPayment, EntityExpense, EntityIncome, EntityNotification,
		EntityAdmin, EntitySystem:
		return true
	}
	return false
}

// Entity ids used for entries that cover many records
const (
	EntityIDBulk  = "bulk"
	EntityIDBatch = "batch"
)

// Entry is what callers hand to the emitter
type Entry struct {
	UserID      uuid.UUID
	UserEmail   string
	Action      Action
	EntityType  EntityType
	EntityID    string
	OldValue    any
	NewValue    any
	Description string
}

// NewEntry starts an entry attributed to the session
func NewEntry(session shared.Session, action Action, entityType EntityType, entityID string, description string) Entry {
	return Entry{
		UserID:      session.UserID,
		UserEmail:   session.Email,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}
}

// WithValues attaches before/after snapshots
func (e Entry) WithValues(oldValue, newValue any) Entry {
	e.OldValue = oldValue
	e.NewValue = newValue
	return e
}

// Emitter records audit entries on a best-effort basis.
// Emit never blocks the caller on storage and never reports failure.
type Emitter interface {
	Emit(ctx context.Context, entry Entry)
}

// Log is an append-only audit record
type Log struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	UserEmail   string
	Action      Action
	EntityType  EntityType
	EntityID    string
	OldValue    json.RawMessage
	NewValue    json.RawMessage
	Description string
	Timestamp   time.Time
}

// NewLog materializes an entry; snapshots that cannot be encoded are dropped
func NewLog(entry Entry, at time.Time) *Log {
	return &Log{
		ID:          uuid.New(),
		UserID:      entry.UserID,
		UserEmail:   entry.UserEmail,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		OldValue:    encode(entry.OldValue),
		NewValue:    encode(entry.NewValue),
		Description: entry.Description,
		Timestamp:   at,
	}
}

func encode(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// Filter defines filtering options for audit queries
type Filter struct {
	shared.Filter
	UserID     *uuid.UUID
	Action     *Action
	EntityType *EntityType
	EntityID   *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// Repository persists audit logs; there is no update or delete
type Repository interface {
	Create(ctx context.Context, log *Log) error
	FindAll(ctx context.Context, filter Filter) ([]Log, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
