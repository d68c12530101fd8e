package audit

import (
	"math"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewLog(t *testing.T) {
	session := shared.NewSession(uuid.New(), "admin@site.com", shared.RoleAdmin)
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	entry := NewEntry(session, ActionUpdate, EntityDue, "d-1", "due updated").
		WithValues(map[string]any{"status": "pending"}, map[string]any{"status": "paid"})
	log := NewLog(entry, at)

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, session.UserID, log.UserID)
	assert.Equal(t, "admin@site.com", log.UserEmail)
	assert.JSONEq(t, `{"status":"pending"}`, string(log.OldValue))
	assert.JSONEq(t, `{"status":"paid"}`, string(log.NewValue))
	assert.Equal(t, at, log.Timestamp)
}

func TestNewLog_UnencodableValueIsDropped(t *testing.T) {
	entry := NewEntry(shared.SystemSession(), ActionCreate, EntitySystem, EntityIDBatch, "").
		WithValues(nil, math.Inf(1))
	log := NewLog(entry, time.Now())
	assert.Nil(t, log.OldValue)
	assert.Nil(t, log.NewValue)
}

func TestActionAndEntityType(t *testing.T) {
	assert.True(t, ActionExport.IsValid())
	assert.False(t, Action("purge").IsValid())
	assert.True(t, EntityIncome.IsValid())
	assert.False(t, EntityType("tenant").IsValid())
}
