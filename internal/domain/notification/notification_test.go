package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(nil, TypeSystem, " Bakım ", "Sistem bakımı yapılacak")
	require.NoError(t, err)
	assert.Equal(t, "Bakım", n.Title)
	assert.False(t, n.IsRead)

	_, err = New(nil, "sms", "x", "")
	assert.Error(t, err)
	_, err = New(nil, TypeAlert, "", "")
	assert.Error(t, err)
}

func TestNotification_MarkRead(t *testing.T) {
	n, _ := New(nil, TypeAlert, "t", "")
	n.MarkRead()
	require.NotNil(t, n.ReadAt)
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
	assert.True(t, n.IsRead)
}

func TestTemplates(t *testing.T) {
	dueID := uuid.New()
	overdue := OverdueAlert(dueID, "A Blok / 12", decimal.NewFromInt(1000), decimal.NewFromInt(10), 10)
	assert.Equal(t, TypeOverdue, overdue.Type)
	assert.Contains(t, overdue.Message, "1000.00")
	assert.Contains(t, overdue.Message, "10 gün")
	assert.Equal(t, dueID, *overdue.RelatedEntityID)
	assert.Equal(t, "/dues/"+dueID.String(), overdue.Link)

	payment := PaymentConfirmation(uuid.New(), "B Blok / 3", decimal.NewFromInt(500), "RCP-1-ABCD")
	assert.Equal(t, TypePayment, payment.Type)
	assert.Contains(t, payment.Message, "RCP-1-ABCD")

	reminder := MonthlyReminder(3, 2025, 12)
	assert.Equal(t, TypeReminder, reminder.Type)
	assert.Contains(t, reminder.Message, "03/2025")
}
