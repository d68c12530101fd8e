package dues

import (
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlatRef() FlatRef {
	resident := uuid.New()
	return FlatRef{
		ApartmentID: uuid.New(),
		BlockID:     uuid.New(),
		FlatID:      uuid.New(),
		ResidentID:  &resident,
	}
}

func newTestDue(t *testing.T, amount float64) *Due {
	t.Helper()
	period, err := valueobject.NewPeriod(1, 2025)
	require.NoError(t, err)
	d, err := NewDue(testFlatRef(), decimal.NewFromFloat(amount), period, valueobject.DefaultDueDay, "")
	require.NoError(t, err)
	return d
}

func TestNewDue(t *testing.T) {
	t.Run("creates pending due with zero balances", func(t *testing.T) {
		d := newTestDue(t, 500)

		assert.Equal(t, DueStatusPending, d.Status)
		assert.True(t, d.PaidAmount.IsZero())
		assert.True(t, d.LateFee.IsZero())
		assert.False(t, d.LateFeeApplied)
		assert.Equal(t, "2025-01-15", d.DueDate.Format("2006-01-02"))
		assert.Equal(t, "01/2025 Aidatı", d.Description)
		assert.Equal(t, 1, d.Version)
		require.Len(t, d.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeDueCreated, d.GetDomainEvents()[0].EventType())
	})

	t.Run("keeps custom description", func(t *testing.T) {
		period, _ := valueobject.NewPeriod(2, 2025)
		d, err := NewDue(testFlatRef(), decimal.NewFromInt(100), period, 15, "Şubat aidatı")
		require.NoError(t, err)
		assert.Equal(t, "Şubat aidatı", d.Description)
	})

	tests := []struct {
		name   string
		ref    FlatRef
		amount decimal.Decimal
		dueDay int
		code   string
	}{
		{name: "missing flat", ref: FlatRef{ApartmentID: uuid.New(), BlockID: uuid.New()}, amount: decimal.NewFromInt(1), dueDay: 15, code: "INVALID_FLAT"},
		{name: "zero amount", ref: testFlatRef(), amount: decimal.Zero, dueDay: 15, code: "INVALID_AMOUNT"},
		{name: "negative amount", ref: testFlatRef(), amount: decimal.NewFromInt(-5), dueDay: 15, code: "INVALID_AMOUNT"},
		{name: "amount below one kuruş", ref: testFlatRef(), amount: decimal.RequireFromString("0.001"), dueDay: 15, code: "INVALID_AMOUNT"},
		{name: "bad due day", ref: testFlatRef(), amount: decimal.NewFromInt(1), dueDay: 31, code: "INVALID_DUE_DAY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, _ := valueobject.NewPeriod(1, 2025)
			_, err := NewDue(tt.ref, tt.amount, period, tt.dueDay, "")
			require.Error(t, err)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestDue_ApplyPayment(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		lateFee    float64
		payments   []float64
		wantStatus DueStatus
		wantPaid   string
		wantCredit string
	}{
		{name: "exact payment marks paid", amount: 500, payments: []float64{500}, wantStatus: DueStatusPaid, wantPaid: "500.00", wantCredit: "0.00"},
		{name: "partial payment", amount: 500, payments: []float64{200}, wantStatus: DueStatusPartial, wantPaid: "200.00", wantCredit: "0.00"},
		{name: "two partials complete the due", amount: 500, payments: []float64{200, 300}, wantStatus: DueStatusPaid, wantPaid: "500.00", wantCredit: "0.00"},
		{name: "late fee must be covered", amount: 500, lateFee: 5, payments: []float64{500}, wantStatus: DueStatusPartial, wantPaid: "500.00", wantCredit: "0.00"},
		{name: "overpayment is absorbed as credit", amount: 500, payments: []float64{650}, wantStatus: DueStatusPaid, wantPaid: "650.00", wantCredit: "150.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDue(t, tt.amount)
			d.LateFee = decimal.NewFromFloat(tt.lateFee)
			for _, p := range tt.payments {
				require.NoError(t, d.ApplyPayment(decimal.NewFromFloat(p)))
			}
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantPaid, d.PaidAmount.StringFixed(2))
			assert.Equal(t, tt.wantCredit, d.Credit().StringFixed(2))
		})
	}

	t.Run("overdue becomes partial on any payment", func(t *testing.T) {
		d := newTestDue(t, 1000)
		applied, err := d.ApplyLateFee(time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), DefaultLateFeePolicy())
		require.NoError(t, err)
		require.True(t, applied)

		require.NoError(t, d.ApplyPayment(decimal.NewFromInt(1)))
		assert.Equal(t, DueStatusPartial, d.Status)
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		d := newTestDue(t, 500)
		err := d.ApplyPayment(decimal.Zero)
		assert.Error(t, err)
		assert.True(t, d.PaidAmount.IsZero())
	})
}

func TestDue_ApplyLateFee(t *testing.T) {
	policy := DefaultLateFeePolicy()

	t.Run("ten days late on 1000", func(t *testing.T) {
		d := newTestDue(t, 1000)
		d.DueDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		applied, err := d.ApplyLateFee(time.Date(2025, 1, 11, 9, 30, 0, 0, time.UTC), policy)
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, "10.00", d.LateFee.StringFixed(2))
		assert.Equal(t, DueStatusOverdue, d.Status)
		assert.True(t, d.LateFeeApplied)
	})

	t.Run("same day is not late", func(t *testing.T) {
		d := newTestDue(t, 1000)
		applied, err := d.ApplyLateFee(d.DueDate.Add(20*time.Hour), policy)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, DueStatusPending, d.Status)
	})

	t.Run("overdue and paid dues are skipped", func(t *testing.T) {
		d := newTestDue(t, 1000)
		now := d.DueDate.AddDate(0, 0, 5)
		applied, _ := d.ApplyLateFee(now, policy)
		require.True(t, applied)
		fee := d.LateFee

		applied, _ = d.ApplyLateFee(now.AddDate(0, 0, 30), policy)
		assert.False(t, applied)
		assert.True(t, fee.Equal(d.LateFee))

		paid := newTestDue(t, 100)
		require.NoError(t, paid.ApplyPayment(decimal.NewFromInt(100)))
		applied, _ = paid.ApplyLateFee(now, policy)
		assert.False(t, applied)
	})

	t.Run("partial due accrues on full amount and overwrites fee", func(t *testing.T) {
		d := newTestDue(t, 500)
		d.LateFee = decimal.NewFromInt(99)
		require.NoError(t, d.ApplyPayment(decimal.NewFromInt(100)))

		applied, _ := d.ApplyLateFee(d.DueDate.AddDate(0, 0, 4), policy)
		require.True(t, applied)
		assert.Equal(t, "2.00", d.LateFee.StringFixed(2))
	})
}

func TestDue_MarkPaid(t *testing.T) {
	t.Run("requires full coverage", func(t *testing.T) {
		d := newTestDue(t, 500)
		require.NoError(t, d.ApplyPayment(decimal.NewFromInt(200)))
		assert.Error(t, d.MarkPaid())
	})

	t.Run("idempotent on paid dues", func(t *testing.T) {
		d := newTestDue(t, 500)
		require.NoError(t, d.ApplyPayment(decimal.NewFromInt(500)))
		assert.NoError(t, d.MarkPaid())
		assert.Equal(t, DueStatusPaid, d.Status)
	})
}

func TestDueStatus(t *testing.T) {
	assert.True(t, DueStatusPending.CanAccrueLateFee())
	assert.True(t, DueStatusPartial.CanAccrueLateFee())
	assert.False(t, DueStatusOverdue.CanAccrueLateFee())
	assert.False(t, DueStatusPaid.CanAccrueLateFee())
	assert.False(t, DueStatus("cancelled").IsValid())
	assert.False(t, DueStatusPaid.IsOpen())
}
