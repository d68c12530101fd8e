package residence

import (
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlat(t *testing.T) *Flat {
	t.Helper()
	block, err := NewBlock(uuid.New(), "A Blok", 5, 10)
	require.NoError(t, err)
	flat, err := NewFlat(block, "12", 3, "")
	require.NoError(t, err)
	return flat
}

func TestNewApartment(t *testing.T) {
	a, err := NewApartment("  Güneş Sitesi ", "Atatürk Cad. 1", "İstanbul", "Kadıköy")
	require.NoError(t, err)
	assert.Equal(t, "Güneş Sitesi", a.Name)
	assert.Equal(t, 1, a.Version)

	_, err = NewApartment(" ", "", "", "")
	assert.Error(t, err)

	assert.Error(t, a.SetCounts(-1, 0))
	require.NoError(t, a.SetCounts(2, 40))
	assert.Equal(t, 40, a.TotalFlats)
}

func TestNewBlock(t *testing.T) {
	tests := []struct {
		name        string
		apartmentID uuid.UUID
		blockName   string
		floors      int
		wantErr     bool
	}{
		{name: "valid", apartmentID: uuid.New(), blockName: "B", floors: 4},
		{name: "missing apartment", apartmentID: uuid.Nil, blockName: "B", wantErr: true},
		{name: "missing name", apartmentID: uuid.New(), blockName: "", wantErr: true},
		{name: "negative floors", apartmentID: uuid.New(), blockName: "B", floors: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBlock(tt.apartmentID, tt.blockName, tt.floors, 0)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlat_Assignments(t *testing.T) {
	t.Run("new flat inherits block location and is vacant", func(t *testing.T) {
		block, _ := NewBlock(uuid.New(), "A", 5, 10)
		flat, err := NewFlat(block, "7", 2, FlatTypeOffice)
		require.NoError(t, err)
		assert.Equal(t, block.ID, flat.BlockID)
		assert.Equal(t, block.ApartmentID, flat.ApartmentID)
		assert.Equal(t, OccupancyVacant, flat.OccupancyStatus)
		assert.Nil(t, flat.BillableResident())
	})

	t.Run("tenant takes precedence over owner for billing", func(t *testing.T) {
		flat := newTestFlat(t)
		owner, tenant := uuid.New(), uuid.New()

		require.NoError(t, flat.AssignOwner(owner))
		assert.Equal(t, OccupancyOccupied, flat.OccupancyStatus)
		assert.Equal(t, owner, *flat.BillableResident())

		require.NoError(t, flat.AssignTenant(tenant))
		assert.Equal(t, tenant, *flat.BillableResident())
	})

	t.Run("release vacates only when nobody remains", func(t *testing.T) {
		flat := newTestFlat(t)
		owner, tenant := uuid.New(), uuid.New()
		_ = flat.AssignOwner(owner)
		_ = flat.AssignTenant(tenant)

		assert.True(t, flat.Release(tenant))
		assert.Equal(t, OccupancyOccupied, flat.OccupancyStatus)
		assert.False(t, flat.Release(uuid.New()))
		assert.True(t, flat.Release(owner))
		assert.Equal(t, OccupancyVacant, flat.OccupancyStatus)
	})

	t.Run("update validates area", func(t *testing.T) {
		flat := newTestFlat(t)
		assert.Error(t, flat.Update("1", 0, FlatTypeResidential, decimal.NewFromInt(-1)))
		assert.NoError(t, flat.Update("1", 0, FlatTypeCommercial, decimal.NewFromInt(90)))
		assert.Equal(t, FlatTypeCommercial, flat.Type)
	})
}

func TestResident_Lifecycle(t *testing.T) {
	flat := newTestFlat(t)
	tc, err := valueobject.NewTCNo("10000000146")
	require.NoError(t, err)
	moveIn := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	r, err := NewResident(flat, "Ayşe", "Yılmaz", tc, ResidentTypeTenant, moveIn, ResidentContact{Email: " AYSE@Example.com "})
	require.NoError(t, err)
	assert.True(t, r.IsActive)
	assert.Equal(t, flat.ID, r.FlatID)
	assert.Equal(t, flat.BlockID, r.BlockID)
	assert.Equal(t, flat.ApartmentID, r.ApartmentID)
	assert.Equal(t, "ayse@example.com", r.Email)
	assert.Equal(t, "Ayşe Yılmaz", r.FullName())

	assert.Error(t, r.MoveOut(moveIn.AddDate(0, 0, -1)))

	out := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.MoveOut(out))
	assert.False(t, r.IsActive)
	require.NotNil(t, r.MoveOutDate)
	assert.Equal(t, out, *r.MoveOutDate)

	assert.Error(t, r.MoveOut(out))
}

func TestNewResident_Validation(t *testing.T) {
	flat := newTestFlat(t)
	tc, _ := valueobject.NewTCNo("12345678950")

	_, err := NewResident(flat, "", "X", tc, ResidentTypeOwner, time.Time{}, ResidentContact{})
	assert.Error(t, err)
	_, err = NewResident(flat, "A", "B", valueobject.TCNo{}, ResidentTypeOwner, time.Time{}, ResidentContact{})
	assert.Error(t, err)
	_, err = NewResident(flat, "A", "B", tc, "guest", time.Time{}, ResidentContact{})
	assert.Error(t, err)
	_, err = NewResident(nil, "A", "B", tc, ResidentTypeOwner, time.Time{}, ResidentContact{})
	assert.Error(t, err)
}
