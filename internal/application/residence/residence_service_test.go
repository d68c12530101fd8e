package residence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

type MockApartmentRepository struct{ mock.Mock }

func (m *MockApartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Apartment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]residence.Apartment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]residence.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApartmentRepository) Save(ctx context.Context, a *residence.Apartment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockApartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBlockRepository struct{ mock.Mock }

func (m *MockBlockRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Block), args.Error(1)
}

func (m *MockBlockRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Block, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).([]residence.Block), args.Error(1)
}

func (m *MockBlockRepository) Save(ctx context.Context, b *residence.Block) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockFlatRepository struct{ mock.Mock }

func (m *MockFlatRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Flat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) FindAll(ctx context.Context, filter residence.FlatFilter) ([]residence.Flat, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) Count(ctx context.Context, filter residence.FlatFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlatRepository) FindByBlock(ctx context.Context, blockID uuid.UUID) ([]residence.Flat, error) {
	args := m.Called(ctx, blockID)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]residence.Flat, error) {
	args := m.Called(ctx, apartmentID)
	return args.Get(0).([]residence.Flat), args.Error(1)
}

func (m *MockFlatRepository) Save(ctx context.Context, f *residence.Flat) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockResidentRepository struct{ mock.Mock }

func (m *MockResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*residence.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*residence.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindAll(ctx context.Context, filter residence.ResidentFilter) ([]residence.Resident, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]residence.Resident), args.Error(1)
}

func (m *MockResidentRepository) Count(ctx context.Context, filter residence.ResidentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResidentRepository) FindActiveByFlat(ctx context.Context, flatID uuid.UUID) ([]residence.Resident, error) {
	args := m.Called(ctx, flatID)
	return args.Get(0).([]residence.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindHistoryByFlat(ctx context.Context, flatID uuid.UUID) ([]residence.Resident, error) {
	args := m.Called(ctx, flatID)
	return args.Get(0).([]residence.Resident), args.Error(1)
}

func (m *MockResidentRepository) ExistsActiveByTCNo(ctx context.Context, tcNo string) (bool, error) {
	args := m.Called(ctx, tcNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockResidentRepository) Save(ctx context.Context, r *residence.Resident) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type recordingEmitter struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingEmitter) Emit(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// =============================================================================
// Fixtures
// =============================================================================

const validTCNo = "10000000146"

func adminSession() shared.Session {
	return shared.NewSession(uuid.New(), "yonetici@example.com", shared.RoleAdmin)
}

type residenceFixture struct {
	apartments *MockApartmentRepository
	blocks     *MockBlockRepository
	flats      *MockFlatRepository
	residents  *MockResidentRepository
	emitter    *recordingEmitter
	cache      *countingInvalidator
	service    *ResidenceService
	people     *ResidentService
}

func newResidenceFixture() *residenceFixture {
	f := &residenceFixture{
		apartments: new(MockApartmentRepository),
		blocks:     new(MockBlockRepository),
		flats:      new(MockFlatRepository),
		residents:  new(MockResidentRepository),
		emitter:    &recordingEmitter{},
		cache:      &countingInvalidator{},
	}
	f.service = NewResidenceService(f.apartments, f.blocks, f.flats, f.residents, f.emitter, zap.NewNop())
	f.service.SetCacheInvalidator(f.cache)
	f.people = NewResidentService(f.residents, f.flats, passthroughTx{}, f.emitter, zap.NewNop())
	f.people.SetCacheInvalidator(f.cache)
	return f
}

func (f *residenceFixture) expectCountRefresh(apartment *residence.Apartment, blocks []residence.Block, flats []residence.Flat) {
	f.apartments.On("FindByID", mock.Anything, apartment.ID).Return(apartment, nil)
	f.blocks.On("FindByApartment", mock.Anything, apartment.ID).Return(blocks, nil)
	f.flats.On("FindByApartment", mock.Anything, apartment.ID).Return(flats, nil)
	f.apartments.On("Save", mock.Anything, apartment).Return(nil)
}

// =============================================================================
// Tests
// =============================================================================

func TestResidenceService_CreateBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an existing apartment", func(t *testing.T) {
		f := newResidenceFixture()
		id := uuid.New()
		f.apartments.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateBlock(ctx, adminSession(), CreateBlockRequest{ApartmentID: id, Name: "B"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.blocks.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refreshes apartment totals", func(t *testing.T) {
		f := newResidenceFixture()
		apartment, _ := residence.NewApartment("Güneş Sitesi", "", "İstanbul", "Kadıköy")
		existing, _ := residence.NewBlock(apartment.ID, "A", 4, 8)
		f.expectCountRefresh(apartment, []residence.Block{*existing, *existing}, []residence.Flat{})
		f.blocks.On("Save", mock.Anything, mock.AnythingOfType("*residence.Block")).Return(nil)

		resp, err := f.service.CreateBlock(ctx, adminSession(), CreateBlockRequest{ApartmentID: apartment.ID, Name: "B", TotalFloors: 4})
		require.NoError(t, err)
		assert.Equal(t, apartment.ID, resp.ApartmentID)
		assert.Equal(t, 2, apartment.TotalBlocks)
		require.Len(t, f.emitter.entries, 1)
		assert.Equal(t, audit.EntityBlock, f.emitter.entries[0].EntityType)
	})
}

func TestResidenceService_CreateFlat(t *testing.T) {
	f := newResidenceFixture()
	apartment, _ := residence.NewApartment("Güneş Sitesi", "", "", "")
	block, _ := residence.NewBlock(apartment.ID, "A", 4, 8)
	f.blocks.On("FindByID", mock.Anything, block.ID).Return(block, nil)
	f.flats.On("Save", mock.Anything, mock.AnythingOfType("*residence.Flat")).Return(nil)
	f.expectCountRefresh(apartment, []residence.Block{*block}, []residence.Flat{{}})

	resp, err := f.service.CreateFlat(context.Background(), adminSession(), CreateFlatRequest{BlockID: block.ID, FlatNumber: "12", Floor: 3})
	require.NoError(t, err)
	assert.Equal(t, apartment.ID, resp.ApartmentID, "apartment is inherited from the block")
	assert.Equal(t, string(residence.FlatTypeResidential), resp.Type)
	assert.Equal(t, string(residence.OccupancyVacant), resp.OccupancyStatus)
	assert.Equal(t, 1, f.cache.calls)
}

func TestResidenceService_DeleteFlat_WithActiveResidents(t *testing.T) {
	f := newResidenceFixture()
	block, _ := residence.NewBlock(uuid.New(), "A", 1, 1)
	flat, _ := residence.NewFlat(block, "1", 0, "")
	resident, _ := residence.NewResident(flat, "Ayşe", "Yılmaz", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeOwner, time.Time{}, residence.ResidentContact{})
	f.flats.On("FindByID", mock.Anything, flat.ID).Return(flat, nil)
	f.residents.On("FindActiveByFlat", mock.Anything, flat.ID).Return([]residence.Resident{*resident}, nil)

	err := f.service.DeleteFlat(context.Background(), adminSession(), flat.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.flats.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestResidenceService_AssignTenant(t *testing.T) {
	block, _ := residence.NewBlock(uuid.New(), "A", 1, 1)
	flat, _ := residence.NewFlat(block, "1", 0, "")
	resident, _ := residence.NewResident(flat, "Ali", "Demir", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeTenant, time.Time{}, residence.ResidentContact{})
	otherFlat, _ := residence.NewFlat(block, "2", 0, "")
	stranger, _ := residence.NewResident(otherFlat, "Can", "Kaya", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeTenant, time.Time{}, residence.ResidentContact{})

	t.Run("resident of the flat becomes tenant", func(t *testing.T) {
		f := newResidenceFixture()
		f.flats.On("FindByID", mock.Anything, flat.ID).Return(flat, nil)
		f.residents.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)
		f.flats.On("Save", mock.Anything, flat).Return(nil)

		resp, err := f.service.AssignTenant(context.Background(), adminSession(), flat.ID, AssignResidentRequest{ResidentID: resident.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.TenantID)
		assert.Equal(t, resident.ID, *resp.TenantID)
		assert.Equal(t, string(residence.OccupancyOccupied), resp.OccupancyStatus)
	})

	t.Run("resident of another flat is refused", func(t *testing.T) {
		f := newResidenceFixture()
		f.flats.On("FindByID", mock.Anything, flat.ID).Return(flat, nil)
		f.residents.On("FindByID", mock.Anything, stranger.ID).Return(stranger, nil)

		_, err := f.service.AssignTenant(context.Background(), adminSession(), flat.ID, AssignResidentRequest{ResidentID: stranger.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestResidentService_CreateResident(t *testing.T) {
	ctx := context.Background()
	block, _ := residence.NewBlock(uuid.New(), "A", 1, 1)

	t.Run("owner is linked to the flat", func(t *testing.T) {
		flat, _ := residence.NewFlat(block, "1", 0, "")
		f := newResidenceFixture()
		f.residents.On("ExistsActiveByTCNo", mock.Anything, validTCNo).Return(false, nil)
		f.flats.On("FindByID", mock.Anything, flat.ID).Return(flat, nil)
		f.residents.On("Save", mock.Anything, mock.AnythingOfType("*residence.Resident")).Return(nil)
		f.flats.On("Save", mock.Anything, flat).Return(nil)

		resp, err := f.people.CreateResident(ctx, adminSession(), CreateResidentRequest{
			FlatID: flat.ID, FirstName: "Ayşe", LastName: "Yılmaz", TCNo: validTCNo, Type: "owner",
		})
		require.NoError(t, err)
		require.NotNil(t, flat.OwnerID)
		assert.Equal(t, resp.ID, *flat.OwnerID)
		assert.Equal(t, "*******0146", resp.TCNo)
		assert.Equal(t, block.ApartmentID, resp.ApartmentID)
		assert.True(t, resp.IsActive)
	})

	tests := []struct {
		name string
		tcNo string
	}{
		{"too short", "1234567890"},
		{"leading zero", "01234567890"},
		{"bad checksum", "10000000147"},
		{"letters", "1000000014a"},
	}
	for _, tt := range tests {
		t.Run("invalid national id: "+tt.name, func(t *testing.T) {
			f := newResidenceFixture()
			_, err := f.people.CreateResident(ctx, adminSession(), CreateResidentRequest{
				FlatID: uuid.New(), FirstName: "A", LastName: "B", TCNo: tt.tcNo, Type: "owner",
			})
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			f.residents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate active national id", func(t *testing.T) {
		f := newResidenceFixture()
		f.residents.On("ExistsActiveByTCNo", mock.Anything, validTCNo).Return(true, nil)

		_, err := f.people.CreateResident(ctx, adminSession(), CreateResidentRequest{
			FlatID: uuid.New(), FirstName: "A", LastName: "B", TCNo: validTCNo, Type: "tenant",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestResidentService_MoveOut(t *testing.T) {
	block, _ := residence.NewBlock(uuid.New(), "A", 1, 1)
	flat, _ := residence.NewFlat(block, "1", 0, "")
	moveIn := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	resident, _ := residence.NewResident(flat, "Ali", "Demir", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeTenant, moveIn, residence.ResidentContact{})
	require.NoError(t, flat.AssignTenant(resident.ID))

	f := newResidenceFixture()
	f.residents.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)
	f.residents.On("Save", mock.Anything, resident).Return(nil)
	f.flats.On("FindByID", mock.Anything, flat.ID).Return(flat, nil)
	f.flats.On("Save", mock.Anything, flat).Return(nil)

	out := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := f.people.MoveOut(context.Background(), adminSession(), resident.ID, MoveOutRequest{MoveOutDate: &out})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, out, *resp.MoveOutDate)
	assert.Nil(t, flat.TenantID)
	assert.Equal(t, residence.OccupancyVacant, flat.OccupancyStatus)

	_, err = f.people.MoveOut(context.Background(), adminSession(), resident.ID, MoveOutRequest{MoveOutDate: &out})
	assert.ErrorIs(t, err, shared.ErrInvalidState, "second move-out is refused")
}

func TestResidentService_ListActive(t *testing.T) {
	f := newResidenceFixture()
	apartmentID := uuid.New()
	match := mock.MatchedBy(func(filter residence.ResidentFilter) bool {
		return filter.IsActive != nil && *filter.IsActive && filter.ApartmentID != nil && *filter.ApartmentID == apartmentID
	})
	f.residents.On("FindAll", mock.Anything, match).Return([]residence.Resident{}, nil)
	f.residents.On("Count", mock.Anything, match).Return(int64(0), nil)

	page, err := f.people.ListActive(context.Background(), &apartmentID, ResidentListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	f.residents.AssertExpectations(t)
}

func TestResidentService_DeleteResident(t *testing.T) {
	block, _ := residence.NewBlock(uuid.New(), "A", 1, 1)
	flat, _ := residence.NewFlat(block, "2", 0, "")
	moveIn := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("active resident is kept", func(t *testing.T) {
		resident, _ := residence.NewResident(flat, "Can", "Öz", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeOwner, moveIn, residence.ResidentContact{})
		f := newResidenceFixture()
		f.residents.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)

		err := f.people.DeleteResident(context.Background(), adminSession(), resident.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.residents.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("moved-out resident is soft deleted", func(t *testing.T) {
		resident, _ := residence.NewResident(flat, "Can", "Öz", valueobject.RestoreTCNo(validTCNo), residence.ResidentTypeOwner, moveIn, residence.ResidentContact{})
		require.NoError(t, resident.MoveOut(moveIn.AddDate(1, 0, 0)))
		f := newResidenceFixture()
		f.residents.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)
		f.residents.On("Delete", mock.Anything, resident.ID).Return(nil)

		require.NoError(t, f.people.DeleteResident(context.Background(), adminSession(), resident.ID))
		require.Len(t, f.emitter.entries, 1)
		assert.Equal(t, audit.ActionDelete, f.emitter.entries[0].Action)
		assert.Equal(t, 1, f.cache.calls)
	})
}

func TestResidentService_FlatHistory(t *testing.T) {
	f := newResidenceFixture()
	missing := uuid.New()
	f.flats.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	_, err := f.people.FlatHistory(context.Background(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.residents.AssertNotCalled(t, "FindHistoryByFlat", mock.Anything, mock.Anything)
}
