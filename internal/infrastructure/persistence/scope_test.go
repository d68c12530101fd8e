package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_AddsTombstoneFilter(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "apartments" WHERE is_deleted = \$1 AND id = \$2`).
		WithArgs(false, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, "Güneş Sitesi"))

	repo := NewGormApartmentRepository(gormDB)
	a, err := repo.FindByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Güneş Sitesi", a.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormIncomeRepository(db)

	t.Run("hides the row and keeps it stored", func(t *testing.T) {
		m := &models.IncomeModel{Category: "rent", Amount: decimal.NewFromInt(10), CreatedBy: uuid.New(), ApartmentID: uuid.New()}
		m.ID = uuid.New()
		require.NoError(t, db.Create(m).Error)

		require.NoError(t, SoftDelete(ctx, db, &models.IncomeModel{}, m.ID))

		_, err := repo.FindByID(ctx, m.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var raw models.IncomeModel
		require.NoError(t, db.First(&raw, "id = ?", m.ID).Error)
		assert.True(t, raw.IsDeleted)
		assert.NotNil(t, raw.DeletedAt)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		m := &models.IncomeModel{Category: "rent", Amount: decimal.NewFromInt(10), CreatedBy: uuid.New(), ApartmentID: uuid.New()}
		m.ID = uuid.New()
		require.NoError(t, db.Create(m).Error)

		require.NoError(t, SoftDelete(ctx, db, &models.IncomeModel{}, m.ID))
		assert.ErrorIs(t, SoftDelete(ctx, db, &models.IncomeModel{}, m.ID), shared.ErrNotFound)
	})
}

func TestTxManager(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db)
	repo := NewGormDueRepository(db)
	payments := NewGormPaymentRepository(db)
	ctx := context.Background()

	t.Run("rolls back every write on error", func(t *testing.T) {
		d := newDue(t, newRef(), 300, 5, 2025)
		require.NoError(t, repo.Save(ctx, d))

		p, err := dues.NewPayment(d, dues.PaymentDetails{Amount: decimal.NewFromInt(300), Method: dues.PaymentMethodCash}, "RCP-1-AAAA", uuid.New())
		require.NoError(t, err)

		boom := errors.New("boom")
		err = tm.WithinTx(ctx, func(ctx context.Context) error {
			if err := payments.Create(ctx, p); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = payments.FindByReceiptNumber(ctx, "RCP-1-AAAA")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits and joins nested calls", func(t *testing.T) {
		d := newDue(t, newRef(), 300, 5, 2025)
		require.NoError(t, repo.Save(ctx, d))
		p, err := dues.NewPayment(d, dues.PaymentDetails{Amount: decimal.NewFromInt(100), Method: dues.PaymentMethodBankTransfer}, "RCP-2-BBBB", uuid.New())
		require.NoError(t, err)

		err = tm.WithinTx(ctx, func(ctx context.Context) error {
			return tm.WithinTx(ctx, func(ctx context.Context) error {
				if err := payments.Create(ctx, p); err != nil {
					return err
				}
				require.NoError(t, d.ApplyPayment(p.Amount))
				return repo.SaveWithLock(ctx, d)
			})
		})
		require.NoError(t, err)

		got, err := payments.FindByReceiptNumber(ctx, "RCP-2-BBBB")
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.DueID)
		assert.Equal(t, d.FlatID, got.FlatID)

		history, err := payments.FindByDue(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestSearchAny(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormApartmentRepository(db)

	for _, name := range []string{"Çamlık Evleri", "Deniz Sitesi", "Park Residence"} {
		m := &models.ApartmentModel{Name: name, Address: "x", City: "İzmir"}
		m.ID = uuid.New()
		m.Version = 1
		require.NoError(t, db.Create(m).Error)
	}

	found, err := repo.FindAll(ctx, shared.Filter{Search: "sitesi"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Deniz Sitesi", found[0].Name)

	n, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
