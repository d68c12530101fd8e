package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormExpenseRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormExpenseRepository(db)
	apartmentID := uuid.New()
	admin := uuid.New()

	add := func(cat finance.ExpenseCategory, amount int64) *finance.Expense {
		e, err := finance.NewExpense(apartmentID, finance.ExpenseDetails{
			Category:    cat,
			Amount:      decimal.NewFromInt(amount),
			Description: string(cat),
			Vendor:      "ACME",
			ExpenseDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		}, admin)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, e))
		return e
	}

	e1 := add(finance.ExpenseCategoryElevator, 1200)
	e2 := add(finance.ExpenseCategoryCleaning, 300)
	add(finance.ExpenseCategoryCleaning, 200)

	require.NoError(t, e1.Approve(admin))
	require.NoError(t, repo.SaveWithLock(ctx, e1))
	require.NoError(t, e2.Approve(admin))
	require.NoError(t, repo.SaveWithLock(ctx, e2))

	approved := finance.ExpenseStatusApproved
	total, err := repo.SumAmount(ctx, finance.ExpenseFilter{ApartmentID: &apartmentID, Status: &approved})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1500)), total.String())

	byCat, err := repo.SumByCategory(ctx, finance.ExpenseFilter{ApartmentID: &apartmentID})
	require.NoError(t, err)
	require.Len(t, byCat, 2)
	assert.Equal(t, string(finance.ExpenseCategoryElevator), byCat[0].Category)
	assert.True(t, byCat[1].Total.Equal(decimal.NewFromInt(500)))

	t.Run("stale approval conflicts", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, e2.ID)
		require.NoError(t, err)
		stale.Version--
		assert.Error(t, repo.SaveWithLock(ctx, stale))
	})
}

func TestGormIncomeRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormIncomeRepository(db)
	apartmentID := uuid.New()

	for i, day := range []int{1, 15, 28} {
		inc, err := finance.NewIncome(apartmentID, finance.IncomeDetails{
			Category:   finance.IncomeCategoryParking,
			Amount:     decimal.NewFromInt(int64(100 * (i + 1))),
			IncomeDate: time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC),
			Payer:      "Otopark",
		}, uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, inc))
	}

	from := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	sum, err := repo.SumAmount(ctx, finance.IncomeFilter{ApartmentID: &apartmentID, FromDate: &from})
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(500)), sum.String())

	list, err := repo.FindAll(ctx, finance.IncomeFilter{ApartmentID: &apartmentID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 28, list[0].IncomeDate.Day())
}
