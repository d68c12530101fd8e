package report

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/cache"
	"github.com/aidat/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Stubs embed the repository interfaces and answer only what reports read.

type dueStub struct {
	dues.DueRepository
	mu      sync.Mutex
	list    []dues.Due
	overdue decimal.Decimal
	counts  map[dues.DueStatus]int64
	finds   int
}

func (d *dueStub) FindAll(_ context.Context, _ dues.DueFilter) ([]dues.Due, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finds++
	return d.list, nil
}

func (d *dueStub) Count(_ context.Context, f dues.DueFilter) (int64, error) {
	var n int64
	for _, st := range f.Statuses {
		n += d.counts[st]
	}
	return n, nil
}

func (d *dueStub) SumOverdue(context.Context, *uuid.UUID) (decimal.Decimal, error) {
	return d.overdue, nil
}

type paymentStub struct {
	dues.PaymentRepository
	total decimal.Decimal
	list  []dues.Payment
}

func (p *paymentStub) SumAmount(_ context.Context, f dues.PaymentFilter) (decimal.Decimal, error) {
	if f.FromDate != nil {
		return decimal.Zero, nil
	}
	return p.total, nil
}

func (p *paymentStub) FindAll(context.Context, dues.PaymentFilter) ([]dues.Payment, error) {
	return p.list, nil
}

type expenseStub struct {
	finance.ExpenseRepository
	approved   decimal.Decimal
	categories []finance.CategoryTotal
	list       []finance.Expense
	err        error
}

func (e *expenseStub) SumAmount(_ context.Context, f finance.ExpenseFilter) (decimal.Decimal, error) {
	if e.err != nil {
		return decimal.Zero, e.err
	}
	if f.FromDate != nil {
		return decimal.Zero, nil
	}
	return e.approved, nil
}

func (e *expenseStub) SumByCategory(context.Context, finance.ExpenseFilter) ([]finance.CategoryTotal, error) {
	return e.categories, nil
}

func (e *expenseStub) FindAll(context.Context, finance.ExpenseFilter) ([]finance.Expense, error) {
	return e.list, nil
}

type incomeStub struct {
	finance.IncomeRepository
	total decimal.Decimal
}

func (i *incomeStub) SumAmount(_ context.Context, f finance.IncomeFilter) (decimal.Decimal, error) {
	if f.FromDate != nil {
		return decimal.Zero, nil
	}
	return i.total, nil
}

func (i *incomeStub) FindAll(context.Context, finance.IncomeFilter) ([]finance.Income, error) {
	return nil, nil
}

type flatStub struct {
	residence.FlatRepository
	total, occupied int64
}

func (f *flatStub) Count(_ context.Context, filter residence.FlatFilter) (int64, error) {
	if filter.OccupancyStatus != nil {
		return f.occupied, nil
	}
	return f.total, nil
}

type residentStub struct {
	residence.ResidentRepository
	total, active int64
}

func (r *residentStub) Count(_ context.Context, filter residence.ResidentFilter) (int64, error) {
	if filter.IsActive != nil {
		return r.active, nil
	}
	return r.total, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRepos() (Repositories, *dueStub) {
	ds := &dueStub{
		list: []dues.Due{
			{Amount: dec("1000"), PaidAmount: dec("1000")},
			{Amount: dec("1000"), PaidAmount: dec("500")},
			{Amount: dec("1000")},
		},
		overdue: dec("1010"),
		counts: map[dues.DueStatus]int64{
			dues.DueStatusPending: 1,
			dues.DueStatusPartial: 1,
			dues.DueStatusOverdue: 1,
		},
	}
	return Repositories{
		Dues:     ds,
		Payments: &paymentStub{total: dec("1500")},
		Expenses: &expenseStub{
			approved: dec("800"),
			categories: []finance.CategoryTotal{
				{Category: "elevator", Total: dec("600")},
				{Category: "cleaning", Total: dec("200")},
			},
		},
		Incomes:   &incomeStub{total: dec("300")},
		Flats:     &flatStub{total: 10, occupied: 7},
		Residents: &residentStub{total: 12, active: 9},
	}, ds
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	repos, _ := sampleRepos()
	svc := NewReportService(repos, nil, time.Minute, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC) }

	stats, err := svc.Dashboard(ctx, nil)
	require.NoError(t, err)

	assert.True(t, stats.TotalIncome.Equal(dec("1800")), "payments plus other income")
	assert.True(t, stats.TotalExpense.Equal(dec("800")))
	assert.True(t, stats.NetBalance.Equal(dec("1000")))
	assert.Equal(t, int64(12), stats.TotalResidents)
	assert.Equal(t, int64(9), stats.ActiveResidents)
	assert.Equal(t, int64(3), stats.VacantFlats)
	assert.Equal(t, int64(2), stats.PendingDues)
	assert.Equal(t, int64(1), stats.OverdueCount)
	assert.True(t, stats.OverdueAmount.Equal(dec("1010")))
	assert.True(t, stats.CollectionRate.Equal(dec("50")), "1500 of 3000 collected")

	require.Len(t, stats.Monthly, 12)
	assert.Equal(t, 7, stats.Monthly[0].Month)
	assert.Equal(t, 2024, stats.Monthly[0].Year)
	assert.Equal(t, 6, stats.Monthly[11].Month)
	assert.Equal(t, 2025, stats.Monthly[11].Year)

	require.Len(t, stats.ExpenseBreakdown, 2)
	assert.Equal(t, "Asansör", stats.ExpenseBreakdown[0].Label)
	assert.True(t, stats.ExpenseBreakdown[0].Percentage.Equal(dec("75")))
}

func TestReportService_DashboardCache(t *testing.T) {
	ctx := context.Background()
	repos, ds := sampleRepos()
	store := cache.NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	svc := NewReportService(repos, store, time.Minute, zap.NewNop())

	_, err := svc.Dashboard(ctx, nil)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.finds, "second read is served from cache")

	aptID := uuid.New()
	_, err = svc.Dashboard(ctx, &aptID)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.finds, "apartments are cached separately")

	svc.Invalidate(ctx)
	_, err = svc.Dashboard(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.finds)
}

func TestReportService_DashboardError(t *testing.T) {
	repos, _ := sampleRepos()
	repos.Expenses = &expenseStub{err: errors.New("connection refused")}
	svc := NewReportService(repos, nil, time.Minute, zap.NewNop())

	_, err := svc.Dashboard(context.Background(), nil)
	assert.Error(t, err)
}

type recordingEmitter struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingEmitter) Emit(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

type auditStub struct {
	audit.Repository
	logs []audit.Log
}

func (a *auditStub) FindAll(context.Context, audit.Filter) ([]audit.Log, error) {
	return a.logs, nil
}

func openWorkbook(t *testing.T, f *export.File) *excelize.File {
	t.Helper()
	require.NotNil(t, f)
	x, err := excelize.OpenReader(bytes.NewReader(f.Data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func TestExportService_Exports(t *testing.T) {
	ctx := context.Background()
	repos, _ := sampleRepos()
	emitter := &recordingEmitter{}
	svc := NewExportService(repos, &auditStub{}, export.NewExporter(), emitter, zap.NewNop())
	session := shared.NewSession(uuid.New(), "yonetici@example.com", shared.RoleAdmin)

	file, err := svc.ExportDues(ctx, session, ExportFilter{})
	require.NoError(t, err)
	x := openWorkbook(t, file)
	assert.Equal(t, []string{export.SheetDues}, x.GetSheetList())

	require.Len(t, emitter.entries, 1)
	entry := emitter.entries[0]
	assert.Equal(t, audit.ActionExport, entry.Action)
	assert.Equal(t, audit.EntitySystem, entry.EntityType)
	assert.Equal(t, file.Name, entry.EntityID)

	_, err = svc.ExportAuditLogs(ctx, session, ExportFilter{})
	require.NoError(t, err)
	assert.Len(t, emitter.entries, 2)
}

func TestExportService_FinancialReport(t *testing.T) {
	ctx := context.Background()
	repos, _ := sampleRepos()
	emitter := &recordingEmitter{}
	svc := NewExportService(repos, &auditStub{}, export.NewExporter(), emitter, zap.NewNop())
	session := shared.NewSession(uuid.New(), "yonetici@example.com", shared.RoleAdmin)

	file, err := svc.ExportFinancialReport(ctx, session, FinancialReportFilter{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "finansal_rapor_2025.xlsx", file.Name)

	x := openWorkbook(t, file)
	assert.Equal(t, []string{
		export.SheetSummary, export.SheetDues, export.SheetPayments, export.SheetExpenses, export.SheetIncomes,
	}, x.GetSheetList())
	assert.Equal(t, audit.ActionExport, emitter.entries[0].Action)
}

func TestExportService_RejectsInvertedRange(t *testing.T) {
	repos, _ := sampleRepos()
	emitter := &recordingEmitter{}
	svc := NewExportService(repos, &auditStub{}, export.NewExporter(), emitter, zap.NewNop())
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.ExportPayments(context.Background(),
		shared.NewSession(uuid.New(), "a@b.c", shared.RoleAdmin),
		ExportFilter{FromDate: &from, ToDate: &to})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, emitter.entries)
}
