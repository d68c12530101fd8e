package report

import (
	"context"
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/infrastructure/cache"
	"github.com/aidat/backend/internal/infrastructure/export"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cachePrefix = "report:"

// Repositories groups the read sides the reports aggregate over
type Repositories struct {
	Dues      dues.DueRepository
	Payments  dues.PaymentRepository
	Expenses  finance.ExpenseRepository
	Incomes   finance.IncomeRepository
	Flats     residence.FlatRepository
	Residents residence.ResidentRepository
}

// MonthlyAmount is one month of the trailing twelve-month breakdown
type MonthlyAmount struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryAmount is the approved expense total of one category
type CategoryAmount struct {
	Category   string          `json:"category"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	ApartmentID      *uuid.UUID       `json:"apartment_id,omitempty"`
	TotalIncome      decimal.Decimal  `json:"total_income"`
	TotalExpense     decimal.Decimal  `json:"total_expense"`
	NetBalance       decimal.Decimal  `json:"net_balance"`
	TotalResidents   int64            `json:"total_residents"`
	ActiveResidents  int64            `json:"active_residents"`
	TotalFlats       int64            `json:"total_flats"`
	OccupiedFlats    int64            `json:"occupied_flats"`
	VacantFlats      int64            `json:"vacant_flats"`
	PendingDues      int64            `json:"pending_dues"`
	OverdueCount     int64            `json:"overdue_count"`
	OverdueAmount    decimal.Decimal  `json:"overdue_amount"`
	CollectionRate   decimal.Decimal  `json:"collection_rate"`
	Monthly          []MonthlyAmount  `json:"monthly"`
	ExpenseBreakdown []CategoryAmount `json:"expense_breakdown"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// ReportService builds the dashboard; results are cached until the next write
type ReportService struct {
	repos  Repositories
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService creates a new ReportService. A nil store disables caching.
func NewReportService(repos Repositories, store cache.Store, ttl time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{
		repos:  repos,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func dashboardKey(apartmentID *uuid.UUID) string {
	if apartmentID == nil {
		return cachePrefix + "dashboard:all"
	}
	return cachePrefix + "dashboard:" + apartmentID.String()
}

// Invalidate drops every cached report. Cache errors are logged only.
func (s *ReportService) Invalidate(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.DeletePrefix(ctx, cachePrefix); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("failed to invalidate report cache", zap.Error(err))
	}
}

// Dashboard returns the dashboard stats, optionally for one apartment
func (s *ReportService) Dashboard(ctx context.Context, apartmentID *uuid.UUID) (*DashboardStats, error) {
	key := dashboardKey(apartmentID)
	if s.store != nil {
		var cached DashboardStats
		hit, err := cache.GetJSON(ctx, s.store, key, &cached)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	stats, err := s.buildDashboard(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := cache.SetJSON(ctx, s.store, key, stats, s.ttl); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *ReportService) buildDashboard(ctx context.Context, apartmentID *uuid.UUID) (*DashboardStats, error) {
	now := s.now()
	stats := &DashboardStats{ApartmentID: apartmentID, GeneratedAt: now}
	approved := finance.ExpenseStatusApproved

	paid, err := s.repos.Payments.SumAmount(ctx, dues.PaymentFilter{ApartmentID: apartmentID})
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	other, err := s.repos.Incomes.SumAmount(ctx, finance.IncomeFilter{ApartmentID: apartmentID})
	if err != nil {
		return nil, fmt.Errorf("sum incomes: %w", err)
	}
	stats.TotalIncome = paid.Add(other)
	stats.TotalExpense, err = s.repos.Expenses.SumAmount(ctx, finance.ExpenseFilter{ApartmentID: apartmentID, Status: &approved})
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpense)

	active := true
	if stats.TotalResidents, err = s.repos.Residents.Count(ctx, residence.ResidentFilter{ApartmentID: apartmentID}); err != nil {
		return nil, fmt.Errorf("count residents: %w", err)
	}
	if stats.ActiveResidents, err = s.repos.Residents.Count(ctx, residence.ResidentFilter{ApartmentID: apartmentID, IsActive: &active}); err != nil {
		return nil, fmt.Errorf("count active residents: %w", err)
	}

	occupied := residence.OccupancyOccupied
	if stats.TotalFlats, err = s.repos.Flats.Count(ctx, residence.FlatFilter{ApartmentID: apartmentID}); err != nil {
		return nil, fmt.Errorf("count flats: %w", err)
	}
	if stats.OccupiedFlats, err = s.repos.Flats.Count(ctx, residence.FlatFilter{ApartmentID: apartmentID, OccupancyStatus: &occupied}); err != nil {
		return nil, fmt.Errorf("count occupied flats: %w", err)
	}
	stats.VacantFlats = stats.TotalFlats - stats.OccupiedFlats

	if stats.PendingDues, err = s.repos.Dues.Count(ctx, dues.DueFilter{ApartmentID: apartmentID, Statuses: dues.OpenStatuses()}); err != nil {
		return nil, fmt.Errorf("count open dues: %w", err)
	}
	if stats.OverdueCount, err = s.repos.Dues.Count(ctx, dues.DueFilter{ApartmentID: apartmentID, Statuses: []dues.DueStatus{dues.DueStatusOverdue}}); err != nil {
		return nil, fmt.Errorf("count overdue dues: %w", err)
	}
	if stats.OverdueAmount, err = s.repos.Dues.SumOverdue(ctx, apartmentID); err != nil {
		return nil, fmt.Errorf("sum overdue: %w", err)
	}

	if stats.CollectionRate, err = s.collectionRate(ctx, apartmentID); err != nil {
		return nil, err
	}
	if stats.Monthly, err = s.monthly(ctx, apartmentID, now); err != nil {
		return nil, err
	}
	if stats.ExpenseBreakdown, err = s.expenseBreakdown(ctx, apartmentID, stats.TotalExpense); err != nil {
		return nil, err
	}
	return stats, nil
}

// collectionRate is paid over assessed across all dues, as a percentage with one decimal
func (s *ReportService) collectionRate(ctx context.Context, apartmentID *uuid.UUID) (decimal.Decimal, error) {
	all, err := s.repos.Dues.FindAll(ctx, dues.DueFilter{ApartmentID: apartmentID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load dues: %w", err)
	}
	assessed, collected := decimal.Zero, decimal.Zero
	for i := range all {
		assessed = assessed.Add(all[i].Amount)
		collected = collected.Add(all[i].PaidAmount)
	}
	if assessed.IsZero() {
		return decimal.Zero, nil
	}
	return collected.Div(assessed).Mul(decimal.NewFromInt(100)).Round(1), nil
}

// monthly returns the trailing twelve months, oldest first, current month last
func (s *ReportService) monthly(ctx context.Context, apartmentID *uuid.UUID, now time.Time) ([]MonthlyAmount, error) {
	approved := finance.ExpenseStatusApproved
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	out := make([]MonthlyAmount, 0, 12)
	for i := 0; i < 12; i++ {
		from := first.AddDate(0, i, 0)
		to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

		paid, err := s.repos.Payments.SumAmount(ctx, dues.PaymentFilter{ApartmentID: apartmentID, FromDate: &from, ToDate: &to})
		if err != nil {
			return nil, fmt.Errorf("sum monthly payments: %w", err)
		}
		other, err := s.repos.Incomes.SumAmount(ctx, finance.IncomeFilter{ApartmentID: apartmentID, FromDate: &from, ToDate: &to})
		if err != nil {
			return nil, fmt.Errorf("sum monthly incomes: %w", err)
		}
		spent, err := s.repos.Expenses.SumAmount(ctx, finance.ExpenseFilter{ApartmentID: apartmentID, Status: &approved, FromDate: &from, ToDate: &to})
		if err != nil {
			return nil, fmt.Errorf("sum monthly expenses: %w", err)
		}
		out = append(out, MonthlyAmount{
			Year:    from.Year(),
			Month:   int(from.Month()),
			Label:   export.MonthName(int(from.Month())),
			Income:  paid.Add(other),
			Expense: spent,
		})
	}
	return out, nil
}

func (s *ReportService) expenseBreakdown(ctx context.Context, apartmentID *uuid.UUID, total decimal.Decimal) ([]CategoryAmount, error) {
	approved := finance.ExpenseStatusApproved
	totals, err := s.repos.Expenses.SumByCategory(ctx, finance.ExpenseFilter{ApartmentID: apartmentID, Status: &approved})
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	out := make([]CategoryAmount, 0, len(totals))
	for _, t := range totals {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = t.Total.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
		}
		out = append(out, CategoryAmount{
			Category:   t.Category,
			Label:      finance.ExpenseCategory(t.Category).DisplayName(),
			Amount:     t.Total,
			Percentage: pct,
		})
	}
	return out, nil
}
