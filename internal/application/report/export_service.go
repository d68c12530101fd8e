package report

import (
	"context"
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/finance"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/export"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportFilter narrows an export to an apartment and a date range
type ExportFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	FromDate    *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate      *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// FinancialReportFilter selects the year of the financial report
type FinancialReportFilter struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
	Year        int        `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// ExportService renders ledger data as xlsx and records every export in the audit trail
type ExportService struct {
	repos     Repositories
	auditRepo audit.Repository
	exporter  *export.Exporter
	audit     audit.Emitter
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(repos Repositories, auditRepo audit.Repository, exporter *export.Exporter, auditEmitter audit.Emitter, logger *zap.Logger) *ExportService {
	return &ExportService{
		repos:     repos,
		auditRepo: auditRepo,
		exporter:  exporter,
		audit:     auditEmitter,
		logger:    logger,
		now:       time.Now,
	}
}

func (f ExportFilter) validate() error {
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		return shared.NewDomainError("INVALID_INPUT", "to_date is before from_date")
	}
	return nil
}

// ExportDues renders dues whose due date falls in the range
func (s *ExportService) ExportDues(ctx context.Context, session shared.Session, filter ExportFilter) (*export.File, error) {
	if err := s.check(session, filter); err != nil {
		return nil, err
	}
	list, err := s.repos.Dues.FindAll(ctx, dues.DueFilter{
		Filter:      unpaged("due_date"),
		ApartmentID: filter.ApartmentID,
		DueFrom:     filter.FromDate,
		DueTo:       filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load dues: %w", err)
	}
	file, err := s.exporter.Dues(pointers(list))
	return s.finish(ctx, session, file, err, "Aidat listesi", len(list))
}

// ExportPayments renders payments made in the range
func (s *ExportService) ExportPayments(ctx context.Context, session shared.Session, filter ExportFilter) (*export.File, error) {
	if err := s.check(session, filter); err != nil {
		return nil, err
	}
	list, err := s.repos.Payments.FindAll(ctx, dues.PaymentFilter{
		Filter:      unpaged("payment_date"),
		ApartmentID: filter.ApartmentID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	file, err := s.exporter.Payments(pointers(list))
	return s.finish(ctx, session, file, err, "Ödeme listesi", len(list))
}

// ExportExpenses renders expenses dated in the range
func (s *ExportService) ExportExpenses(ctx context.Context, session shared.Session, filter ExportFilter) (*export.File, error) {
	if err := s.check(session, filter); err != nil {
		return nil, err
	}
	list, err := s.repos.Expenses.FindAll(ctx, finance.ExpenseFilter{
		Filter:      unpaged("expense_date"),
		ApartmentID: filter.ApartmentID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	file, err := s.exporter.Expenses(pointers(list))
	return s.finish(ctx, session, file, err, "Gider listesi", len(list))
}

// ExportIncomes renders incomes dated in the range
func (s *ExportService) ExportIncomes(ctx context.Context, session shared.Session, filter ExportFilter) (*export.File, error) {
	if err := s.check(session, filter); err != nil {
		return nil, err
	}
	list, err := s.repos.Incomes.FindAll(ctx, finance.IncomeFilter{
		Filter:      unpaged("income_date"),
		ApartmentID: filter.ApartmentID,
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}
	file, err := s.exporter.Incomes(pointers(list))
	return s.finish(ctx, session, file, err, "Gelir listesi", len(list))
}

// ExportAuditLogs renders the audit trail in the range
func (s *ExportService) ExportAuditLogs(ctx context.Context, session shared.Session, filter ExportFilter) (*export.File, error) {
	if err := s.check(session, filter); err != nil {
		return nil, err
	}
	list, err := s.auditRepo.FindAll(ctx, audit.Filter{
		Filter:   unpaged("timestamp"),
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("load audit logs: %w", err)
	}
	file, err := s.exporter.AuditLogs(pointers(list))
	return s.finish(ctx, session, file, err, "İşlem kayıtları", len(list))
}

// ExportFinancialReport renders the multi-sheet report of one calendar year
func (s *ExportService) ExportFinancialReport(ctx context.Context, session shared.Session, filter FinancialReportFilter) (*export.File, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	year := filter.Year
	if year == 0 {
		year = s.now().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)

	data := export.FinancialData{Year: year}
	dueList, err := s.repos.Dues.FindAll(ctx, dues.DueFilter{Filter: unpaged("due_date"), ApartmentID: filter.ApartmentID, Year: &year})
	if err != nil {
		return nil, fmt.Errorf("load dues: %w", err)
	}
	paymentList, err := s.repos.Payments.FindAll(ctx, dues.PaymentFilter{Filter: unpaged("payment_date"), ApartmentID: filter.ApartmentID, FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	expenseList, err := s.repos.Expenses.FindAll(ctx, finance.ExpenseFilter{Filter: unpaged("expense_date"), ApartmentID: filter.ApartmentID, FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	incomeList, err := s.repos.Incomes.FindAll(ctx, finance.IncomeFilter{Filter: unpaged("income_date"), ApartmentID: filter.ApartmentID, FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}
	data.Dues = pointers(dueList)
	data.Payments = pointers(paymentList)
	data.Expenses = pointers(expenseList)
	data.Incomes = pointers(incomeList)

	file, err := s.exporter.FinancialReport(data)
	rows := len(dueList) + len(paymentList) + len(expenseList) + len(incomeList)
	return s.finish(ctx, session, file, err, fmt.Sprintf("%d finansal raporu", year), rows)
}

func (s *ExportService) check(session shared.Session, filter ExportFilter) error {
	if err := session.Validate(); err != nil {
		return err
	}
	return filter.validate()
}

func (s *ExportService) finish(ctx context.Context, session shared.Session, file *export.File, err error, what string, rows int) (*export.File, error) {
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("export failed", zap.String("export", what), zap.Error(err))
		return nil, fmt.Errorf("render export: %w", err)
	}
	logger.WithLogger(ctx, s.logger).Info("export generated",
		zap.String("file", file.Name),
		zap.Int("rows", rows),
		zap.Int("bytes", len(file.Data)),
	)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionExport, audit.EntitySystem, file.Name,
		what+" dışa aktarıldı"))
	return file, nil
}

func unpaged(orderBy string) shared.Filter {
	return shared.Filter{OrderBy: orderBy, OrderDir: "asc"}
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
