package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/report"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardService builds dashboard statistics
type DashboardService interface {
	Dashboard(ctx context.Context, apartmentID *uuid.UUID) (*report.DashboardStats, error)
}

// ExportService renders xlsx exports
type ExportService interface {
	ExportDues(ctx context.Context, session shared.Session, filter report.ExportFilter) (*export.File, error)
	ExportPayments(ctx context.Context, session shared.Session, filter report.ExportFilter) (*export.File, error)
	ExportExpenses(ctx context.Context, session shared.Session, filter report.ExportFilter) (*export.File, error)
	ExportIncomes(ctx context.Context, session shared.Session, filter report.ExportFilter) (*export.File, error)
	ExportAuditLogs(ctx context.Context, session shared.Session, filter report.ExportFilter) (*export.File, error)
	ExportFinancialReport(ctx context.Context, session shared.Session, filter report.FinancialReportFilter) (*export.File, error)
}

type dashboardQuery struct {
	ApartmentID *uuid.UUID `form:"apartment_id"`
}

// ReportHandler serves the dashboard and the xlsx exports
type ReportHandler struct {
	BaseHandler
	reports DashboardService
	exports ExportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports DashboardService, exports ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Description  Cached totals for dues, payments, expenses and occupancy
// @Tags         reports
// @Produce      json
// @Param        apartment_id query string false "Limit to one apartment"
// @Success      200 {object} dto.Response{data=report.DashboardStats}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	var q dashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	stats, err := h.reports.Dashboard(c.Request.Context(), q.ApartmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

type exportFunc func(context.Context, shared.Session, report.ExportFilter) (*export.File, error)

func (h *ReportHandler) export(c *gin.Context, fn exportFunc) {
	var filter report.ExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	file, err := fn(c.Request.Context(), session(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file)
}

// ExportDues godoc
// @Summary      Export dues to xlsx
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.ExportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/dues [get]
func (h *ReportHandler) ExportDues(c *gin.Context) { h.export(c, h.exports.ExportDues) }

// ExportPayments godoc
// @Summary      Export payments to xlsx
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.ExportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/payments [get]
func (h *ReportHandler) ExportPayments(c *gin.Context) { h.export(c, h.exports.ExportPayments) }

// ExportExpenses godoc
// @Summary      Export expenses to xlsx
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.ExportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/expenses [get]
func (h *ReportHandler) ExportExpenses(c *gin.Context) { h.export(c, h.exports.ExportExpenses) }

// ExportIncomes godoc
// @Summary      Export incomes to xlsx
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.ExportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/incomes [get]
func (h *ReportHandler) ExportIncomes(c *gin.Context) { h.export(c, h.exports.ExportIncomes) }

// ExportAuditLogs godoc
// @Summary      Export audit log entries to xlsx
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.ExportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/audit-logs [get]
func (h *ReportHandler) ExportAuditLogs(c *gin.Context) { h.export(c, h.exports.ExportAuditLogs) }

// ExportFinancialReport godoc
// @Summary      Export the financial report to xlsx
// @Description  Income, expense and dues collection summary for a date range
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        filter query report.FinancialReportFilter false "Filters and paging"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/financial-report [get]
func (h *ReportHandler) ExportFinancialReport(c *gin.Context) {
	var filter report.FinancialReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	file, err := h.exports.ExportFinancialReport(c.Request.Context(), session(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, file)
}
