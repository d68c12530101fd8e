package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DueService is the due record surface used by the handler
type DueService interface {
	CreateDue(ctx context.Context, session shared.Session, req dues.CreateDueRequest) (*dues.DueResponse, error)
	BulkCreateDues(ctx context.Context, session shared.Session, req dues.BulkCreateDuesRequest) (*dues.BulkCreateResult, error)
	MarkAsPaid(ctx context.Context, session shared.Session, id uuid.UUID) (*dues.DueResponse, error)
	UpdateDue(ctx context.Context, session shared.Session, id uuid.UUID, req dues.UpdateDueRequest) (*dues.DueResponse, error)
	GetDue(ctx context.Context, id uuid.UUID) (*dues.DueResponse, error)
	ListDues(ctx context.Context, filter dues.DueListFilter) (shared.Paginated[dues.DueResponse], error)
	ListOverdue(ctx context.Context, filter dues.DueListFilter) (shared.Paginated[dues.DueResponse], error)
	FlatHistory(ctx context.Context, flatID uuid.UUID, filter dues.DueListFilter) (shared.Paginated[dues.DueResponse], error)
}

// LateFeeRunner runs the late-fee accrual on demand
type LateFeeRunner interface {
	ApplyLateFees(ctx context.Context, session shared.Session) (int, error)
}

// PaymentLister lists the payments posted against a due
type PaymentLister interface {
	ListByDue(ctx context.Context, dueID uuid.UUID) ([]dues.PaymentResponse, error)
}

// DueHandler serves due records
type DueHandler struct {
	BaseHandler
	dues     DueService
	lateFees LateFeeRunner
	payments PaymentLister
}

// NewDueHandler creates a new DueHandler
func NewDueHandler(dueService DueService, lateFees LateFeeRunner, payments PaymentLister) *DueHandler {
	return &DueHandler{dues: dueService, lateFees: lateFees, payments: payments}
}

// ListDues godoc
// @Summary      List dues
// @Tags         dues
// @Produce      json
// @Param        filter query dues.DueListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]dues.DueResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues [get]
func (h *DueHandler) ListDues(c *gin.Context) {
	h.list(c, h.dues.ListDues)
}

// ListOverdue godoc
// @Summary      List overdue dues
// @Tags         dues
// @Produce      json
// @Param        filter query dues.DueListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]dues.DueResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/overdue [get]
func (h *DueHandler) ListOverdue(c *gin.Context) {
	h.list(c, h.dues.ListOverdue)
}

func (h *DueHandler) list(c *gin.Context, fn func(context.Context, dues.DueListFilter) (shared.Paginated[dues.DueResponse], error)) {
	var filter dues.DueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := fn(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// FlatDues godoc
// @Summary      Due history of a flat
// @Tags         dues
// @Produce      json
// @Param        id path string true "Flat ID"
// @Param        filter query dues.DueListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]dues.DueResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/dues [get]
func (h *DueHandler) FlatDues(c *gin.Context) {
	flatID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var filter dues.DueListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.dues.FlatHistory(c.Request.Context(), flatID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetDue godoc
// @Summary      Get a due
// @Tags         dues
// @Produce      json
// @Param        id path string true "Due ID"
// @Success      200 {object} dto.Response{data=dues.DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id} [get]
func (h *DueHandler) GetDue(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.dues.GetDue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateDue godoc
// @Summary      Create a due
// @Description  Creates a pending due for one flat and period
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        request body dues.CreateDueRequest true "Request body"
// @Success      201 {object} dto.Response{data=dues.DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues [post]
func (h *DueHandler) CreateDue(c *gin.Context) {
	var req dues.CreateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.dues.CreateDue(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// BulkCreateDues godoc
// @Summary      Create dues in bulk
// @Description  Creates one due per flat of an apartment or block. Flats that already have a due for the period are skipped and counted.
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        request body dues.BulkCreateDuesRequest true "Request body"
// @Success      201 {object} dto.Response{data=dues.BulkCreateResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/bulk [post]
func (h *DueHandler) BulkCreateDues(c *gin.Context) {
	var req dues.BulkCreateDuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.dues.BulkCreateDues(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateDue godoc
// @Summary      Update a due
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Due ID"
// @Param        request body dues.UpdateDueRequest true "Request body"
// @Success      200 {object} dto.Response{data=dues.DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id} [put]
func (h *DueHandler) UpdateDue(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dues.UpdateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.dues.UpdateDue(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkAsPaid godoc
// @Summary      Mark a due as paid
// @Description  Records the remaining balance as a payment
// @Tags         dues
// @Produce      json
// @Param        id path string true "Due ID"
// @Success      200 {object} dto.Response{data=dues.DueResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/mark-paid [post]
func (h *DueHandler) MarkAsPaid(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.dues.MarkAsPaid(c.Request.Context(), session(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApplyLateFees godoc
// @Summary      Apply late fees now
// @Description  Runs the late fee job with the caller's session. Fails with 409 while the scheduled run is in progress.
// @Tags         dues
// @Produce      json
// @Success      200 {object} dto.Response{data=dues.LateFeeRunResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/apply-late-fees [post]
func (h *DueHandler) ApplyLateFees(c *gin.Context) {
	updated, err := h.lateFees.ApplyLateFees(c.Request.Context(), session(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dues.LateFeeRunResponse{Updated: updated})
}

// ListPayments godoc
// @Summary      Payments of a due
// @Tags         dues
// @Produce      json
// @Param        id path string true "Due ID"
// @Success      200 {object} dto.Response{data=[]dues.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dues/{id}/payments [get]
func (h *DueHandler) ListPayments(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.payments.ListByDue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
