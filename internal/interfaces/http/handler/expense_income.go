package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/finance"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FinanceService manages expenses and incomes
type FinanceService interface {
	CreateExpense(ctx context.Context, session shared.Session, req finance.ExpenseRequest) (*finance.ExpenseResponse, error)
	UpdateExpense(ctx context.Context, session shared.Session, id uuid.UUID, req finance.ExpenseRequest) (*finance.ExpenseResponse, error)
	ApproveExpense(ctx context.Context, session shared.Session, id uuid.UUID) (*finance.ExpenseResponse, error)
	RejectExpense(ctx context.Context, session shared.Session, id uuid.UUID, req finance.RejectExpenseRequest) (*finance.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, session shared.Session, id uuid.UUID) error
	GetExpense(ctx context.Context, id uuid.UUID) (*finance.ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter finance.ExpenseListFilter) (shared.Paginated[finance.ExpenseResponse], error)

	CreateIncome(ctx context.Context, session shared.Session, req finance.IncomeRequest) (*finance.IncomeResponse, error)
	UpdateIncome(ctx context.Context, session shared.Session, id uuid.UUID, req finance.IncomeRequest) (*finance.IncomeResponse, error)
	DeleteIncome(ctx context.Context, session shared.Session, id uuid.UUID) error
	GetIncome(ctx context.Context, id uuid.UUID) (*finance.IncomeResponse, error)
	ListIncomes(ctx context.Context, filter finance.IncomeListFilter) (shared.Paginated[finance.IncomeResponse], error)
}

// FinanceHandler serves expenses and incomes
type FinanceHandler struct {
	BaseHandler
	service FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(service FinanceService) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// ListExpenses godoc
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        filter query finance.ExpenseListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]finance.ExpenseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	var filter finance.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetExpense godoc
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=finance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *FinanceHandler) GetExpense(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateExpense godoc
// @Summary      Create an expense
// @Description  New expenses start pending approval
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body finance.ExpenseRequest true "Request body"
// @Success      201 {object} dto.Response{data=finance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req finance.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateExpense(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateExpense godoc
// @Summary      Update a pending expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body finance.ExpenseRequest true "Request body"
// @Success      200 {object} dto.Response{data=finance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req finance.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateExpense(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveExpense godoc
// @Summary      Approve an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=finance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/approve [post]
func (h *FinanceHandler) ApproveExpense(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.ApproveExpense(c.Request.Context(), session(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RejectExpense godoc
// @Summary      Reject an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body finance.RejectExpenseRequest true "Request body"
// @Success      200 {object} dto.Response{data=finance.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/reject [post]
func (h *FinanceHandler) RejectExpense(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req finance.RejectExpenseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	resp, err := h.service.RejectExpense(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteExpense godoc
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteExpense(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListIncomes godoc
// @Summary      List incomes
// @Tags         incomes
// @Produce      json
// @Param        filter query finance.IncomeListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]finance.IncomeResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /incomes [get]
func (h *FinanceHandler) ListIncomes(c *gin.Context) {
	var filter finance.IncomeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListIncomes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetIncome godoc
// @Summary      Get an income
// @Tags         incomes
// @Produce      json
// @Param        id path string true "Income ID"
// @Success      200 {object} dto.Response{data=finance.IncomeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /incomes/{id} [get]
func (h *FinanceHandler) GetIncome(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetIncome(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateIncome godoc
// @Summary      Record an income
// @Tags         incomes
// @Accept       json
// @Produce      json
// @Param        request body finance.IncomeRequest true "Request body"
// @Success      201 {object} dto.Response{data=finance.IncomeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /incomes [post]
func (h *FinanceHandler) CreateIncome(c *gin.Context) {
	var req finance.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateIncome(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateIncome godoc
// @Summary      Update an income
// @Tags         incomes
// @Accept       json
// @Produce      json
// @Param        id path string true "Income ID"
// @Param        request body finance.IncomeRequest true "Request body"
// @Success      200 {object} dto.Response{data=finance.IncomeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /incomes/{id} [put]
func (h *FinanceHandler) UpdateIncome(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req finance.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateIncome(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteIncome godoc
// @Summary      Delete an income
// @Tags         incomes
// @Produce      json
// @Param        id path string true "Income ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /incomes/{id} [delete]
func (h *FinanceHandler) DeleteIncome(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteIncome(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
