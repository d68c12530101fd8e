package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/dues"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentService records and queries payments
type PaymentService interface {
	RecordPayment(ctx context.Context, session shared.Session, req dues.RecordPaymentRequest) (*dues.RecordPaymentResponse, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*dues.PaymentResponse, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*dues.PaymentResponse, error)
	ListPayments(ctx context.Context, filter dues.PaymentListFilter) (shared.Paginated[dues.PaymentResponse], error)
}

// PaymentHandler serves payment endpoints
type PaymentHandler struct {
	BaseHandler
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RecordPayment godoc
// @Summary      Record a payment
// @Description  Posts a payment against a due and returns the receipt number
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body dues.RecordPaymentRequest true "Request body"
// @Success      201 {object} dto.Response{data=dues.RecordPaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req dues.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.RecordPayment(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListPayments godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        filter query dues.PaymentListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]dues.PaymentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var filter dues.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetPayment godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} dto.Response{data=dues.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByReceipt godoc
// @Summary      Find a payment by receipt number
// @Tags         payments
// @Produce      json
// @Param        number path string true "Receipt number"
// @Success      200 {object} dto.Response{data=dues.PaymentResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/receipt/{number} [get]
func (h *PaymentHandler) GetByReceipt(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Receipt number is required")
		return
	}
	resp, err := h.service.GetByReceiptNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
