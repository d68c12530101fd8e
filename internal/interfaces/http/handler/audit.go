package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/audit"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// AuditQuery lists the audit trail
type AuditQuery interface {
	List(ctx context.Context, filter audit.LogListFilter) (shared.Paginated[audit.LogResponse], error)
}

// AuditHandler serves the audit trail
type AuditHandler struct {
	BaseHandler
	service AuditQuery
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditQuery) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Param        filter query audit.LogListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]audit.LogResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter audit.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}
