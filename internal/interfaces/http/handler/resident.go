package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResidentService manages residents
type ResidentService interface {
	CreateResident(ctx context.Context, session shared.Session, req residence.CreateResidentRequest) (*residence.ResidentResponse, error)
	UpdateResident(ctx context.Context, session shared.Session, id uuid.UUID, req residence.UpdateResidentRequest) (*residence.ResidentResponse, error)
	MoveOut(ctx context.Context, session shared.Session, id uuid.UUID, req residence.MoveOutRequest) (*residence.ResidentResponse, error)
	DeleteResident(ctx context.Context, session shared.Session, id uuid.UUID) error
	GetResident(ctx context.Context, id uuid.UUID) (*residence.ResidentResponse, error)
	ListResidents(ctx context.Context, filter residence.ResidentListFilter) (shared.Paginated[residence.ResidentResponse], error)
	ListActive(ctx context.Context, apartmentID *uuid.UUID, filter residence.ResidentListFilter) (shared.Paginated[residence.ResidentResponse], error)
	ListByFlat(ctx context.Context, flatID uuid.UUID) ([]residence.ResidentResponse, error)
	FlatHistory(ctx context.Context, flatID uuid.UUID) ([]residence.ResidentResponse, error)
}

// ResidentHandler serves resident endpoints
type ResidentHandler struct {
	BaseHandler
	service ResidentService
}

// NewResidentHandler creates a new ResidentHandler
func NewResidentHandler(service ResidentService) *ResidentHandler {
	return &ResidentHandler{service: service}
}

// ListResidents godoc
// @Summary      List residents
// @Tags         residents
// @Produce      json
// @Param        filter query residence.ResidentListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]residence.ResidentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents [get]
func (h *ResidentHandler) ListResidents(c *gin.Context) {
	var filter residence.ResidentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListResidents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// ListActive godoc
// @Summary      List active residents
// @Tags         residents
// @Produce      json
// @Param        apartment_id query string false "Limit to one apartment"
// @Param        filter query residence.ResidentListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]residence.ResidentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents/active [get]
func (h *ResidentHandler) ListActive(c *gin.Context) {
	var filter residence.ResidentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListActive(c.Request.Context(), filter.ApartmentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetResident godoc
// @Summary      Get a resident
// @Tags         residents
// @Produce      json
// @Param        id path string true "Resident ID"
// @Success      200 {object} dto.Response{data=residence.ResidentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents/{id} [get]
func (h *ResidentHandler) GetResident(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetResident(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateResident godoc
// @Summary      Create a resident
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        request body residence.CreateResidentRequest true "Request body"
// @Success      201 {object} dto.Response{data=residence.ResidentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents [post]
func (h *ResidentHandler) CreateResident(c *gin.Context) {
	var req residence.CreateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateResident(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateResident godoc
// @Summary      Update a resident
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID"
// @Param        request body residence.UpdateResidentRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.ResidentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents/{id} [put]
func (h *ResidentHandler) UpdateResident(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.UpdateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateResident(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MoveOut godoc
// @Summary      Move a resident out
// @Description  Sets the move-out date and frees the flat
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID"
// @Param        request body residence.MoveOutRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.ResidentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents/{id}/move-out [post]
func (h *ResidentHandler) MoveOut(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.MoveOutRequest
	// the body is optional; without a date the move-out happens today
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	resp, err := h.service.MoveOut(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteResident godoc
// @Summary      Delete a resident
// @Tags         residents
// @Produce      json
// @Param        id path string true "Resident ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /residents/{id} [delete]
func (h *ResidentHandler) DeleteResident(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteResident(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByFlat godoc
// @Summary      Residents of a flat
// @Description  Current residents, or every resident including former ones with history=true
// @Tags         residents
// @Produce      json
// @Param        id path string true "Flat ID"
// @Param        history query bool false "Include former residents"
// @Success      200 {object} dto.Response{data=[]residence.ResidentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/residents [get]
func (h *ResidentHandler) ListByFlat(c *gin.Context) {
	flatID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var (
		list []residence.ResidentResponse
		err  error
	)
	if c.Query("history") == "true" {
		list, err = h.service.FlatHistory(c.Request.Context(), flatID)
	} else {
		list, err = h.service.ListByFlat(c.Request.Context(), flatID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}
