package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResidenceService manages apartments, blocks and flats
type ResidenceService interface {
	CreateApartment(ctx context.Context, session shared.Session, req residence.ApartmentRequest) (*residence.ApartmentResponse, error)
	UpdateApartment(ctx context.Context, session shared.Session, id uuid.UUID, req residence.ApartmentRequest) (*residence.ApartmentResponse, error)
	DeleteApartment(ctx context.Context, session shared.Session, id uuid.UUID) error
	GetApartment(ctx context.Context, id uuid.UUID) (*residence.ApartmentResponse, error)
	ListApartments(ctx context.Context, filter residence.ListFilter) (shared.Paginated[residence.ApartmentResponse], error)

	CreateBlock(ctx context.Context, session shared.Session, req residence.CreateBlockRequest) (*residence.BlockResponse, error)
	UpdateBlock(ctx context.Context, session shared.Session, id uuid.UUID, req residence.UpdateBlockRequest) (*residence.BlockResponse, error)
	DeleteBlock(ctx context.Context, session shared.Session, id uuid.UUID) error
	GetBlock(ctx context.Context, id uuid.UUID) (*residence.BlockResponse, error)
	ListBlocks(ctx context.Context, apartmentID uuid.UUID) ([]residence.BlockResponse, error)

	CreateFlat(ctx context.Context, session shared.Session, req residence.CreateFlatRequest) (*residence.FlatResponse, error)
	UpdateFlat(ctx context.Context, session shared.Session, id uuid.UUID, req residence.UpdateFlatRequest) (*residence.FlatResponse, error)
	DeleteFlat(ctx context.Context, session shared.Session, id uuid.UUID) error
	AssignOwner(ctx context.Context, session shared.Session, flatID uuid.UUID, req residence.AssignResidentRequest) (*residence.FlatResponse, error)
	AssignTenant(ctx context.Context, session shared.Session, flatID uuid.UUID, req residence.AssignResidentRequest) (*residence.FlatResponse, error)
	GetFlat(ctx context.Context, id uuid.UUID) (*residence.FlatResponse, error)
	ListFlats(ctx context.Context, filter residence.FlatListFilter) (shared.Paginated[residence.FlatResponse], error)
}

// ResidenceHandler serves apartments, blocks and flats
type ResidenceHandler struct {
	BaseHandler
	service ResidenceService
}

// NewResidenceHandler creates a new ResidenceHandler
func NewResidenceHandler(service ResidenceService) *ResidenceHandler {
	return &ResidenceHandler{service: service}
}

// ListApartments godoc
// @Summary      List apartments
// @Tags         apartments
// @Produce      json
// @Param        filter query residence.ListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]residence.ApartmentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments [get]
func (h *ResidenceHandler) ListApartments(c *gin.Context) {
	var filter residence.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListApartments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetApartment godoc
// @Summary      Get an apartment
// @Tags         apartments
// @Produce      json
// @Param        id path string true "Apartment ID"
// @Success      200 {object} dto.Response{data=residence.ApartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments/{id} [get]
func (h *ResidenceHandler) GetApartment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetApartment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateApartment godoc
// @Summary      Create an apartment
// @Tags         apartments
// @Accept       json
// @Produce      json
// @Param        request body residence.ApartmentRequest true "Request body"
// @Success      201 {object} dto.Response{data=residence.ApartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments [post]
func (h *ResidenceHandler) CreateApartment(c *gin.Context) {
	var req residence.ApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateApartment(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateApartment godoc
// @Summary      Update an apartment
// @Tags         apartments
// @Accept       json
// @Produce      json
// @Param        id path string true "Apartment ID"
// @Param        request body residence.ApartmentRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.ApartmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments/{id} [put]
func (h *ResidenceHandler) UpdateApartment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.ApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateApartment(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteApartment godoc
// @Summary      Delete an apartment
// @Tags         apartments
// @Produce      json
// @Param        id path string true "Apartment ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments/{id} [delete]
func (h *ResidenceHandler) DeleteApartment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteApartment(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListBlocks godoc
// @Summary      List the blocks of an apartment
// @Tags         blocks
// @Produce      json
// @Param        id path string true "Apartment ID"
// @Success      200 {object} dto.Response{data=[]residence.BlockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /apartments/{id}/blocks [get]
func (h *ResidenceHandler) ListBlocks(c *gin.Context) {
	apartmentID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	list, err := h.service.ListBlocks(c.Request.Context(), apartmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetBlock godoc
// @Summary      Get a block
// @Tags         blocks
// @Produce      json
// @Param        id path string true "Block ID"
// @Success      200 {object} dto.Response{data=residence.BlockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blocks/{id} [get]
func (h *ResidenceHandler) GetBlock(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetBlock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateBlock godoc
// @Summary      Create a block
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Param        request body residence.CreateBlockRequest true "Request body"
// @Success      201 {object} dto.Response{data=residence.BlockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blocks [post]
func (h *ResidenceHandler) CreateBlock(c *gin.Context) {
	var req residence.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateBlock(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateBlock godoc
// @Summary      Update a block
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Param        id path string true "Block ID"
// @Param        request body residence.UpdateBlockRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.BlockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blocks/{id} [put]
func (h *ResidenceHandler) UpdateBlock(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateBlock(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteBlock godoc
// @Summary      Delete a block
// @Tags         blocks
// @Produce      json
// @Param        id path string true "Block ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blocks/{id} [delete]
func (h *ResidenceHandler) DeleteBlock(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBlock(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListFlats godoc
// @Summary      List flats
// @Tags         flats
// @Produce      json
// @Param        filter query residence.FlatListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]residence.FlatResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats [get]
func (h *ResidenceHandler) ListFlats(c *gin.Context) {
	var filter residence.FlatListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.service.ListFlats(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetFlat godoc
// @Summary      Get a flat
// @Tags         flats
// @Produce      json
// @Param        id path string true "Flat ID"
// @Success      200 {object} dto.Response{data=residence.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [get]
func (h *ResidenceHandler) GetFlat(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetFlat(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateFlat godoc
// @Summary      Create a flat
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        request body residence.CreateFlatRequest true "Request body"
// @Success      201 {object} dto.Response{data=residence.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats [post]
func (h *ResidenceHandler) CreateFlat(c *gin.Context) {
	var req residence.CreateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.CreateFlat(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateFlat godoc
// @Summary      Update a flat
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        id path string true "Flat ID"
// @Param        request body residence.UpdateFlatRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [put]
func (h *ResidenceHandler) UpdateFlat(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.UpdateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.UpdateFlat(c.Request.Context(), session(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteFlat godoc
// @Summary      Delete a flat
// @Tags         flats
// @Produce      json
// @Param        id path string true "Flat ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id} [delete]
func (h *ResidenceHandler) DeleteFlat(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteFlat(c.Request.Context(), session(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignOwner godoc
// @Summary      Assign the owner of a flat
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        id path string true "Flat ID"
// @Param        request body residence.AssignResidentRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/assign-owner [post]
func (h *ResidenceHandler) AssignOwner(c *gin.Context) {
	h.assign(c, h.service.AssignOwner)
}

// AssignTenant godoc
// @Summary      Assign the tenant of a flat
// @Tags         flats
// @Accept       json
// @Produce      json
// @Param        id path string true "Flat ID"
// @Param        request body residence.AssignResidentRequest true "Request body"
// @Success      200 {object} dto.Response{data=residence.FlatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /flats/{id}/assign-tenant [post]
func (h *ResidenceHandler) AssignTenant(c *gin.Context) {
	h.assign(c, h.service.AssignTenant)
}

type assignFunc func(context.Context, shared.Session, uuid.UUID, residence.AssignResidentRequest) (*residence.FlatResponse, error)

func (h *ResidenceHandler) assign(c *gin.Context, fn assignFunc) {
	flatID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req residence.AssignResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := fn(c.Request.Context(), session(c), flatID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
