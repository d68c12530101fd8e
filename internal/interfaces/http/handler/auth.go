package handler

import (
	"context"
	"time"

	"github.com/aidat/backend/internal/application/identity"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthService is the login surface the handler needs
type AuthService interface {
	Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error)
	Logout(ctx context.Context, session shared.Session, input identity.LogoutInput) error
	Me(ctx context.Context, session shared.Session) (*identity.AdminResponse, error)
}

// AdminService manages admin accounts
type AdminService interface {
	CreateAdmin(ctx context.Context, session shared.Session, req identity.CreateAdminRequest) (*identity.AdminResponse, error)
	ListAdmins(ctx context.Context, session shared.Session) ([]identity.AdminResponse, error)
	DeactivateAdmin(ctx context.Context, session shared.Session, id uuid.UUID) (*identity.AdminResponse, error)
}

// AuthHandler handles authentication and admin account endpoints
type AuthHandler struct {
	BaseHandler
	auth   AuthService
	admins AdminService
	now    func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, admins AdminService) *AuthHandler {
	return &AuthHandler{auth: auth, admins: admins, now: time.Now}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges admin credentials for a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Request body"
// @Success      200 {object} dto.Response{data=identity.LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented token
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, ttl := middleware.GetTokenTTL(c, h.now())
	err := h.auth.Logout(c.Request.Context(), session(c), identity.LogoutInput{TokenJTI: jti, TTL: ttl})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Çıkış yapıldı"})
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.AdminResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.auth.Me(c.Request.Context(), session(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAdmins godoc
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.AdminResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admins [get]
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	list, err := h.admins.ListAdmins(c.Request.Context(), session(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// CreateAdmin godoc
// @Summary      Create an admin
// @Description  Super-admin only
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateAdminRequest true "Request body"
// @Success      201 {object} dto.Response{data=identity.AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admins [post]
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req identity.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.admins.CreateAdmin(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// DeactivateAdmin godoc
// @Summary      Deactivate an admin
// @Description  Super-admin only. Revokes the admin's tokens
// @Tags         admins
// @Produce      json
// @Param        id path string true "Admin ID"
// @Success      200 {object} dto.Response{data=identity.AdminResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admins/{id}/deactivate [post]
func (h *AuthHandler) DeactivateAdmin(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.admins.DeactivateAdmin(c.Request.Context(), session(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
