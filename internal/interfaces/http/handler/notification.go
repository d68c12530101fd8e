package handler

import (
	"context"

	"github.com/aidat/backend/internal/application/notification"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationService is the in-app notification surface
type NotificationService interface {
	Create(ctx context.Context, session shared.Session, req notification.CreateNotificationRequest) (*notification.NotificationResponse, error)
	MarkAsRead(ctx context.Context, session shared.Session, id uuid.UUID) (*notification.NotificationResponse, error)
	MarkAllAsRead(ctx context.Context, session shared.Session) (*notification.MarkAllReadResponse, error)
	List(ctx context.Context, session shared.Session, filter notification.NotificationListFilter) (shared.Paginated[notification.NotificationResponse], error)
	ListUnread(ctx context.Context, session shared.Session, filter notification.NotificationListFilter) (shared.Paginated[notification.NotificationResponse], error)
}

// NotificationHandler serves the acting admin's notifications
type NotificationHandler struct {
	BaseHandler
	service NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        filter query notification.NotificationListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]notification.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	h.list(c, h.service.List)
}

// ListUnread godoc
// @Summary      List unread notifications
// @Tags         notifications
// @Produce      json
// @Param        filter query notification.NotificationListFilter false "Filters and paging"
// @Success      200 {object} dto.Response{data=[]notification.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/unread [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	h.list(c, h.service.ListUnread)
}

type notificationListFunc func(context.Context, shared.Session, notification.NotificationListFilter) (shared.Paginated[notification.NotificationResponse], error)

func (h *NotificationHandler) list(c *gin.Context, fn notificationListFunc) {
	var filter notification.NotificationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := fn(c.Request.Context(), session(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Create godoc
// @Summary      Create a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notification.CreateNotificationRequest true "Request body"
// @Success      201 {object} dto.Response{data=notification.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req notification.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.service.Create(c.Request.Context(), session(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// MarkAsRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} dto.Response{data=notification.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.MarkAsRead(c.Request.Context(), session(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkAllAsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=notification.MarkAllReadResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	resp, err := h.service.MarkAllAsRead(c.Request.Context(), session(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
