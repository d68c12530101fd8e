package notification

import (
	"time"

	"github.com/aidat/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID                uuid.UUID  `json:"id"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Message           string     `json:"message"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	Link              string     `json:"link,omitempty"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uuid.UUID `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreateNotificationRequest is used by admins to post a notification.
// Without a user id the notification is visible to every admin.
type CreateNotificationRequest struct {
	UserID  *uuid.UUID `json:"user_id"`
	Type    string     `json:"type" binding:"required,oneof=overdue reminder payment system alert"`
	Title   string     `json:"title" binding:"required,max=200"`
	Message string     `json:"message" binding:"max=1000"`
	Link    string     `json:"link" binding:"max=500"`
}

// NotificationListFilter defines filtering options for notification list queries
type NotificationListFilter struct {
	Type     string `form:"type"`
	IsRead   *bool  `form:"is_read"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// MarkAllReadResponse reports how many notifications were marked
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:                n.ID,
		UserID:            n.UserID,
		Type:              string(n.Type),
		Title:             n.Title,
		Message:           n.Message,
		IsRead:            n.IsRead,
		ReadAt:            n.ReadAt,
		Link:              n.Link,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		CreatedAt:         n.CreatedAt,
	}
}
