package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LogResponse represents an audit log entry in API responses
type LogResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	UserEmail   string          `json:"user_email"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	OldValue    json.RawMessage `json:"old_value,omitempty"`
	NewValue    json.RawMessage `json:"new_value,omitempty"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// LogListFilter defines filtering options for audit log queries
type LogListFilter struct {
	UserID     *uuid.UUID `form:"user_id"`
	Action     string     `form:"action"`
	EntityType string     `form:"entity_type"`
	EntityID   string     `form:"entity_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,max=100"`
}

// Service answers audit trail queries; writes go through audit.Emitter
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit query service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List returns audit entries matching the filter, newest first by default
func (s *Service) List(ctx context.Context, filter LogListFilter) (shared.Paginated[LogResponse], error) {
	f, err := toDomainFilter(filter)
	if err != nil {
		return shared.Paginated[LogResponse]{}, err
	}
	logs, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[LogResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[LogResponse]{}, err
	}
	out := make([]LogResponse, len(logs))
	for i := range logs {
		out[i] = toLogResponse(&logs[i])
	}
	return shared.NewPaginated(out, total, f.Page, f.PageSize), nil
}

// All returns every entry matching the filter without paging; used by exports
func (s *Service) All(ctx context.Context, filter LogListFilter) ([]audit.Log, error) {
	f, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}
	f.Page = 1
	f.PageSize = 0
	return s.repo.FindAll(ctx, f)
}

func toDomainFilter(filter LogListFilter) (audit.Filter, error) {
	f := audit.Filter{
		Filter:   shared.DefaultFilter(),
		UserID:   filter.UserID,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	f.OrderBy = "timestamp"
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		a := audit.Action(filter.Action)
		if !a.IsValid() {
			return f, shared.NewDomainError("INVALID_INPUT", "Unknown audit action")
		}
		f.Action = &a
	}
	if filter.EntityType != "" {
		t := audit.EntityType(filter.EntityType)
		if !t.IsValid() {
			return f, shared.NewDomainError("INVALID_INPUT", "Unknown entity type")
		}
		f.EntityType = &t
	}
	if filter.EntityID != "" {
		id := filter.EntityID
		f.EntityID = &id
	}
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		return f, shared.NewDomainError("INVALID_INPUT", "to_date is before from_date")
	}
	return f, nil
}

func toLogResponse(l *audit.Log) LogResponse {
	return LogResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		UserEmail:   l.UserEmail,
		Action:      string(l.Action),
		EntityType:  string(l.EntityType),
		EntityID:    l.EntityID,
		OldValue:    l.OldValue,
		NewValue:    l.NewValue,
		Description: l.Description,
		Timestamp:   l.Timestamp,
	}
}
