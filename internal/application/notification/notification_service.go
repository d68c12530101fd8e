package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/aidat/backend/internal/domain/audit"
	"github.com/aidat/backend/internal/domain/dues"
	"github.com/aidat/backend/internal/domain/notification"
	"github.com/aidat/backend/internal/domain/residence"
	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService manages in-app notifications for admins
type NotificationService struct {
	repo      notification.Repository
	dueRepo   dues.DueRepository
	flatRepo  residence.FlatRepository
	blockRepo residence.BlockRepository
	audit     audit.Emitter
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	repo notification.Repository,
	dueRepo dues.DueRepository,
	flatRepo residence.FlatRepository,
	blockRepo residence.BlockRepository,
	auditEmitter audit.Emitter,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		repo:      repo,
		dueRepo:   dueRepo,
		flatRepo:  flatRepo,
		blockRepo: blockRepo,
		audit:     auditEmitter,
		logger:    logger,
		now:       time.Now,
	}
}

// Create posts a notification on behalf of an admin
func (s *NotificationService) Create(ctx context.Context, session shared.Session, req CreateNotificationRequest) (*NotificationResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	n, err := notification.New(req.UserID, notification.Type(req.Type), req.Title, req.Message)
	if err != nil {
		return nil, err
	}
	n.Link = req.Link
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := toNotificationResponse(n)
	s.audit.Emit(ctx, audit.NewEntry(session, audit.ActionCreate, audit.EntityNotification, n.ID.String(),
		"Bildirim oluşturuldu: "+n.Title).WithValues(nil, resp))
	return &resp, nil
}

// MarkAsRead marks one notification visible to the session as read
func (s *NotificationService) MarkAsRead(ctx context.Context, session shared.Session, id uuid.UUID) (*NotificationResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != nil && *n.UserID != session.UserID {
		return nil, shared.ErrNotFound
	}
	if !n.IsRead {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := toNotificationResponse(n)
	return &resp, nil
}

// MarkAllAsRead marks every unread notification visible to the session as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, session shared.Session) (*MarkAllReadResponse, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkAllRead(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: n}, nil
}

// List lists notifications visible to the session, newest first
func (s *NotificationService) List(ctx context.Context, session shared.Session, filter NotificationListFilter) (shared.Paginated[NotificationResponse], error) {
	if err := session.Validate(); err != nil {
		return shared.Paginated[NotificationResponse]{}, err
	}
	f := notification.Filter{
		Filter: shared.DefaultFilter(),
		UserID: &session.UserID,
		IsRead: filter.IsRead,
	}
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Type != "" {
		t := notification.Type(filter.Type)
		if !t.IsValid() {
			return shared.Paginated[NotificationResponse]{}, shared.NewDomainError("INVALID_INPUT", "Unknown notification type")
		}
		f.Type = &t
	}

	items, err := s.repo.FindForUser(ctx, f)
	if err != nil {
		return shared.Paginated[NotificationResponse]{}, err
	}
	total, err := s.repo.CountForUser(ctx, f)
	if err != nil {
		return shared.Paginated[NotificationResponse]{}, err
	}
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = toNotificationResponse(&items[i])
	}
	return shared.NewPaginated(out, total, f.Page, f.PageSize), nil
}

// ListUnread lists unread notifications visible to the session
func (s *NotificationService) ListUnread(ctx context.Context, session shared.Session, filter NotificationListFilter) (shared.Paginated[NotificationResponse], error) {
	unread := false
	filter.IsRead = &unread
	return s.List(ctx, session, filter)
}

// SendMonthlyReminders posts a reminder for the open dues of the current month.
// It returns the number of notifications created.
func (s *NotificationService) SendMonthlyReminders(ctx context.Context, session shared.Session) (int, error) {
	if err := session.Validate(); err != nil {
		return 0, err
	}
	now := s.now()
	month, year := int(now.Month()), now.Year()
	open, err := s.dueRepo.Count(ctx, dues.DueFilter{
		Filter:   shared.DefaultFilter(),
		Statuses: dues.OpenStatuses(),
		Month:    &month,
		Year:     &year,
	})
	if err != nil {
		return 0, fmt.Errorf("count open dues: %w", err)
	}
	if open == 0 {
		return 0, nil
	}
	if err := s.repo.Save(ctx, notification.MonthlyReminder(month, year, open)); err != nil {
		return 0, err
	}
	logger.WithLogger(ctx, s.logger).Info("monthly reminder created",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int64("open_dues", open),
	)
	return 1, nil
}

// notify stores a notification produced by an event handler
func (s *NotificationService) notify(ctx context.Context, n *notification.Notification) error {
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

// flatLabel renders "A Blok / 12" for messages; lookups that fail degrade to the flat id
func (s *NotificationService) flatLabel(ctx context.Context, flatID uuid.UUID) string {
	flat, err := s.flatRepo.FindByID(ctx, flatID)
	if err != nil {
		return "Daire " + flatID.String()[:8]
	}
	block, err := s.blockRepo.FindByID(ctx, flat.BlockID)
	if err != nil {
		return "Daire " + flat.FlatNumber
	}
	return block.Name + " / " + flat.FlatNumber
}
