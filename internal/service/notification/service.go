package notification

import (
	"context"
	"errors"
	"time"

	"github.com/oggyb/desire-match/internal/app"
	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/repository"
	"github.com/oggyb/desire-match/internal/utils/pagination"
)

// Service is the read side of the notification outbox.
type Service struct {
	appCtx *app.AppContext
	repo   *repository.NotificationRepository
	outbox *Outbox
}

func NewNotificationService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		repo:   repository.NewNotificationRepository(appCtx.DB),
		outbox: NewOutbox(appCtx.DB, appCtx.RedisCache, appCtx.Logger),
	}
}

// Item is one notification as returned to clients.
type Item struct {
	ID               uint64    `json:"id"`
	Type             string    `json:"type"`
	Message          string    `json:"message"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
	FromUserID       *uint64   `json:"from_user_id"`
	FromFirstName    string    `json:"from_first_name,omitempty"`
	FromLastName     string    `json:"from_last_name,omitempty"`
	FromProfileImage string    `json:"from_profile_image,omitempty"`
}

// List returns a page of the user's notifications, newest first.
//
// Behavior:
//   - limit is clamped to [1, 50], default 20.
//   - nextToken is nil on the last page.
func (s *Service) List(ctx context.Context, userID uint64, token *string, limit int) ([]Item, *string, error) {
	rows, next, err := s.repo.ListForUser(ctx, userID, token, pagination.ClampLimit(limit))
	if errors.Is(err, pagination.ErrInvalidToken) {
		return nil, nil, svcErr.InvalidArgument("Invalid pagination token")
	}
	if err != nil {
		s.appCtx.Logger.Error("ListForUser failed", "user", userID, "err", err)
		return nil, nil, svcErr.Map(err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			ID:               r.ID,
			Type:             r.Type,
			Message:          r.Message,
			IsRead:           r.IsRead,
			CreatedAt:        r.CreatedAt,
			FromUserID:       r.FromUserID,
			FromFirstName:    r.FromFirstName,
			FromLastName:     r.FromLastName,
			FromProfileImage: r.FromProfileImage,
		})
	}
	return items, next, nil
}

// MarkRead flags one of the caller's notifications. Another user's
// notification is reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	found, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !found {
		return svcErr.NotFound("Notification not found")
	}
	s.outbox.Invalidate(ctx, userID)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint64) error {
	if _, err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return svcErr.Map(err)
	}
	s.outbox.Invalidate(ctx, userID)
	return nil
}

// UnreadCount returns how many notifications the user has not read.
// Cache-first strategy:
//  1. Attempts to read from Redis (notifications:unread:userID).
//  2. On a miss or cache error, counts in the DB.
//  3. Writes the DB count back with a 1h TTL.
func (s *Service) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetUnreadCount(ctx, userID)
		if err != nil {
			s.appCtx.Logger.Warn("unread count cache read failed", "user", userID, "err", err)
		} else if ok {
			return n, nil
		}
	}

	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	if rc != nil {
		if err := rc.SetUnreadCount(ctx, userID, n); err != nil {
			s.appCtx.Logger.Warn("unread count cache write failed", "user", userID, "err", err)
		}
	}
	return n, nil
}
