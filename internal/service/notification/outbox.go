package notification

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/cache"
	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/repository"
)

// Outbox is how other services write notifications.
//
// Writes are best-effort: they run in a savepoint of the caller's
// transaction, so a failed insert is logged and rolled back on its own
// while the caller's primary effect still commits.
type Outbox struct {
	repo  *repository.NotificationRepository
	cache *cache.RedisCache
	log   *slog.Logger
}

func NewOutbox(database *gorm.DB, rc *cache.RedisCache, log *slog.Logger) *Outbox {
	return &Outbox{
		repo:  repository.NewNotificationRepository(database),
		cache: rc,
		log:   log,
	}
}

// New builds a notification from one user to another.
func New(to uint64, kind string, from uint64, msg string) db.Notification {
	return db.Notification{UserID: to, Type: kind, FromUserID: &from, Message: msg}
}

// Emit writes ns inside tx and returns the recipients that were written,
// for Invalidate after commit. A failure returns nil and is only logged.
func (o *Outbox) Emit(ctx context.Context, tx *gorm.DB, ns ...db.Notification) []uint64 {
	if len(ns) == 0 {
		return nil
	}
	err := tx.Transaction(func(sp *gorm.DB) error {
		return o.repo.WithTx(sp).CreateBatch(ctx, ns)
	})
	if err != nil {
		o.log.WarnContext(ctx, "notification write failed",
			"type", ns[0].Type,
			"count", len(ns),
			"err", err,
		)
		return nil
	}

	recipients := make([]uint64, 0, len(ns))
	for _, n := range ns {
		recipients = append(recipients, n.UserID)
	}
	return recipients
}

// Invalidate drops cached unread counts. Call it after the transaction
// that emitted the notifications has committed.
func (o *Outbox) Invalidate(ctx context.Context, userIDs ...uint64) {
	if o.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := o.cache.InvalidateUnreadCount(ctx, userIDs...); err != nil {
		o.log.WarnContext(ctx, "unread count invalidation failed", "users", userIDs, "err", err)
	}
}
