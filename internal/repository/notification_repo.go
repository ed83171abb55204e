package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/utils/pagination"
)

// NotificationRepository is the per-user polled outbox.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(ctx context.Context, n *db.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateBatch inserts all notifications in one statement.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []db.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

// ListForUser returns the user's notifications, newest first, with the
// origin user's name attached when there is one.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken; the returned
//     token is nil on the last page.
//
// Example:
//
//	repo.ListForUser(ctx, 42, nil, 20) // first 20 notifications of user 42
func (r *NotificationRepository) ListForUser(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]NotificationRow, *string, error) {
	var rows []NotificationRow

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("notifications n").
		Select(`n.id, n.type, n.message, n.is_read, n.created_at, n.from_user_id,
			COALESCE(u.first_name, '') AS from_first_name,
			COALESCE(u.last_name, '') AS from_last_name,
			COALESCE(u.profile_image, '') AS from_profile_image`).
		Joins("LEFT JOIN users u ON u.id = n.from_user_id").
		Where("n.user_id = ?", userID).
		Order("n.created_at DESC, n.id DESC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(n.created_at < ? OR (n.created_at = ? AND n.id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// MarkRead flags one of the user's notifications as read. found is false
// when the notification does not exist or belongs to someone else.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uint64) (found bool, err error) {
	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// MySQL reports 0 affected rows for an already-read row
	var count int64
	err = r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error
	return count > 0, err
}

// MarkAllRead flags every unread notification of the user; returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// RecipientsFrom lists the distinct users holding a notification sent by fromUserID.
func (r *NotificationRepository) RecipientsFrom(ctx context.Context, fromUserID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Distinct("user_id").
		Where("from_user_id = ?", fromUserID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// DeleteAllForUser removes notifications addressed to or originating from the user.
func (r *NotificationRepository) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR from_user_id = ?", userID, userID).
		Delete(&db.Notification{}).Error
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
