package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries on the directed like ledger.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create inserts liker -> liked.
//
// Behavior:
//   - Composite PK rejects a second row for the same ordered pair; with
//     TranslateError on, that surfaces as gorm.ErrDuplicatedKey.
//   - Callers check Exists first inside the same transaction.
//
// Example:
//
//	repo.Create(ctx, 1, 2) // user 1 liked user 2
func (r *LikeRepository) Create(ctx context.Context, likerID, likedID uint64) error {
	return r.db.WithContext(ctx).Create(&db.Like{LikerID: likerID, LikedID: likedID}).Error
}

// Exists checks whether liker has liked liked.
//
// Example:
//
//	repo.Exists(ctx, 2, 1) // -> true if user 2 liked user 1 (the reciprocal check)
func (r *LikeRepository) Exists(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// ListSent returns the profiles the user liked, newest first, each flagged
// with whether the pair is currently matched.
func (r *LikeRepository) ListSent(ctx context.Context, likerID uint64) ([]SentLikeRow, error) {
	var rows []SentLikeRow
	err := r.db.WithContext(ctx).
		Table("likes l").
		Select(profileColumns+", l.created_at AS liked_at, m.user1_id IS NOT NULL AS matched").
		Joins("JOIN users u ON u.id = l.liked_id").
		Joins(matchJoin("l.liker_id", "l.liked_id")).
		Where("l.liker_id = ?", likerID).
		Order("l.created_at DESC, l.liked_id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListReceived returns the profiles that liked the user, newest first.
//
// Behavior:
//   - liked_back: the viewer already liked this sender.
//   - matched: a Match row exists for the pair. After an unmatch the likes
//     stay, so liked_back can be true while matched is false.
func (r *LikeRepository) ListReceived(ctx context.Context, likedID uint64) ([]ReceivedLikeRow, error) {
	var rows []ReceivedLikeRow
	err := r.db.WithContext(ctx).
		Table("likes l").
		Select(profileColumns+`, l.created_at AS liked_at,
			EXISTS (SELECT 1 FROM likes b WHERE b.liker_id = l.liked_id AND b.liked_id = l.liker_id) AS liked_back,
			m.user1_id IS NOT NULL AS matched`).
		Joins("JOIN users u ON u.id = l.liker_id").
		Joins(matchJoin("l.liker_id", "l.liked_id")).
		Where("l.liked_id = ?", likedID).
		Order("l.created_at DESC, l.liker_id DESC").
		Scan(&rows).Error
	return rows, err
}

// CountReceived returns how many users liked the given user.
func (r *LikeRepository) CountReceived(ctx context.Context, likedID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked_id = ?", likedID).
		Count(&count).Error
	return count, err
}

// DeleteAllForUser removes likes given and received by the user.
func (r *LikeRepository) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("liker_id = ? OR liked_id = ?", userID, userID).
		Delete(&db.Like{}).Error
}
