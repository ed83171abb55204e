package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/desire-match/internal/db"
)

// MatchRepository stores one row per unordered matched pair, always as
// (min, max) so lookups in either direction hit the same primary key.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// CreateIgnore inserts Match{a, b} unless it already exists.
// created reports whether this call wrote the row.
func (r *MatchRepository) CreateIgnore(ctx context.Context, a, b uint64) (created bool, err error) {
	u1, u2 := db.CanonicalPair(a, b)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.Match{User1ID: u1, User2ID: u2})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *MatchRepository) Exists(ctx context.Context, a, b uint64) (bool, error) {
	u1, u2 := db.CanonicalPair(a, b)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the pair's match; deleted is false when there was none.
func (r *MatchRepository) Delete(ctx context.Context, a, b uint64) (deleted bool, err error) {
	u1, u2 := db.CanonicalPair(a, b)
	res := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Delete(&db.Match{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListForUser returns the other side of every match of userID, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]MatchRow, error) {
	var rows []MatchRow
	err := r.db.WithContext(ctx).
		Table("matches m").
		Select(profileColumns+", m.created_at AS match_date").
		Joins("JOIN users u ON (u.id = m.user1_id OR u.id = m.user2_id) AND u.id <> ?", userID).
		Where("m.user1_id = ? OR m.user2_id = ?", userID, userID).
		Order("m.created_at DESC, u.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *MatchRepository) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Delete(&db.Match{}).Error
}
