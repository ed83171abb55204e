package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(database *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: database}
}

func (r *FavoriteRepository) WithTx(tx *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, favoriteUserID uint64) error {
	return r.db.WithContext(ctx).Create(&db.Favorite{UserID: userID, FavoriteUserID: favoriteUserID}).Error
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, favoriteUserID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Favorite{}).
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Count(&count).Error
	return count > 0, err
}

// Remove is idempotent.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, favoriteUserID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Delete(&db.Favorite{}).Error
}

// ListForUser returns favorited profiles, newest first, flagged with match state.
func (r *FavoriteRepository) ListForUser(ctx context.Context, userID uint64) ([]FavoriteRow, error) {
	var rows []FavoriteRow
	err := r.db.WithContext(ctx).
		Table("favorites f").
		Select(profileColumns+", f.created_at AS favorited_date, m.user1_id IS NOT NULL AS matched").
		Joins("JOIN users u ON u.id = f.favorite_user_id").
		Joins(matchJoin("f.user_id", "f.favorite_user_id")).
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC, f.favorite_user_id DESC").
		Scan(&rows).Error
	return rows, err
}

// FavoritedAmong reports which of ids the user has favorited.
func (r *FavoriteRepository) FavoritedAmong(ctx context.Context, userID uint64, ids []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var favIDs []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Favorite{}).
		Where("user_id = ? AND favorite_user_id IN ?", userID, ids).
		Pluck("favorite_user_id", &favIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favIDs {
		out[id] = true
	}
	return out, nil
}

// DeleteAllForUser removes favorites made by or pointing at the user.
func (r *FavoriteRepository) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR favorite_user_id = ?", userID, userID).
		Delete(&db.Favorite{}).Error
}
