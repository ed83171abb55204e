package profile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/service/view"
)

type Favorite struct {
	view.Profile
	FavoritedDate time.Time `json:"favorited_date"`
	Matched       bool      `json:"matched"`
}

func (s *Service) AddFavorite(ctx context.Context, userID, targetID uint64) error {
	if userID == targetID {
		return svcErr.SelfAction("Cannot add yourself to favorites")
	}
	if _, err := s.load(ctx, targetID); err != nil {
		return err
	}

	exists, err := s.favorites.Exists(ctx, userID, targetID)
	if err != nil {
		return svcErr.Map(err)
	}
	if exists {
		return svcErr.Duplicate("User already in favorites")
	}
	err = s.favorites.Add(ctx, userID, targetID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.Duplicate("User already in favorites")
	}
	return svcErr.Map(err)
}

// RemoveFavorite succeeds whether or not the favorite existed.
func (s *Service) RemoveFavorite(ctx context.Context, userID, targetID uint64) error {
	return svcErr.Map(s.favorites.Remove(ctx, userID, targetID))
}

func (s *Service) ListFavorites(ctx context.Context, userID uint64) ([]Favorite, error) {
	rows, err := s.favorites.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	out := make([]Favorite, 0, len(rows))
	for _, r := range rows {
		out = append(out, Favorite{Profile: view.FromRow(r.ProfileRow), FavoritedDate: r.FavoritedDate, Matched: r.Matched})
	}
	return out, nil
}
