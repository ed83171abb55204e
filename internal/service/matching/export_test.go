package matching

import (
	"context"

	"github.com/oggyb/desire-match/internal/repository"
)

// SetLikedBack replaces the reciprocal check used inside Like.
func SetLikedBack(s *Service, fn func(ctx context.Context, likes *repository.LikeRepository, likerID, likedID uint64) (bool, error)) {
	s.likedBack = fn
}
