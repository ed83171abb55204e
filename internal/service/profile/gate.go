package profile

import (
	"context"

	"github.com/oggyb/desire-match/internal/db"
)

// Visible decides access for a visibility mode. Private never opens,
// not even for matches.
func Visible(mode string, matched bool) bool {
	switch mode {
	case db.VisibilityPublic:
		return true
	case db.VisibilityMatches:
		return matched
	default:
		return false
	}
}

// CanView evaluates the visibility gate of target for viewer against the
// current Match state. The match lookup only happens for matches-only
// profiles.
func (s *Service) CanView(ctx context.Context, viewerID uint64, target *db.User) (bool, error) {
	if target.ProfileVisibility != db.VisibilityMatches {
		return Visible(target.ProfileVisibility, false), nil
	}
	matched, err := s.matches.Exists(ctx, viewerID, target.ID)
	if err != nil {
		return false, err
	}
	return Visible(target.ProfileVisibility, matched), nil
}
