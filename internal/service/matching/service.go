package matching

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/cache"
	"github.com/oggyb/desire-match/internal/db"
	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/repository"
	"github.com/oggyb/desire-match/internal/service/notification"
	"github.com/oggyb/desire-match/internal/service/view"
)

const (
	matchMessage   = "You have a new match!"
	fallbackName   = "Someone"
	defaultLockTTL = 5 * time.Second
)

// Service is the like/match engine.
// It turns one-directional likes into matches and emits the notifications
// that go with each transition. Like/Match state is never cached: every
// decision re-reads the database.
type Service struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
	outbox  *notification.Outbox

	// likedBack answers the reciprocal check inside the like transaction.
	likedBack func(ctx context.Context, likes *repository.LikeRepository, likerID, likedID uint64) (bool, error)
}

// NewMatchingService creates the engine with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via the like, match and user repositories)
//   - RedisCache for the per-pair lock and unread-count invalidation
func NewMatchingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		users:     repository.NewUserRepository(appCtx.DB),
		likes:     repository.NewLikeRepository(appCtx.DB),
		matches:   repository.NewMatchRepository(appCtx.DB),
		outbox:    notification.NewOutbox(appCtx.DB, appCtx.RedisCache, appCtx.Logger),
		likedBack: likesBack,
	}
}

func likesBack(ctx context.Context, likes *repository.LikeRepository, likerID, likedID uint64) (bool, error) {
	return likes.Exists(ctx, likedID, likerID)
}

// LikeResult is the outcome of a like.
type LikeResult struct {
	IsMatch     bool              `json:"isMatch"`
	MatchedUser *view.MatchedUser `json:"matchedUser"`
}

// Like records likerID -> likedID and creates the match when the like is
// reciprocated.
//
// Behavior:
//   - Self-like -> SelfAction; unknown target -> NotFound; repeat -> Duplicate.
//   - Runs in one transaction, serialized per unordered pair when the pair
//     lock is enabled.
//   - On a reciprocal like the Match row is inserted idempotently; the two
//     match notifications are emitted only by the call that wrote the row.
//   - Otherwise the target gets a "like" notification.
//   - Notification writes are best-effort and never undo the like or match.
//
// Example:
//
//	svc.Like(ctx, 1, 2) // -> {IsMatch: false}
//	svc.Like(ctx, 2, 1) // -> {IsMatch: true, MatchedUser: user 1}
func (s *Service) Like(ctx context.Context, likerID, likedID uint64) (*LikeResult, error) {
	s.appCtx.Logger.Debug("Like called", "liker", likerID, "liked", likedID)

	if likerID == likedID {
		return nil, svcErr.SelfAction("Cannot like yourself")
	}

	unlock, err := s.lockPair(ctx, likerID, likedID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &LikeResult{}
	var notified []uint64

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		likes := s.likes.WithTx(tx)

		target, err := users.Get(ctx, likedID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("User not found")
		}
		if err != nil {
			return err
		}

		exists, err := likes.Exists(ctx, likerID, likedID)
		if err != nil {
			return err
		}
		if exists {
			return svcErr.Duplicate("Already liked this user")
		}
		if err := likes.Create(ctx, likerID, likedID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return svcErr.Duplicate("Already liked this user")
			}
			return err
		}

		mutual, err := s.likedBack(ctx, likes, likerID, likedID)
		if err != nil {
			return err
		}

		if !mutual {
			name := s.displayName(ctx, users, likerID)
			notified = s.outbox.Emit(ctx, tx,
				notification.New(likedID, db.NotificationLike, likerID, name+" liked your profile!"),
			)
			return nil
		}

		created, err := s.matches.WithTx(tx).CreateIgnore(ctx, likerID, likedID)
		if err != nil {
			return err
		}
		result.IsMatch = true
		result.MatchedUser = &view.MatchedUser{
			ID:           target.ID,
			FirstName:    target.FirstName,
			ProfileImage: target.ProfileImage,
		}
		if created {
			notified = s.outbox.Emit(ctx, tx,
				notification.New(likedID, db.NotificationMatch, likerID, matchMessage),
				notification.New(likerID, db.NotificationMatch, likedID, matchMessage),
			)
		}
		return nil
	})
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("Like failed", "liker", likerID, "liked", likedID, "err", err)
		}
		return nil, svcErr.Map(err)
	}

	s.outbox.Invalidate(ctx, notified...)
	s.appCtx.Logger.Debug("Like result", "liker", likerID, "liked", likedID, "is_match", result.IsMatch)
	return result, nil
}

// Dislike only validates; passing on someone leaves no trace.
func (s *Service) Dislike(_ context.Context, userID, otherID uint64) error {
	if userID == otherID {
		return svcErr.SelfAction("Cannot dislike yourself")
	}
	return nil
}

// Unmatch deletes the pair's Match row and tells the other user.
// Both Like rows stay, so liking again is a Duplicate and does not bring
// the match back.
func (s *Service) Unmatch(ctx context.Context, userID, otherID uint64) error {
	if userID == otherID {
		return svcErr.SelfAction("Cannot unmatch yourself")
	}

	unlock, err := s.lockPair(ctx, userID, otherID)
	if err != nil {
		return err
	}
	defer unlock()

	var notified []uint64
	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.matches.WithTx(tx).Delete(ctx, userID, otherID)
		if err != nil {
			return err
		}
		if !deleted {
			return svcErr.NotFound("No match found").WithStatus(http.StatusBadRequest)
		}

		name := s.displayName(ctx, s.users.WithTx(tx), userID)
		notified = s.outbox.Emit(ctx, tx,
			notification.New(otherID, db.NotificationUnmatch, userID, name+" unmatched with you"),
		)
		return nil
	})
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("Unmatch failed", "user", userID, "other", otherID, "err", err)
		}
		return svcErr.Map(err)
	}

	s.outbox.Invalidate(ctx, notified...)
	return nil
}

// MatchItem is a matched profile with the time the match was made.
type MatchItem struct {
	view.Profile
	MatchDate time.Time `json:"match_date"`
}

// SentLike is a profile the caller liked.
type SentLike struct {
	view.Profile
	LikedAt time.Time `json:"liked_at"`
	Matched bool      `json:"matched"`
}

// ReceivedLike is a profile that liked the caller.
type ReceivedLike struct {
	view.Profile
	LikedAt   time.Time `json:"liked_at"`
	LikedBack bool      `json:"liked_back"`
	Matched   bool      `json:"matched"`
}

// Matches lists the caller's current matches, newest first.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]MatchItem, error) {
	rows, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	out := make([]MatchItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, MatchItem{Profile: view.FromRow(r.ProfileRow), MatchDate: r.MatchDate})
	}
	return out, nil
}

// SentLikes lists who the caller liked, newest first.
func (s *Service) SentLikes(ctx context.Context, userID uint64) ([]SentLike, error) {
	rows, err := s.likes.ListSent(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	out := make([]SentLike, 0, len(rows))
	for _, r := range rows {
		out = append(out, SentLike{Profile: view.FromRow(r.ProfileRow), LikedAt: r.LikedAt, Matched: r.Matched})
	}
	return out, nil
}

// ReceivedLikes lists who liked the caller, newest first.
func (s *Service) ReceivedLikes(ctx context.Context, userID uint64) ([]ReceivedLike, error) {
	rows, err := s.likes.ListReceived(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	out := make([]ReceivedLike, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReceivedLike{
			Profile:   view.FromRow(r.ProfileRow),
			LikedAt:   r.LikedAt,
			LikedBack: r.LikedBack,
			Matched:   r.Matched,
		})
	}
	return out, nil
}

// ReceivedLikesCount returns how many users liked the caller.
func (s *Service) ReceivedLikesCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.likes.CountReceived(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}
	return count, nil
}

// displayName falls back to a placeholder; a missing name never aborts
// the action.
func (s *Service) displayName(ctx context.Context, users *repository.UserRepository, id uint64) string {
	name, err := users.FirstName(ctx, id)
	if err != nil || name == "" {
		return fallbackName
	}
	return name
}

// lockPair takes the per-pair Redis lock when enabled. The returned func
// always releases, even after ctx is canceled.
func (s *Service) lockPair(ctx context.Context, a, b uint64) (func(), error) {
	cfg := s.appCtx.Config
	if cfg == nil || !cfg.Match.PairLock || s.appCtx.RedisCache == nil {
		return func() {}, nil
	}

	ttl := cfg.Match.PairLockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	unlock, err := s.appCtx.RedisCache.LockPair(ctx, a, b, ttl)
	if errors.Is(err, cache.ErrLockTimeout) {
		return nil, svcErr.Unavailable("Another action on this pair is in progress, please retry")
	}
	if err != nil {
		s.appCtx.Logger.Error("pair lock failed", "a", a, "b", b, "err", err)
		return nil, svcErr.Map(err)
	}

	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.appCtx.Logger.Warn("pair unlock failed", "a", a, "b", b, "err", err)
		}
	}, nil
}
