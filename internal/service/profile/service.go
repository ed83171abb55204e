package profile

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/db"
	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/repository"
	"github.com/oggyb/desire-match/internal/service/view"
)

const (
	defaultBrowseLimit = 12
	maxBrowseLimit     = 50
	privateMessage     = "This profile is private. Try liking them to create a match and unlock their full profile!"
)

// Service serves profile reads and writes, discovery, onboarding and
// favorites. Every read of another user's profile goes through CanView.
type Service struct {
	appCtx        *app.AppContext
	users         *repository.UserRepository
	likes         *repository.LikeRepository
	matches       *repository.MatchRepository
	favorites     *repository.FavoriteRepository
	conversations *repository.ConversationRepository
	notifications *repository.NotificationRepository

	// intn returns a value in [0, n); swapped in tests.
	intn func(n int) int
}

func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		users:         repository.NewUserRepository(appCtx.DB),
		likes:         repository.NewLikeRepository(appCtx.DB),
		matches:       repository.NewMatchRepository(appCtx.DB),
		favorites:     repository.NewFavoriteRepository(appCtx.DB),
		conversations: repository.NewConversationRepository(appCtx.DB),
		notifications: repository.NewNotificationRepository(appCtx.DB),
		intn:          rand.IntN,
	}
}

// WithRand returns a copy drawing samples from intn.
func (s *Service) WithRand(intn func(n int) int) *Service {
	c := *s
	c.intn = intn
	return &c
}

// Detail is another user's profile as shown once the gate opens.
type Detail struct {
	view.Profile
	Gender            string    `json:"gender"`
	Interests         []string  `json:"interests"`
	ProfileVisibility string    `json:"profile_visibility"`
	CreatedAt         time.Time `json:"created_at"`
}

// Account is the caller's own profile including settings.
type Account struct {
	view.Profile
	Email              string    `json:"email"`
	Gender             string    `json:"gender"`
	InterestedIn       string    `json:"interested_in"`
	Interests          []string  `json:"interests"`
	IsPremium          bool      `json:"is_premium"`
	EmailNotifications bool      `json:"email_notifications"`
	PushNotifications  bool      `json:"push_notifications"`
	ProfileVisibility  string    `json:"profile_visibility"`
	Theme              string    `json:"theme"`
	CreatedAt          time.Time `json:"created_at"`
}

func (s *Service) load(ctx context.Context, id uint64) (*db.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return u, nil
}

// GetProfile returns targetID's profile if the visibility gate lets viewerID in.
func (s *Service) GetProfile(ctx context.Context, viewerID, targetID uint64) (*Detail, error) {
	if viewerID == targetID {
		return nil, svcErr.InvalidArgument("Cannot view your own profile this way")
	}
	target, err := s.load(ctx, targetID)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanView(ctx, viewerID, target)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !ok {
		return nil, svcErr.Permission(privateMessage)
	}
	return &Detail{
		Profile:           view.FromUser(target),
		Gender:            target.Gender,
		Interests:         view.Strings(target.Interests),
		ProfileVisibility: target.ProfileVisibility,
		CreatedAt:         target.CreatedAt,
	}, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, userID uint64) (*Account, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Account{
		Profile:            view.FromUser(u),
		Email:              u.Email,
		Gender:             u.Gender,
		InterestedIn:       u.LookingFor,
		Interests:          view.Strings(u.Interests),
		IsPremium:          u.IsPremium,
		EmailNotifications: u.EmailNotifications,
		PushNotifications:  u.PushNotifications,
		ProfileVisibility:  u.ProfileVisibility,
		Theme:              u.Theme,
		CreatedAt:          u.CreatedAt,
	}, nil
}

// UpdateProfileRequest is a partial update; nil fields are left alone.
type UpdateProfileRequest struct {
	FirstName          *string   `json:"firstName" validate:"omitempty,min=1,max=64"`
	LastName           *string   `json:"lastName" validate:"omitempty,min=1,max=64"`
	Age                *int      `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender             *string   `json:"gender" validate:"omitempty,oneof=male female other"`
	InterestedIn       *string   `json:"interestedIn" validate:"omitempty,oneof=male female both"`
	Bio                *string   `json:"bio" validate:"omitempty,max=500"`
	Country            *string   `json:"country" validate:"omitempty,min=1,max=100"`
	State              *string   `json:"state" validate:"omitempty,min=1,max=100"`
	City               *string   `json:"city" validate:"omitempty,min=1,max=100"`
	Photos             *[]string `json:"photos"`
	EmailNotifications *bool     `json:"emailNotifications"`
	PushNotifications  *bool     `json:"pushNotifications"`
	ProfileVisibility  *string   `json:"profileVisibility" validate:"omitempty,oneof=public matches private"`
	Theme              *string   `json:"theme" validate:"omitempty,oneof=light dark auto"`
}

func (r *UpdateProfileRequest) fields() map[string]any {
	f := map[string]any{}
	set := func(col string, v any, ok bool) {
		if ok {
			f[col] = v
		}
	}
	if r.FirstName != nil {
		f["first_name"] = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		f["last_name"] = strings.TrimSpace(*r.LastName)
	}
	set("age", deref(r.Age), r.Age != nil)
	set("gender", deref(r.Gender), r.Gender != nil)
	set("looking_for", deref(r.InterestedIn), r.InterestedIn != nil)
	set("bio", deref(r.Bio), r.Bio != nil)
	set("country", deref(r.Country), r.Country != nil)
	set("state", deref(r.State), r.State != nil)
	set("city", deref(r.City), r.City != nil)
	if r.Photos != nil {
		photos := view.Strings(*r.Photos)
		f["photos"] = datatypes.JSONSlice[string](photos)
		f["profile_image"] = ""
		if len(photos) > 0 {
			f["profile_image"] = photos[0]
		}
	}
	set("email_notifications", deref(r.EmailNotifications), r.EmailNotifications != nil)
	set("push_notifications", deref(r.PushNotifications), r.PushNotifications != nil)
	set("profile_visibility", deref(r.ProfileVisibility), r.ProfileVisibility != nil)
	set("theme", deref(r.Theme), r.Theme != nil)
	return f
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// UpdateProfile applies the non-nil fields of req. Setting photos also
// moves profile_image to the first photo.
func (s *Service) UpdateProfile(ctx context.Context, userID uint64, req *UpdateProfileRequest) error {
	fields := req.fields()
	if len(fields) == 0 {
		return svcErr.InvalidArgument("No fields to update")
	}
	err := s.users.Update(ctx, userID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("User not found")
	}
	if err != nil {
		s.appCtx.Logger.Error("UpdateProfile failed", "user", userID, "err", err)
		return svcErr.Map(err)
	}
	return nil
}

// ChangePassword checks the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return svcErr.InvalidArgument("Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return svcErr.Internal(err)
	}
	if err := s.users.Update(ctx, userID, map[string]any{"password_hash": string(hash)}); err != nil {
		return svcErr.Map(err)
	}
	return nil
}

// DeleteAccount removes the user and everything that references them in
// one transaction.
func (s *Service) DeleteAccount(ctx context.Context, userID uint64) error {
	var recipients []uint64
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if recipients, err = s.notifications.WithTx(tx).RecipientsFrom(ctx, userID); err != nil {
			return err
		}

		steps := []func(context.Context, uint64) error{
			s.conversations.WithTx(tx).DeleteAllForUser,
			s.likes.WithTx(tx).DeleteAllForUser,
			s.matches.WithTx(tx).DeleteAllForUser,
			s.favorites.WithTx(tx).DeleteAllForUser,
			s.notifications.WithTx(tx).DeleteAllForUser,
		}
		for _, step := range steps {
			if err := step(ctx, userID); err != nil {
				return err
			}
		}

		deleted, err := s.users.WithTx(tx).Delete(ctx, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return svcErr.NotFound("User not found")
		}
		return nil
	})
	if err != nil {
		if !svcErr.IsDomain(err) {
			s.appCtx.Logger.Error("DeleteAccount failed", "user", userID, "err", err)
		}
		return svcErr.Map(err)
	}

	if s.appCtx.RedisCache != nil {
		if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, append(recipients, userID)...); err != nil {
			s.appCtx.Logger.Warn("unread count invalidation failed", "user", userID, "err", err)
		}
	}
	s.appCtx.Logger.Info("account deleted", "user", userID)
	return nil
}

// BrowseUser is one entry of the browse grid.
type BrowseUser struct {
	view.Profile
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// Browse pages through users compatible with the caller's preferences.
// page < 1 becomes 1, limit outside [1, 50] becomes 12.
func (s *Service) Browse(ctx context.Context, userID uint64, page, limit int) ([]BrowseUser, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxBrowseLimit {
		limit = defaultBrowseLimit
	}

	viewer, err := s.load(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}
	users, total, err := s.users.Browse(ctx, viewer, page, limit)
	if err != nil {
		return nil, Pagination{}, svcErr.Map(err)
	}

	out := make([]BrowseUser, 0, len(users))
	for i := range users {
		out = append(out, BrowseUser{
			Profile:   view.FromUser(&users[i]),
			Gender:    users[i].Gender,
			CreatedAt: users[i].CreatedAt,
		})
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return out, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalUsers:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// Candidate is a potential match.
type Candidate struct {
	view.Profile
	IsFavorited bool `json:"is_favorited"`
}

// PotentialMatches draws an unordered random sample, without replacement,
// of compatible users the caller has not liked yet.
func (s *Service) PotentialMatches(ctx context.Context, userID uint64) ([]Candidate, error) {
	viewer, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	pool, err := s.users.Candidates(ctx, viewer)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	limit := defaultBrowseLimit
	if s.appCtx.Config != nil && s.appCtx.Config.Match.PotentialMatchLimit > 0 {
		limit = s.appCtx.Config.Match.PotentialMatchLimit
	}
	picked := sample(pool, limit, s.intn)

	ids := make([]uint64, 0, len(picked))
	for i := range picked {
		ids = append(ids, picked[i].ID)
	}
	favs, err := s.favorites.FavoritedAmong(ctx, userID, ids)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]Candidate, 0, len(picked))
	for i := range picked {
		out = append(out, Candidate{Profile: view.FromUser(&picked[i]), IsFavorited: favs[picked[i].ID]})
	}
	return out, nil
}

// sample runs a partial Fisher-Yates over pool and returns its first k
// elements. pool is reordered in place.
func sample[T any](pool []T, k int, intn func(n int) int) []T {
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
