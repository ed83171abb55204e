package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/db"
	svcErr "github.com/oggyb/desire-match/internal/errors"
	"github.com/oggyb/desire-match/internal/repository"
	"github.com/oggyb/desire-match/internal/service/view"
)

const invalidCredentials = "Invalid credentials"

// Service registers accounts and exchanges credentials for access tokens.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	cost   int
}

func NewAuthService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		cost:   bcrypt.DefaultCost,
	}
}

// WithCost returns a copy hashing with the given bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	c := *s
	c.cost = cost
	return &c
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Email     string `json:"email" validate:"required,email,max=128"`
	Password  string `json:"password" validate:"required,strongpassword"`
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the account summary returned with a token.
type User struct {
	ID        uint64   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Photos    []string `json:"photos"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func newSession(tok string, u *db.User) *Session {
	return &Session{
		Token: tok,
		User: User{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Photos:    view.Strings(u.Photos),
		},
	}
}

// clean trims and NFC-normalises user-provided names so visually equal
// names compare equal.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Register creates the account and signs the caller in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Session, error) {
	username := clean(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if exists {
		return nil, svcErr.Duplicate("Username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, svcErr.Internal(err)
	}

	u := &db.User{
		Username:           username,
		Email:              email,
		PasswordHash:       string(hash),
		FirstName:          clean(req.FirstName),
		LastName:           clean(req.LastName),
		Interests:          datatypes.JSONSlice[string]{},
		Photos:             datatypes.JSONSlice[string]{},
		EmailNotifications: true,
		PushNotifications:  true,
		ProfileVisibility:  db.VisibilityPublic,
		Theme:              "light",
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, svcErr.Duplicate("Username or email already exists")
		}
		s.appCtx.Logger.Error("Register failed", "username", username, "err", err)
		return nil, svcErr.Map(err)
	}

	tok, err := s.appCtx.Tokens.Issue(u.ID)
	if err != nil {
		return nil, svcErr.Internal(err)
	}
	s.appCtx.Logger.Info("user registered", "user", u.ID)
	return newSession(tok, u), nil
}

// Login checks the password and records the login time. Unknown email and
// wrong password fail the same way.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, svcErr.Unauthorized(invalidCredentials)
	}

	now := s.appCtx.DB.NowFunc()
	if err := s.users.Update(ctx, u.ID, map[string]any{"last_login_at": now}); err != nil {
		s.appCtx.Logger.Warn("last login update failed", "user", u.ID, "err", err)
	}

	tok, err := s.appCtx.Tokens.Issue(u.ID)
	if err != nil {
		return nil, svcErr.Internal(err)
	}
	return newSession(tok, u), nil
}
