// Package testutil wires an in-memory AppContext for service tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/desire-match/internal/app"
	"github.com/oggyb/desire-match/internal/cache"
	"github.com/oggyb/desire-match/internal/config"
	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/logger"
)

// Config returns the settings service tests run with.
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.App.ENV = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.Match.PairLock = true
	cfg.Match.PairLockTTL = 2 * time.Second
	cfg.Match.PotentialMatchLimit = 12
	return cfg
}

// NewAppContext spins up an in-memory SQLite DB, applies migrations,
// starts a miniredis and wires everything into an AppContext.
//
// The pool is capped at one connection: code running inside a
// transaction must only use the tx handle.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	mr := miniredis.RunT(t)
	cfg := Config()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	return app.New(gdb, rc, logger.Discard(), cfg), mr
}

// User describes a test account; zero fields get sensible defaults.
type User struct {
	ID         uint64
	FirstName  string
	Gender     string
	LookingFor string
	Visibility string
}

// CreateUsers inserts the given accounts with deterministic usernames.
func CreateUsers(t *testing.T, gdb *gorm.DB, users ...User) {
	t.Helper()
	for _, u := range users {
		row := db.User{
			ID:                u.ID,
			Username:          fmt.Sprintf("user%d", u.ID),
			Email:             fmt.Sprintf("user%d@test.com", u.ID),
			PasswordHash:      "x",
			FirstName:         u.FirstName,
			LastName:          "Test",
			Age:               25,
			Gender:            u.Gender,
			LookingFor:        u.LookingFor,
			ProfileVisibility: u.Visibility,
			Photos:            []string{fmt.Sprintf("https://img.test/%d.jpg", u.ID)},
			ProfileImage:      fmt.Sprintf("https://img.test/%d.jpg", u.ID),
		}
		if row.ProfileVisibility == "" {
			row.ProfileVisibility = db.VisibilityPublic
		}
		require.NoError(t, gdb.Create(&row).Error)
	}
}

// Pair creates Adam (1, male) and Beth (2, female), interested in each other.
func Pair(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	CreateUsers(t, gdb,
		User{ID: 1, FirstName: "Adam", Gender: db.GenderMale, LookingFor: db.GenderFemale},
		User{ID: 2, FirstName: "Beth", Gender: db.GenderFemale, LookingFor: db.GenderMale},
	)
}

// Count returns the number of rows of model matching the optional condition.
func Count(t *testing.T, gdb *gorm.DB, model any, where ...any) int64 {
	t.Helper()
	q := gdb.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}
