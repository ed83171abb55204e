package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open sqlite")

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database), "failed to migrate")
	return database
}

type seedUser struct {
	id         uint64
	first      string
	gender     string
	lookingFor string
}

func createUsers(t *testing.T, database *gorm.DB, users ...seedUser) {
	t.Helper()
	for _, s := range users {
		u := db.User{
			ID:                s.id,
			Username:          fmt.Sprintf("user%d", s.id),
			Email:             fmt.Sprintf("user%d@test.com", s.id),
			PasswordHash:      "x",
			FirstName:         s.first,
			Gender:            s.gender,
			LookingFor:        s.lookingFor,
			ProfileVisibility: db.VisibilityPublic,
			Photos:            []string{fmt.Sprintf("https://img.test/%d.jpg", s.id)},
		}
		require.NoError(t, database.Create(&u).Error)
	}
}

// threeUsers is Adam (1), Beth (2) and Cara (3).
func threeUsers(t *testing.T, database *gorm.DB) {
	createUsers(t, database,
		seedUser{1, "Adam", db.GenderMale, db.GenderFemale},
		seedUser{2, "Beth", db.GenderFemale, db.GenderMale},
		seedUser{3, "Cara", db.GenderFemale, db.LookingForBoth},
	)
}
