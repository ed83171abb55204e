package db_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(database))
	return database
}

func count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

func TestSeedFixture(t *testing.T) {
	f, err := os.Open("testdata/fixture.yaml")
	require.NoError(t, err)
	defer f.Close()

	fixture, err := db.LoadFixture(f)
	require.NoError(t, err)
	require.Len(t, fixture.Users, 3)

	gdb := openTestDB(t)
	require.NoError(t, db.SeedFixture(gdb, fixture))

	assert.EqualValues(t, 3, count(t, gdb, &db.User{}))
	assert.EqualValues(t, 3, count(t, gdb, &db.Like{}))

	var matches []db.Match
	require.NoError(t, gdb.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(1), matches[0].User1ID)
	assert.Equal(t, uint64(2), matches[0].User2ID)

	var adam db.User
	require.NoError(t, gdb.First(&adam, 1).Error)
	assert.Equal(t, []string{"climbing", "jazz"}, []string(adam.Interests))
	assert.Equal(t, "https://cdn.example.com/adam/1.jpg", adam.ProfileImage)
	assert.Equal(t, db.VisibilityPublic, adam.ProfileVisibility)

	var cara db.User
	require.NoError(t, gdb.First(&cara, 3).Error)
	assert.Equal(t, db.VisibilityPrivate, cara.ProfileVisibility)
}

func TestLoadFixture_RejectsUnknownFields(t *testing.T) {
	_, err := db.LoadFixture(strings.NewReader("users:\n  - id: 1\n    nickname: x\n"))
	assert.Error(t, err)
}

func TestSeedMinimalTestData_Idempotent(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, db.SeedMinimalTestData(gdb))
	require.NoError(t, db.SeedMinimalTestData(gdb))

	assert.EqualValues(t, 3, count(t, gdb, &db.User{}))
	assert.EqualValues(t, 3, count(t, gdb, &db.Like{}))
	assert.EqualValues(t, 1, count(t, gdb, &db.Match{}))
}

func TestSeedTestData(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, db.SeedTestData(gdb, 6))

	assert.EqualValues(t, 6, count(t, gdb, &db.User{}))

	// every seeded match is backed by both likes
	var matches []db.Match
	require.NoError(t, gdb.Find(&matches).Error)
	for _, m := range matches {
		assert.Less(t, m.User1ID, m.User2ID)
		var n int64
		gdb.Model(&db.Like{}).
			Where("(liker_id = ? AND liked_id = ?) OR (liker_id = ? AND liked_id = ?)", m.User1ID, m.User2ID, m.User2ID, m.User1ID).
			Count(&n)
		assert.EqualValues(t, 2, n)
	}
}

func TestCanonicalPair(t *testing.T) {
	a, b := db.CanonicalPair(9, 4)
	assert.Equal(t, uint64(4), a)
	assert.Equal(t, uint64(9), b)
}
