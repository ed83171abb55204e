package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/repository"
)

func TestLikeRepository_CreateAndExists(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewLikeRepository(dbase)

	require.NoError(t, repo.Create(ctx, 1, 2))

	ok, err := repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// direction matters
	ok, err = repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.Create(ctx, 1, 2)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLikeRepository_ListSent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewLikeRepository(dbase)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, dbase.Create(&[]db.Like{
		{LikerID: 1, LikedID: 2, CreatedAt: base},
		{LikerID: 1, LikedID: 3, CreatedAt: base.Add(time.Minute)},
		{LikerID: 2, LikedID: 1, CreatedAt: base.Add(2 * time.Minute)},
	}).Error)
	require.NoError(t, dbase.Create(&db.Match{User1ID: 1, User2ID: 2}).Error)

	rows, err := repo.ListSent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, uint64(3), rows[0].ID)
	assert.False(t, rows[0].Matched)
	assert.Equal(t, uint64(2), rows[1].ID)
	assert.True(t, rows[1].Matched)
	assert.Equal(t, "Beth", rows[1].FirstName)
	assert.Equal(t, []string{"https://img.test/2.jpg"}, []string(rows[1].Photos))
}

func TestLikeRepository_ListReceived_LikedBackSurvivesUnmatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewLikeRepository(dbase)

	require.NoError(t, repo.Create(ctx, 1, 2))
	require.NoError(t, repo.Create(ctx, 2, 1))
	require.NoError(t, repo.Create(ctx, 3, 1))

	rows, err := repo.ListReceived(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uint64]repository.ReceivedLikeRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}

	// mutual likes, but no Match row (e.g. after an unmatch)
	assert.True(t, byID[2].LikedBack)
	assert.False(t, byID[2].Matched)

	assert.False(t, byID[3].LikedBack)
	assert.False(t, byID[3].Matched)

	count, err := repo.CountReceived(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLikeRepository_DeleteAllForUser(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewLikeRepository(dbase)

	require.NoError(t, repo.Create(ctx, 1, 2))
	require.NoError(t, repo.Create(ctx, 3, 1))
	require.NoError(t, repo.Create(ctx, 3, 2))

	require.NoError(t, repo.DeleteAllForUser(ctx, 1))

	var count int64
	require.NoError(t, dbase.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
