package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/repository"
)

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewUserRepository(dbase)

	u, err := repo.GetByEmail(ctx, "user2@test.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), u.ID)

	_, err = repo.Get(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	name, err := repo.FirstName(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Cara", name)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "nobody", "user1@test.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail(ctx, "nobody", "nobody@test.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewUserRepository(dbase)

	require.NoError(t, repo.Update(ctx, 1, map[string]any{"bio": "hello", "age": 30}))
	u, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello", u.Bio)
	assert.Equal(t, 30, u.Age)

	err = repo.Update(ctx, 99, map[string]any{"bio": "ghost"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_BrowseFiltersByPreference(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	createUsers(t, dbase,
		seedUser{4, "Dana", db.GenderFemale, db.GenderFemale}, // not looking for men
		seedUser{5, "Erik", db.GenderMale, db.GenderFemale},   // wrong gender for Adam
	)
	repo := repository.NewUserRepository(dbase)

	adam, err := repo.Get(ctx, 1)
	require.NoError(t, err)

	users, total, err := repo.Browse(ctx, adam, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids := []uint64{}
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint64{2, 3}, ids)

	users, total, err = repo.Browse(ctx, adam, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 1)
}

func TestUserRepository_CandidatesExcludeLiked(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewUserRepository(dbase)

	require.NoError(t, repository.NewLikeRepository(dbase).Create(ctx, 1, 2))

	adam, err := repo.Get(ctx, 1)
	require.NoError(t, err)

	users, err := repo.Candidates(ctx, adam)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, uint64(3), users[0].ID)

	// no preference set -> nobody
	adam.LookingFor = ""
	users, err = repo.Candidates(ctx, adam)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threeUsers(t, dbase)
	repo := repository.NewUserRepository(dbase)

	deleted, err := repo.Delete(ctx, 3)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, 3)
	require.NoError(t, err)
	assert.False(t, deleted)
}
