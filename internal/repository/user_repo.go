package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/db"
)

// UserRepository is the narrow identity-store surface the rest of the
// service needs: lookups, profile writes and candidate queries.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Get returns gorm.ErrRecordNotFound for unknown IDs.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FirstName returns only the display name.
func (r *UserRepository) FirstName(ctx context.Context, id uint64) (string, error) {
	var u db.User
	err := r.db.WithContext(ctx).
		Select("first_name").
		Where("id = ?", id).
		Take(&u).Error
	return u.FirstName, err
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Update writes the given columns; returns gorm.ErrRecordNotFound when the
// user is gone.
func (r *UserRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{ID: id}).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// compatible restricts q to users whose gender the viewer is looking for and
// who are looking for the viewer's gender, excluding the viewer.
func compatible(q *gorm.DB, viewer *db.User) *gorm.DB {
	return q.
		Where("id <> ?", viewer.ID).
		Where("gender IN ?", GendersFor(viewer.LookingFor)).
		Where("looking_for IN ?", []string{viewer.Gender, db.LookingForBoth})
}

// Browse pages through compatible users, newest accounts first.
func (r *UserRepository) Browse(ctx context.Context, viewer *db.User, page, limit int) ([]db.User, int64, error) {
	if len(GendersFor(viewer.LookingFor)) == 0 {
		return nil, 0, nil
	}

	var total int64
	if err := compatible(r.db.WithContext(ctx).Model(&db.User{}), viewer).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []db.User
	err := compatible(r.db.WithContext(ctx).Model(&db.User{}), viewer).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	return users, total, err
}

// Candidates returns every compatible user the viewer has not liked yet.
// Sampling happens in the service.
func (r *UserRepository) Candidates(ctx context.Context, viewer *db.User) ([]db.User, error) {
	if len(GendersFor(viewer.LookingFor)) == 0 {
		return nil, nil
	}

	liked := r.db.Model(&db.Like{}).Select("liked_id").Where("liker_id = ?", viewer.ID)

	var users []db.User
	err := compatible(r.db.WithContext(ctx).Model(&db.User{}), viewer).
		Where("id NOT IN (?)", liked).
		Order("id").
		Find(&users).Error
	return users, err
}

// Delete removes the user row; deleted is false when it did not exist.
func (r *UserRepository) Delete(ctx context.Context, id uint64) (deleted bool, err error) {
	res := r.db.WithContext(ctx).Delete(&db.User{}, id)
	return res.RowsAffected > 0, res.Error
}
