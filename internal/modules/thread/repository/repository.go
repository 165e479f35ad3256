package repository

import (
	"context"

	"anoa.com/threadboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error)
	FindPublic(ctx context.Context) ([]*entity.Thread, error)
	FindPrivateForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Thread, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, thread *entity.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	var thread entity.Thread
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Where("id = ?", id).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *repository) FindPublic(ctx context.Context) ([]*entity.Thread, error) {
	var threads []*entity.Thread

	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("is_private = ?", false).
		Order("created_at DESC").
		Order("id DESC").
		Find(&threads).Error

	return threads, err
}

// FindPrivateForUser narrows private threads to those the user authored or was invited to.
// The service re-checks visibility on every row it returns.
func (r *repository) FindPrivateForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Thread, error) {
	var threads []*entity.Thread

	memberOf := r.db.Model(&entity.ThreadMember{}).Select("thread_id").Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Where("is_private = ?", true).
		Where(r.db.Where("author_id = ?", userID).Or("id IN (?)", memberOf)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&threads).Error

	return threads, err
}

// Delete removes the thread; posts and memberships go with it through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Thread{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
