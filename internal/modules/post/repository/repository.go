package repository

import (
	"context"

	"anoa.com/threadboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Thread", "Author").Create(post).Error; err != nil {
			return err
		}
		// Increment thread post_count
		if err := tx.Model(&entity.Thread{}).Where("id = ?", post.ThreadID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error; err != nil {
			return err
		}
		return nil
	})
}

func (r *postRepository) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.Post, error) {
	var posts []*entity.Post

	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&posts).Error

	return posts, err
}
