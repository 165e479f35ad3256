package repository

import (
	"context"

	"anoa.com/threadboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.ThreadMember) error
	Exists(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
	FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.ThreadMember, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create inserts the membership row. The (thread_id, user_id) primary key
// rejects duplicates with gorm.ErrDuplicatedKey.
func (r *memberRepository) Create(ctx context.Context, member *entity.ThreadMember) error {
	return r.db.WithContext(ctx).Omit("Thread", "User").Create(member).Error
}

func (r *memberRepository) Exists(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ThreadMember{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.ThreadMember, error) {
	var members []*entity.ThreadMember

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&members).Error

	return members, err
}
