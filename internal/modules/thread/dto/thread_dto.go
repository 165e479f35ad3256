package dto

import (
	"time"

	commonDto "anoa.com/threadboard/pkg/dto"
	"github.com/google/uuid"
)

type CreateThreadRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content" binding:"max=10000"`
	IsPrivate bool   `json:"is_private"`
}

type ThreadResponse struct {
	ID        uuid.UUID                  `json:"id"`
	Title     string                     `json:"title"`
	Content   string                     `json:"content"`
	IsPrivate bool                       `json:"is_private"`
	Author    commonDto.AuthorResponse   `json:"author"`
	PostCount int64                      `json:"post_count"`
	Members   []commonDto.AuthorResponse `json:"members,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}
