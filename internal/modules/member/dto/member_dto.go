package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddMemberRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	AddedAt  time.Time `json:"added_at"`
}
