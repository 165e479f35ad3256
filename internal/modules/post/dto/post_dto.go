package dto

import (
	"io"
	"time"

	commonDto "anoa.com/threadboard/pkg/dto"
	"github.com/google/uuid"
)

// MaxAttachmentSize caps a single uploaded file.
const MaxAttachmentSize = 25 << 20

// Attachment is the optional file sent with a post. Reader must be positioned at the start.
type Attachment struct {
	Reader      io.ReadSeeker
	FileName    string
	ContentType string
	Size        int64
}

type CreatePostRequest struct {
	Content    string
	Attachment *Attachment
}

type PostResponse struct {
	ID        uuid.UUID                `json:"id"`
	ThreadID  uuid.UUID                `json:"thread_id"`
	Content   string                   `json:"content"`
	Author    commonDto.AuthorResponse `json:"author"`
	ImageURL  *string                  `json:"image_url"`
	VideoURL  *string                  `json:"video_url"`
	AudioURL  *string                  `json:"audio_url"`
	CreatedAt time.Time                `json:"created_at"`
}
