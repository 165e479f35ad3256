package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaKind names the attachment slot a file lands in.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index:idx_posts_thread_created,priority:1" json:"thread_id"`
	Thread    Thread    `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	ImageURL  *string   `gorm:"type:text" json:"image_url"`
	VideoURL  *string   `gorm:"type:text" json:"video_url"`
	AudioURL  *string   `gorm:"type:text" json:"audio_url"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_thread_created,priority:2" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// SetAttachment fills the slot matching kind and clears the other two.
func (p *Post) SetAttachment(kind MediaKind, url string) {
	p.ImageURL, p.VideoURL, p.AudioURL = nil, nil, nil
	switch kind {
	case MediaImage:
		p.ImageURL = &url
	case MediaVideo:
		p.VideoURL = &url
	case MediaAudio:
		p.AudioURL = &url
	}
}

// AttachmentURL returns the single attachment URL, if any.
func (p *Post) AttachmentURL() string {
	for _, u := range []*string{p.ImageURL, p.VideoURL, p.AudioURL} {
		if u != nil {
			return *u
		}
	}
	return ""
}
