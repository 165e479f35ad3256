package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Thread struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null;default:''" json:"content"`
	IsPrivate bool           `gorm:"not null;default:false;index:idx_threads_visibility,priority:1" json:"is_private"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	PostCount int64          `gorm:"not null;default:0" json:"post_count"`
	Members   []ThreadMember `gorm:"foreignKey:ThreadID" json:"members,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_threads_visibility,priority:2" json:"created_at"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// CanView reports whether userID may see the thread: anyone for public threads,
// only the author or an invited member for private ones. Members must be loaded.
func (t *Thread) CanView(userID uuid.UUID) bool {
	if !t.IsPrivate {
		return true
	}
	return t.IsAuthor(userID) || t.HasMember(userID)
}

func (t *Thread) IsAuthor(userID uuid.UUID) bool {
	return t.AuthorID == userID
}

func (t *Thread) HasMember(userID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ThreadMember grants a non-author user visibility into a private thread.
type ThreadMember struct {
	ThreadID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"thread_id"`
	Thread    Thread    `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
