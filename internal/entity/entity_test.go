package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestThreadCanView(t *testing.T) {
	author, member, stranger := uuid.New(), uuid.New(), uuid.New()

	public := Thread{AuthorID: author}
	assert.True(t, public.CanView(stranger))

	private := Thread{
		AuthorID:  author,
		IsPrivate: true,
		Members:   []ThreadMember{{UserID: member}},
	}
	assert.True(t, private.CanView(author))
	assert.True(t, private.CanView(member))
	assert.False(t, private.CanView(stranger))
}

func TestPostSetAttachmentKeepsOneSlot(t *testing.T) {
	var p Post

	p.SetAttachment(MediaImage, "https://cdn/a.png")
	assert.NotNil(t, p.ImageURL)
	assert.Nil(t, p.VideoURL)
	assert.Nil(t, p.AudioURL)

	p.SetAttachment(MediaAudio, "https://cdn/a.mp3")
	assert.Nil(t, p.ImageURL)
	assert.Nil(t, p.VideoURL)
	assert.Equal(t, "https://cdn/a.mp3", *p.AudioURL)
	assert.Equal(t, "https://cdn/a.mp3", p.AttachmentURL())

	assert.Equal(t, "", (&Post{}).AttachmentURL())
}
