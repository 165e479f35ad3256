package post

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anoa.com/threadboard/internal/entity"
	"anoa.com/threadboard/internal/mocks"
	postDto "anoa.com/threadboard/internal/modules/post/dto"
	refresh "anoa.com/threadboard/internal/modules/refresh/service"
	"anoa.com/threadboard/pkg/apperror"
	"anoa.com/threadboard/pkg/storage"
)

// Smallest valid PNG header; enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fixture struct {
	posts    *mocks.PostRepositoryMock
	threads  *mocks.ThreadRepositoryMock
	users    *mocks.UserRepositoryMock
	files    *mocks.FileStorageMock
	notifier *mocks.NotifierMock
	svc      PostService

	author *entity.User
	thread *entity.Thread
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		posts:    new(mocks.PostRepositoryMock),
		threads:  new(mocks.ThreadRepositoryMock),
		users:    new(mocks.UserRepositoryMock),
		files:    new(mocks.FileStorageMock),
		notifier: new(mocks.NotifierMock),
		author:   &entity.User{ID: uuid.New(), Username: "alice"},
	}
	f.thread = &entity.Thread{ID: uuid.New(), Title: "t", AuthorID: f.author.ID}
	f.svc = NewPostService(f.posts, f.threads, f.users, f.files, nil, f.notifier, nil, "posts", time.Second)
	return f
}

func (f *fixture) expectVisibleThread() {
	f.threads.On("FindByID", mock.Anything, f.thread.ID).Return(f.thread, nil)
	f.users.On("FindByID", mock.Anything, f.author.ID).Return(f.author, nil)
}

func attachment(data []byte, name, contentType string) *postDto.Attachment {
	return &postDto.Attachment{
		Reader:      bytes.NewReader(data),
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
}

func TestCreatePostWithImageFillsOnlyImageSlot(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.files.On("Upload", mock.Anything, mock.Anything, "posts", mock.MatchedBy(func(key string) bool {
		return len(key) > len(".png") && key[len(key)-4:] == ".png"
	}), storage.ResourceImage).Return("https://cdn/posts/x.png", nil).Once()
	f.posts.On("Create", mock.Anything, mock.AnythingOfType("*entity.Post")).Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, refresh.EventPostCreated, f.thread).Once()

	resp, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Content:    "look",
		Attachment: attachment(pngBytes, "photo.PNG", "image/png"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://cdn/posts/x.png", *resp.ImageURL)
	assert.Nil(t, resp.VideoURL)
	assert.Nil(t, resp.AudioURL)
	assert.Equal(t, "alice", resp.Author.Username)

	f.files.AssertExpectations(t)
	f.posts.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreatePostAudioStoredAsVideoResource(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.files.On("Upload", mock.Anything, mock.Anything, "posts", mock.Anything, storage.ResourceVideo).
		Return("https://cdn/posts/a.mp3", nil).Once()
	f.posts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, mock.Anything, mock.Anything).Once()

	resp, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Attachment: attachment([]byte("ID3 audio"), "voice.mp3", "audio/mpeg"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.AudioURL)
	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.VideoURL)
}

func TestCreatePostTextOnlyLeavesAllSlotsEmpty(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Post) bool {
		return p.ImageURL == nil && p.VideoURL == nil && p.AudioURL == nil && p.Content == "just words"
	})).Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, refresh.EventPostCreated, f.thread).Once()

	resp, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Content: "  just words ",
	})
	require.NoError(t, err)
	assert.Equal(t, "just words", resp.Content)
	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.VideoURL)
	assert.Nil(t, resp.AudioURL)

	f.files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.posts.AssertExpectations(t)
}

func TestCreatePostWithVideoFillsOnlyVideoSlot(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.files.On("Upload", mock.Anything, mock.Anything, "posts", mock.MatchedBy(func(key string) bool {
		return len(key) > len(".mp4") && key[len(key)-4:] == ".mp4"
	}), storage.ResourceVideo).Return("https://cdn/posts/v.mp4", nil).Once()
	f.posts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, refresh.EventPostCreated, f.thread).Once()

	resp, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Content:    "clip",
		Attachment: attachment([]byte("\x00\x00\x00\x18ftypmp42"), "clip.mp4", "video/mp4"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.VideoURL)
	assert.Equal(t, "https://cdn/posts/v.mp4", *resp.VideoURL)
	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.AudioURL)

	f.files.AssertExpectations(t)
}

func TestCreatePostSniffsMissingContentType(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	var uploaded []byte
	f.files.On("Upload", mock.Anything, mock.Anything, "posts", mock.Anything, storage.ResourceImage).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*bytes.Reader)
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r)
			uploaded = buf.Bytes()
		}).Return("https://cdn/posts/y.png", nil).Once()
	f.posts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifier.On("Publish", mock.Anything, mock.Anything, mock.Anything).Once()

	resp, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Attachment: attachment(pngBytes, "blob", "application/octet-stream"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ImageURL)
	// The sniffed reader is rewound before upload.
	assert.Equal(t, pngBytes, uploaded)
}

func TestCreatePostRejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	_, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Attachment: attachment([]byte("%PDF-1.4"), "doc.pdf", "application/pdf"),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	f.files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePostRequiresContentOrFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{Content: "  "})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	f.threads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCreatePostUploadFailureInsertsNothing(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.files.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset")).Once()

	_, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Content:    "with file",
		Attachment: attachment(pngBytes, "a.png", "image/png"),
	})
	require.ErrorIs(t, err, storage.ErrUpload)
	require.ErrorIs(t, err, apperror.ErrUpstream)

	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePostInsertFailureRemovesUpload(t *testing.T) {
	f := newFixture(t)
	f.expectVisibleThread()

	f.files.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn/posts/z.png", nil).Once()
	f.posts.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	f.files.On("Delete", mock.Anything, "https://cdn/posts/z.png").Return(nil).Once()

	_, err := f.svc.CreatePost(context.Background(), f.author.ID, f.thread.ID, postDto.CreatePostRequest{
		Attachment: attachment(pngBytes, "z.png", "image/png"),
	})
	require.ErrorIs(t, err, assert.AnError)

	f.files.AssertExpectations(t)
	f.notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePostInPrivateThreadByOutsider(t *testing.T) {
	f := newFixture(t)
	f.thread.IsPrivate = true
	outsider := uuid.New()
	f.threads.On("FindByID", mock.Anything, f.thread.ID).Return(f.thread, nil).Once()

	_, err := f.svc.CreatePost(context.Background(), outsider, f.thread.ID, postDto.CreatePostRequest{Content: "hi"})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListPostsOldestFirst(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	first := &entity.Post{ID: uuid.New(), ThreadID: f.thread.ID, Content: "first", CreatedAt: now.Add(-time.Minute), Author: *f.author}
	second := &entity.Post{ID: uuid.New(), ThreadID: f.thread.ID, Content: "second", CreatedAt: now, Author: *f.author}

	f.threads.On("FindByID", mock.Anything, f.thread.ID).Return(f.thread, nil).Once()
	f.posts.On("FindByThreadID", mock.Anything, f.thread.ID).Return([]*entity.Post{second, first}, nil).Once()

	posts, err := f.svc.ListPosts(context.Background(), uuid.New(), f.thread.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Content)
	assert.Equal(t, "second", posts[1].Content)
	assert.Equal(t, "alice", posts[0].Author.Username)
}

func TestClassifyAttachment(t *testing.T) {
	cases := []struct {
		name     string
		att      *postDto.Attachment
		kind     entity.MediaKind
		resource string
		ext      string
	}{
		{"declared image", attachment(pngBytes, "a.jpeg", "image/jpeg"), entity.MediaImage, storage.ResourceImage, ".jpeg"},
		{"declared video with params", attachment([]byte("x"), "clip.mp4", "video/mp4; codecs=avc1"), entity.MediaVideo, storage.ResourceVideo, ".mp4"},
		{"declared audio", attachment([]byte("x"), "v.ogg", "audio/ogg"), entity.MediaAudio, storage.ResourceVideo, ".ogg"},
		{"sniffed png without name", attachment(pngBytes, "", ""), entity.MediaImage, storage.ResourceImage, ".png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, resource, ext, err := classifyAttachment(tc.att)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.resource, resource)
			assert.Equal(t, tc.ext, ext)
		})
	}

	big := attachment([]byte("x"), "a.png", "image/png")
	big.Size = postDto.MaxAttachmentSize + 1
	_, _, _, err := classifyAttachment(big)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}
