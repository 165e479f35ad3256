package post

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"anoa.com/threadboard/internal/entity"
	postDto "anoa.com/threadboard/internal/modules/post/dto"
	thread "anoa.com/threadboard/internal/modules/thread/service"
	"anoa.com/threadboard/pkg/apperror"
	"anoa.com/threadboard/pkg/ratelimiter"
	"anoa.com/threadboard/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// classifyAttachment picks the post slot and storage resource type from the
// declared content type, sniffing the bytes when the client sent none.
func classifyAttachment(att *postDto.Attachment) (entity.MediaKind, string, string, error) {
	if att.Reader == nil {
		return "", "", "", fmt.Errorf("attachment is empty: %w", apperror.ErrInvalidInput)
	}
	if att.Size > postDto.MaxAttachmentSize {
		return "", "", "", fmt.Errorf("attachment exceeds %d MB: %w", postDto.MaxAttachmentSize>>20, apperror.ErrInvalidInput)
	}

	contentType := baseType(att.ContentType)
	ext := strings.ToLower(filepath.Ext(att.FileName))

	if contentType == "" || contentType == octetStream {
		detected, err := mimetype.DetectReader(att.Reader)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to read attachment: %w", apperror.ErrInvalidInput)
		}
		if _, err := att.Reader.Seek(0, io.SeekStart); err != nil {
			return "", "", "", fmt.Errorf("failed to rewind attachment: %w", err)
		}
		contentType = baseType(detected.String())
		if ext == "" {
			ext = detected.Extension()
		}
	}

	if ext == "" {
		if m := mimetype.Lookup(contentType); m != nil {
			ext = m.Extension()
		}
	}

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return entity.MediaImage, storage.ResourceImage, ext, nil
	case strings.HasPrefix(contentType, "video/"):
		return entity.MediaVideo, storage.ResourceVideo, ext, nil
	case strings.HasPrefix(contentType, "audio/"):
		// Cloudinary stores audio under the video resource type.
		return entity.MediaAudio, storage.ResourceVideo, ext, nil
	default:
		return "", "", "", fmt.Errorf("unsupported attachment type %q: %w", contentType, apperror.ErrInvalidInput)
	}
}

// submissionFingerprint identifies a post submission by its text and file.
func submissionFingerprint(content string, att *postDto.Attachment) string {
	if att == nil {
		return ratelimiter.Fingerprint(content)
	}
	return ratelimiter.Fingerprint(content, att.FileName, strconv.FormatInt(att.Size, 10))
}

func baseType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func mapToResponse(post *entity.Post) postDto.PostResponse {
	return postDto.PostResponse{
		ID:        post.ID,
		ThreadID:  post.ThreadID,
		Content:   post.Content,
		Author:    thread.AuthorOf(post.Author, post.AuthorID),
		ImageURL:  post.ImageURL,
		VideoURL:  post.VideoURL,
		AudioURL:  post.AudioURL,
		CreatedAt: post.CreatedAt,
	}
}

func sortOldestFirst(posts []*entity.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		return posts[i].ID.String() < posts[j].ID.String()
	})
}
