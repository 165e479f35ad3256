package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"anoa.com/threadboard/pkg/apperror"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Resource types understood by Cloudinary. Audio files are stored as "video".
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

var (
	ErrNotConfigured = errors.New("file storage is not initialized")
	// ErrUpload marks failures talking to the object store; it maps to 502.
	ErrUpload = fmt.Errorf("attachment upload failed: %w", apperror.ErrUpstream)
)

// FileStorage defines contract for the object store that holds post attachments.
type FileStorage interface {
	// Upload stores the object under folder/key and returns its public URL.
	Upload(ctx context.Context, r io.Reader, folder, key, resourceType string) (string, error)
	// Delete removes the object addressed by a URL previously returned from Upload.
	Delete(ctx context.Context, fileURL string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of FileStorage.
// It expects CLOUDINARY_URL or individual CLOUDINARY_CLOUD_NAME / CLOUDINARY_API_KEY / CLOUDINARY_API_SECRET
// to be configured in environment variables (see Cloudinary Go SDK docs).
func NewCloudinaryStorage() (FileStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	if os.Getenv("CLOUDINARY_URL") != "" {
		cld, err = cloudinary.New()
	} else if os.Getenv("CLOUDINARY_CLOUD_NAME") == "" {
		return nil, ErrNotConfigured
	} else {
		cld, err = cloudinary.NewFromParams(
			os.Getenv("CLOUDINARY_CLOUD_NAME"),
			os.Getenv("CLOUDINARY_API_KEY"),
			os.Getenv("CLOUDINARY_API_SECRET"),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	// Ensure HTTPS URLs by default.
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, r io.Reader, folder, key, resourceType string) (string, error) {
	if s == nil || s.cld == nil {
		return "", ErrNotConfigured
	}

	if resourceType == "" {
		resourceType = ResourceRaw
	}

	// Cloudinary appends the format itself for image/video; raw keeps the extension in the ID.
	publicID := key
	if resourceType != ResourceRaw {
		publicID = strings.TrimSuffix(key, filepath.Ext(key))
	}

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		ResourceType:   resourceType,
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: cloudinary rejected the file: %s", ErrUpload, resp.Error.Message)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("%w: cloudinary returned an empty secure URL", ErrUpload)
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return ErrNotConfigured
	}

	resourceType, publicID := ExtractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	// Invalidate: true helps to clear CDN cache
	params := uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete file from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// ExtractPublicID returns the resource type and public ID encoded in a Cloudinary delivery URL.
// Example: https://res.cloudinary.com/demo/video/upload/v123/posts/abc.mp3 -> ("video", "posts/abc")
func ExtractPublicID(fileURL string) (string, string) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", ""
	}

	// Path is /<cloud_name>/<resource_type>/upload/[v<version>/]<folder>/<file>.<ext>
	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex < 1 || uploadIndex+1 >= len(parts) {
		return "", ""
	}

	resourceType := parts[uploadIndex-1]
	relevantParts := parts[uploadIndex+1:]

	if len(relevantParts) > 1 && isVersionSegment(relevantParts[0]) {
		relevantParts = relevantParts[1:]
	}

	publicIDWithExt := strings.Join(relevantParts, "/")
	if publicIDWithExt == "" {
		return "", ""
	}

	if resourceType == ResourceRaw {
		return resourceType, publicIDWithExt
	}

	ext := filepath.Ext(publicIDWithExt)
	return resourceType, strings.TrimSuffix(publicIDWithExt, ext)
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
