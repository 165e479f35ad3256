package post

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/threadboard/internal/entity"
	"anoa.com/threadboard/internal/observability"
	postDto "anoa.com/threadboard/internal/modules/post/dto"
	postRepo "anoa.com/threadboard/internal/modules/post/repository"
	refresh "anoa.com/threadboard/internal/modules/refresh/service"
	search "anoa.com/threadboard/internal/modules/search/service"
	repo "anoa.com/threadboard/internal/modules/thread/repository"
	userRepo "anoa.com/threadboard/internal/modules/user/repository"
	"anoa.com/threadboard/pkg/apperror"
	"anoa.com/threadboard/pkg/ratelimiter"
	"anoa.com/threadboard/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	ListPosts(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) ([]postDto.PostResponse, error)
}

type postService struct {
	postRepo     postRepo.PostRepository
	threadRepo   repo.Repository
	userRepo     userRepo.UserRepository
	fileStorage  storage.FileStorage
	meili        search.SearchService
	notifier     refresh.Notifier
	redisClient  *redis.Client
	uploadFolder string
	cooldown     time.Duration
}

func NewPostService(postRepo postRepo.PostRepository, threadRepo repo.Repository, userRepo userRepo.UserRepository, fileStorage storage.FileStorage, meili search.SearchService, notifier refresh.Notifier, redisClient *redis.Client, uploadFolder string, cooldown time.Duration) PostService {
	return &postService{
		postRepo:     postRepo,
		threadRepo:   threadRepo,
		userRepo:     userRepo,
		fileStorage:  fileStorage,
		meili:        meili,
		notifier:     notifier,
		redisClient:  redisClient,
		uploadFolder: uploadFolder,
		cooldown:     cooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req postDto.CreatePostRequest) (resp *postDto.PostResponse, err error) {
	defer func() { observability.RecordOperation("create_post", err) }()

	content := strings.TrimSpace(req.Content)
	if content == "" && req.Attachment == nil {
		return nil, fmt.Errorf("post needs content or an attachment: %w", apperror.ErrInvalidInput)
	}

	thread, err := s.findVisibleThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	var (
		kind    entity.MediaKind
		resType string
		ext     string
	)
	if req.Attachment != nil {
		kind, resType, ext, err = classifyAttachment(req.Attachment)
		if err != nil {
			return nil, err
		}
	}

	target := threadID.String() + ":" + submissionFingerprint(content, req.Attachment)
	release, err := ratelimiter.Acquire(ctx, s.redisClient, userID, ratelimiter.ScopePost, target, s.cooldown)
	if err != nil {
		return nil, err
	}
	succeeded := false
	defer func() {
		if !succeeded {
			release()
		}
	}()

	post := &entity.Post{
		ThreadID: thread.ID,
		AuthorID: userID,
		Content:  content,
	}

	var uploadedURL string
	if req.Attachment != nil {
		if s.fileStorage == nil {
			return nil, fmt.Errorf("attachments are disabled: %w", storage.ErrUpload)
		}
		key := uuid.NewString() + ext
		uploadedURL, err = s.fileStorage.Upload(ctx, req.Attachment.Reader, s.uploadFolder, key, resType)
		if err != nil {
			if !errors.Is(err, apperror.ErrUpstream) {
				err = fmt.Errorf("%w: %v", storage.ErrUpload, err)
			}
			return nil, err
		}
		post.SetAttachment(kind, uploadedURL)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if uploadedURL != "" {
			s.discardUpload(ctx, uploadedURL)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	succeeded = true
	post.Author = *user

	if s.meili != nil {
		if err := s.meili.IndexPost(post, thread); err != nil {
			log.Printf("failed to index post %s: %v", post.ID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.Publish(context.WithoutCancel(ctx), refresh.EventPostCreated, thread)
	}

	out := mapToResponse(post)
	return &out, nil
}

func (s *postService) ListPosts(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) (resp []postDto.PostResponse, err error) {
	defer func() { observability.RecordOperation("list_posts", err) }()

	if _, err := s.findVisibleThread(ctx, userID, threadID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	sortOldestFirst(posts)

	out := make([]postDto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, mapToResponse(p))
	}
	return out, nil
}

func (s *postService) findVisibleThread(ctx context.Context, userID, threadID uuid.UUID) (*entity.Thread, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !thread.CanView(userID) {
		return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
	}
	return thread, nil
}

// discardUpload removes an object whose post row never made it to the database.
func (s *postService) discardUpload(ctx context.Context, fileURL string) {
	if err := s.fileStorage.Delete(context.WithoutCancel(ctx), fileURL); err != nil {
		log.Printf("failed to remove orphaned upload %s: %v", fileURL, err)
		observability.RecordOrphanedUpload()
	}
}
