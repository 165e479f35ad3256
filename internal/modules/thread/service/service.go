package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"anoa.com/threadboard/internal/entity"
	"anoa.com/threadboard/internal/observability"
	postRepo "anoa.com/threadboard/internal/modules/post/repository"
	refresh "anoa.com/threadboard/internal/modules/refresh/service"
	search "anoa.com/threadboard/internal/modules/search/service"
	threadDto "anoa.com/threadboard/internal/modules/thread/dto"
	repo "anoa.com/threadboard/internal/modules/thread/repository"
	userRepo "anoa.com/threadboard/internal/modules/user/repository"
	"anoa.com/threadboard/pkg/apperror"
	"anoa.com/threadboard/pkg/ratelimiter"
	"anoa.com/threadboard/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service interface {
	CreateThread(ctx context.Context, userID uuid.UUID, req threadDto.CreateThreadRequest) (*threadDto.ThreadResponse, error)
	ListPublicThreads(ctx context.Context) ([]threadDto.ThreadResponse, error)
	ListPrivateThreads(ctx context.Context, userID uuid.UUID) ([]threadDto.ThreadResponse, error)
	GetThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) (*threadDto.ThreadResponse, error)
	DeleteThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) error
}

type service struct {
	threadRepo  repo.Repository
	postRepo    postRepo.PostRepository
	userRepo    userRepo.UserRepository
	fileStorage storage.FileStorage
	meili       search.SearchService
	notifier    refresh.Notifier
	redisClient *redis.Client
	cooldown    time.Duration
}

// NewService wires the thread access layer. meili and notifier may be nil when
// search or redis are not configured.
func NewService(threadRepo repo.Repository, postRepo postRepo.PostRepository, userRepo userRepo.UserRepository, fileStorage storage.FileStorage, meili search.SearchService, notifier refresh.Notifier, redisClient *redis.Client, cooldown time.Duration) Service {
	return &service{
		threadRepo:  threadRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		meili:       meili,
		notifier:    notifier,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *service) CreateThread(ctx context.Context, userID uuid.UUID, req threadDto.CreateThreadRequest) (resp *threadDto.ThreadResponse, err error) {
	defer func() { observability.RecordOperation("create_thread", err) }()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	target := ratelimiter.Fingerprint(title, content, strconv.FormatBool(req.IsPrivate))
	release, err := ratelimiter.Acquire(ctx, s.redisClient, userID, ratelimiter.ScopeThread, target, s.cooldown)
	if err != nil {
		return nil, err
	}

	thread := &entity.Thread{
		Title:     title,
		Content:   content,
		IsPrivate: req.IsPrivate,
		AuthorID:  userID,
	}

	if err := s.threadRepo.Create(ctx, thread); err != nil {
		release()
		return nil, err
	}
	thread.Author = *user

	if s.meili != nil {
		if err := s.meili.IndexThread(thread); err != nil {
			log.Printf("failed to index thread %s: %v", thread.ID, err)
		}
	}
	s.publish(ctx, refresh.EventThreadCreated, thread)

	out := BuildThreadResponse(thread)
	return &out, nil
}

func (s *service) ListPublicThreads(ctx context.Context) (resp []threadDto.ThreadResponse, err error) {
	defer func() { observability.RecordOperation("list_public_threads", err) }()

	threads, err := s.threadRepo.FindPublic(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Thread, 0, len(threads))
	for _, t := range threads {
		if !t.IsPrivate {
			visible = append(visible, t)
		}
	}
	sortNewestFirst(visible)

	return buildThreadResponses(visible), nil
}

func (s *service) ListPrivateThreads(ctx context.Context, userID uuid.UUID) (resp []threadDto.ThreadResponse, err error) {
	defer func() { observability.RecordOperation("list_private_threads", err) }()

	threads, err := s.threadRepo.FindPrivateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Thread, 0, len(threads))
	for _, t := range threads {
		if t.IsPrivate && t.CanView(userID) {
			visible = append(visible, t)
		}
	}
	sortNewestFirst(visible)

	return buildThreadResponses(visible), nil
}

func (s *service) GetThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) (resp *threadDto.ThreadResponse, err error) {
	defer func() { observability.RecordOperation("get_thread", err) }()

	thread, err := s.findVisible(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	out := BuildThreadResponse(thread)
	return &out, nil
}

// DeleteThread removes the thread with its posts and memberships. Stored
// attachments are cleaned up best effort once the rows are gone, so a failed
// delete never leaves posts pointing at destroyed objects.
func (s *service) DeleteThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) (err error) {
	defer func() { observability.RecordOperation("delete_thread", err) }()

	thread, err := s.findVisible(ctx, userID, threadID)
	if err != nil {
		return err
	}

	if !thread.IsAuthor(userID) {
		return fmt.Errorf("only the author can delete this thread: %w", apperror.ErrForbidden)
	}

	posts, err := s.postRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return err
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	var attachmentURLs []string
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if u := p.AttachmentURL(); u != "" {
			attachmentURLs = append(attachmentURLs, u)
		}
	}

	if err := s.threadRepo.Delete(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	s.removeAttachments(context.WithoutCancel(ctx), threadID, attachmentURLs)

	if s.meili != nil {
		if err := s.meili.DeleteThread(threadID, postIDs); err != nil {
			log.Printf("failed to remove thread %s from search index: %v", threadID, err)
		}
	}
	s.publish(ctx, refresh.EventThreadDeleted, thread)

	return nil
}

func (s *service) removeAttachments(ctx context.Context, threadID uuid.UUID, urls []string) {
	if s.fileStorage == nil {
		return
	}
	for _, u := range urls {
		if err := s.fileStorage.Delete(ctx, u); err != nil {
			log.Printf("failed to delete attachment %s of deleted thread %s: %v", u, threadID, err)
			observability.RecordOrphanedUpload()
		}
	}
}

// findVisible loads the thread and hides private threads from outsiders as not found.
func (s *service) findVisible(ctx context.Context, userID, threadID uuid.UUID) (*entity.Thread, error) {
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

func (s *service) publish(ctx context.Context, eventType string, thread *entity.Thread) {
	if s.notifier != nil {
		s.notifier.Publish(context.WithoutCancel(ctx), eventType, thread)
	}
}
