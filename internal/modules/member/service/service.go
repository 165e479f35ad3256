package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/threadboard/internal/entity"
	memberDto "anoa.com/threadboard/internal/modules/member/dto"
	memberRepo "anoa.com/threadboard/internal/modules/member/repository"
	refresh "anoa.com/threadboard/internal/modules/refresh/service"
	threadRepo "anoa.com/threadboard/internal/modules/thread/repository"
	userRepo "anoa.com/threadboard/internal/modules/user/repository"
	"anoa.com/threadboard/internal/observability"
	"anoa.com/threadboard/pkg/apperror"
	"anoa.com/threadboard/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrAlreadyMember is returned when the user can already see the private thread.
var ErrAlreadyMember = fmt.Errorf("user is already a member of this thread: %w", apperror.ErrConflict)

type MemberService interface {
	AddMember(ctx context.Context, requesterID, threadID uuid.UUID, username string) (*memberDto.MemberResponse, error)
	ListMembers(ctx context.Context, requesterID, threadID uuid.UUID) ([]memberDto.MemberResponse, error)
}

type memberService struct {
	memberRepo  memberRepo.MemberRepository
	threadRepo  threadRepo.Repository
	userRepo    userRepo.UserRepository
	notifier    refresh.Notifier
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewMemberService(memberRepo memberRepo.MemberRepository, threadRepo threadRepo.Repository, userRepo userRepo.UserRepository, notifier refresh.Notifier, redisClient *redis.Client, cooldown time.Duration) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		threadRepo:  threadRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *memberService) AddMember(ctx context.Context, requesterID, threadID uuid.UUID, username string) (resp *memberDto.MemberResponse, err error) {
	defer func() { observability.RecordOperation("add_member", err) }()

	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !thread.IsAuthor(requesterID) {
		return nil, fmt.Errorf("only the thread author can add members: %w", apperror.ErrForbidden)
	}

	if !thread.IsPrivate {
		return nil, fmt.Errorf("members can only be added to private threads: %w", apperror.ErrBadRequest)
	}

	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if thread.IsAuthor(user.ID) {
		return nil, ErrAlreadyMember
	}

	exists, err := s.memberRepo.Exists(ctx, threadID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, requesterID, ratelimiter.ScopeMember, threadID.String()+":"+user.ID.String(), s.cooldown)
	if err != nil {
		return nil, err
	}

	member := &entity.ThreadMember{ThreadID: threadID, UserID: user.ID}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		release()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	// The event goes to every member, including the one just added.
	member.User = *user
	thread.Members = append(thread.Members, *member)
	if s.notifier != nil {
		s.notifier.Publish(context.WithoutCancel(ctx), refresh.EventMemberAdded, thread)
	}
	log.Printf("user %s added %s to thread %s", requesterID, user.ID, threadID)

	out := toMemberResponse(member)
	return &out, nil
}

func (s *memberService) ListMembers(ctx context.Context, requesterID, threadID uuid.UUID) (resp []memberDto.MemberResponse, err error) {
	defer func() { observability.RecordOperation("list_members", err) }()

	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if !thread.IsAuthor(requesterID) && !thread.HasMember(requesterID) {
		return nil, fmt.Errorf("thread not found: %w", apperror.ErrNotFound)
	}

	members, err := s.memberRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	out := make([]memberDto.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return out, nil
}

func toMemberResponse(m *entity.ThreadMember) memberDto.MemberResponse {
	return memberDto.MemberResponse{
		UserID:   m.UserID,
		Username: m.User.Username,
		AddedAt:  m.CreatedAt,
	}
}
