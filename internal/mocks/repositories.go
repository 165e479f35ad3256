package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"anoa.com/threadboard/internal/entity"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	var user *entity.User
	if val := args.Get(0); val != nil {
		user = val.(*entity.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	var user *entity.User
	if val := args.Get(0); val != nil {
		user = val.(*entity.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	var user *entity.User
	if val := args.Get(0); val != nil {
		user = val.(*entity.User)
	}
	return user, args.Error(1)
}

type ThreadRepositoryMock struct {
	mock.Mock
}

func (m *ThreadRepositoryMock) Create(ctx context.Context, thread *entity.Thread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

func (m *ThreadRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	args := m.Called(ctx, id)
	var thread *entity.Thread
	if val := args.Get(0); val != nil {
		thread = val.(*entity.Thread)
	}
	return thread, args.Error(1)
}

func (m *ThreadRepositoryMock) FindPublic(ctx context.Context) ([]*entity.Thread, error) {
	args := m.Called(ctx)
	var threads []*entity.Thread
	if val := args.Get(0); val != nil {
		threads = val.([]*entity.Thread)
	}
	return threads, args.Error(1)
}

func (m *ThreadRepositoryMock) FindPrivateForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Thread, error) {
	args := m.Called(ctx, userID)
	var threads []*entity.Thread
	if val := args.Get(0); val != nil {
		threads = val.([]*entity.Thread)
	}
	return threads, args.Error(1)
}

func (m *ThreadRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) Create(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepositoryMock) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.Post, error) {
	args := m.Called(ctx, threadID)
	var posts []*entity.Post
	if val := args.Get(0); val != nil {
		posts = val.([]*entity.Post)
	}
	return posts, args.Error(1)
}

type MemberRepositoryMock struct {
	mock.Mock
}

func (m *MemberRepositoryMock) Create(ctx context.Context, member *entity.ThreadMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepositoryMock) Exists(ctx context.Context, threadID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, threadID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MemberRepositoryMock) FindByThreadID(ctx context.Context, threadID uuid.UUID) ([]*entity.ThreadMember, error) {
	args := m.Called(ctx, threadID)
	var members []*entity.ThreadMember
	if val := args.Get(0); val != nil {
		members = val.([]*entity.ThreadMember)
	}
	return members, args.Error(1)
}
