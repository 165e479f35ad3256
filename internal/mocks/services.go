package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	memberDto "anoa.com/threadboard/internal/modules/member/dto"
	postDto "anoa.com/threadboard/internal/modules/post/dto"
	threadDto "anoa.com/threadboard/internal/modules/thread/dto"
	userDto "anoa.com/threadboard/internal/modules/user/dto"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Signup(ctx context.Context, input userDto.SignupInput) (*userDto.AuthResponse, error) {
	args := m.Called(ctx, input)
	var resp *userDto.AuthResponse
	if val := args.Get(0); val != nil {
		resp = val.(*userDto.AuthResponse)
	}
	return resp, args.Error(1)
}

func (m *AuthServiceMock) Login(ctx context.Context, input userDto.LoginInput) (*userDto.AuthResponse, error) {
	args := m.Called(ctx, input)
	var resp *userDto.AuthResponse
	if val := args.Get(0); val != nil {
		resp = val.(*userDto.AuthResponse)
	}
	return resp, args.Error(1)
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *AuthServiceMock) Me(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error) {
	args := m.Called(ctx, userID)
	var resp *userDto.UserResponse
	if val := args.Get(0); val != nil {
		resp = val.(*userDto.UserResponse)
	}
	return resp, args.Error(1)
}

type ThreadServiceMock struct {
	mock.Mock
}

func (m *ThreadServiceMock) CreateThread(ctx context.Context, userID uuid.UUID, req threadDto.CreateThreadRequest) (*threadDto.ThreadResponse, error) {
	args := m.Called(ctx, userID, req)
	var resp *threadDto.ThreadResponse
	if val := args.Get(0); val != nil {
		resp = val.(*threadDto.ThreadResponse)
	}
	return resp, args.Error(1)
}

func (m *ThreadServiceMock) ListPublicThreads(ctx context.Context) ([]threadDto.ThreadResponse, error) {
	args := m.Called(ctx)
	var list []threadDto.ThreadResponse
	if val := args.Get(0); val != nil {
		list = val.([]threadDto.ThreadResponse)
	}
	return list, args.Error(1)
}

func (m *ThreadServiceMock) ListPrivateThreads(ctx context.Context, userID uuid.UUID) ([]threadDto.ThreadResponse, error) {
	args := m.Called(ctx, userID)
	var list []threadDto.ThreadResponse
	if val := args.Get(0); val != nil {
		list = val.([]threadDto.ThreadResponse)
	}
	return list, args.Error(1)
}

func (m *ThreadServiceMock) GetThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) (*threadDto.ThreadResponse, error) {
	args := m.Called(ctx, userID, threadID)
	var resp *threadDto.ThreadResponse
	if val := args.Get(0); val != nil {
		resp = val.(*threadDto.ThreadResponse)
	}
	return resp, args.Error(1)
}

func (m *ThreadServiceMock) DeleteThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) error {
	args := m.Called(ctx, userID, threadID)
	return args.Error(0)
}

type PostServiceMock struct {
	mock.Mock
}

func (m *PostServiceMock) CreatePost(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	args := m.Called(ctx, userID, threadID, req)
	var resp *postDto.PostResponse
	if val := args.Get(0); val != nil {
		resp = val.(*postDto.PostResponse)
	}
	return resp, args.Error(1)
}

func (m *PostServiceMock) ListPosts(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) ([]postDto.PostResponse, error) {
	args := m.Called(ctx, userID, threadID)
	var list []postDto.PostResponse
	if val := args.Get(0); val != nil {
		list = val.([]postDto.PostResponse)
	}
	return list, args.Error(1)
}

type MemberServiceMock struct {
	mock.Mock
}

func (m *MemberServiceMock) AddMember(ctx context.Context, requesterID, threadID uuid.UUID, username string) (*memberDto.MemberResponse, error) {
	args := m.Called(ctx, requesterID, threadID, username)
	var resp *memberDto.MemberResponse
	if val := args.Get(0); val != nil {
		resp = val.(*memberDto.MemberResponse)
	}
	return resp, args.Error(1)
}

func (m *MemberServiceMock) ListMembers(ctx context.Context, requesterID, threadID uuid.UUID) ([]memberDto.MemberResponse, error) {
	args := m.Called(ctx, requesterID, threadID)
	var list []memberDto.MemberResponse
	if val := args.Get(0); val != nil {
		list = val.([]memberDto.MemberResponse)
	}
	return list, args.Error(1)
}
