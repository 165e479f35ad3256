package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"anoa.com/threadboard/internal/entity"
	searchDto "anoa.com/threadboard/internal/modules/search/dto"
)

type FileStorageMock struct {
	mock.Mock
}

func (m *FileStorageMock) Upload(ctx context.Context, r io.Reader, folder, key, resourceType string) (string, error) {
	args := m.Called(ctx, r, folder, key, resourceType)
	return args.String(0), args.Error(1)
}

func (m *FileStorageMock) Delete(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

type SearchServiceMock struct {
	mock.Mock
}

func (m *SearchServiceMock) IndexThread(thread *entity.Thread) error {
	args := m.Called(thread)
	return args.Error(0)
}

func (m *SearchServiceMock) IndexPost(post *entity.Post, thread *entity.Thread) error {
	args := m.Called(post, thread)
	return args.Error(0)
}

func (m *SearchServiceMock) DeleteThread(threadID uuid.UUID, postIDs []uuid.UUID) error {
	args := m.Called(threadID, postIDs)
	return args.Error(0)
}

func (m *SearchServiceMock) Search(query string, limit int64) (*searchDto.SearchResponse, error) {
	args := m.Called(query, limit)
	var resp *searchDto.SearchResponse
	if val := args.Get(0); val != nil {
		resp = val.(*searchDto.SearchResponse)
	}
	return resp, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(ctx context.Context, eventType string, thread *entity.Thread) {
	m.Called(ctx, eventType, thread)
}

func (m *NotifierMock) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	args := m.Called(ctx, userID)
	var ps *redis.PubSub
	if val := args.Get(0); val != nil {
		ps = val.(*redis.PubSub)
	}
	return ps, args.Error(1)
}
