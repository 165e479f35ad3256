package service

import (
	"context"
	"testing"

	"anoa.com/threadboard/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelsPublicThread(t *testing.T) {
	thread := &entity.Thread{ID: uuid.New(), AuthorID: uuid.New()}
	assert.Equal(t, []string{PublicChannel}, Channels(thread))
}

func TestChannelsPrivateThreadOnlyReachesAuthorAndMembers(t *testing.T) {
	author, alice, bob := uuid.New(), uuid.New(), uuid.New()
	thread := &entity.Thread{
		ID:        uuid.New(),
		AuthorID:  author,
		IsPrivate: true,
		Members:   []entity.ThreadMember{{UserID: alice}, {UserID: bob}, {UserID: alice}},
	}

	assert.Equal(t, []string{UserChannel(author), UserChannel(alice), UserChannel(bob)}, Channels(thread))
	assert.NotContains(t, Channels(thread), PublicChannel)
}

func TestNotifierWithoutRedis(t *testing.T) {
	n := NewNotifier(nil)

	n.Publish(context.Background(), EventThreadCreated, &entity.Thread{ID: uuid.New()})

	_, err := n.Subscribe(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUnavailable)
}
