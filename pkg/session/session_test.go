package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour, nil)
	userID := uuid.New()

	token, expiresAt, err := m.Issue(userID)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := NewManager("one", time.Hour, nil).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, nil).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Nanosecond, nil)
	token, _, err := m.Issue(uuid.New())
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeWithoutRedisIsNoop(t *testing.T) {
	m := NewManager("secret", time.Hour, nil)
	token, _, err := m.Issue(uuid.New())
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(context.Background(), claims))

	_, err = m.Verify(context.Background(), token)
	assert.NoError(t, err)
}
