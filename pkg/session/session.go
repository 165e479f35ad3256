package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the HttpOnly cookie that carries the access token for browser clients.
const CookieName = "session"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevoked      = errors.New("session has been signed out")
)

// Manager issues, verifies and revokes HS256 access tokens.
// Revocation needs redis; without it sign-out only clears the client cookie.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID and returns it with its unix expiry.
func (m *Manager) Issue(userID uuid.UUID) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// Parse verifies signature and expiry. It does not consult the revocation list.
func (m *Manager) Parse(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify parses the token and rejects it if it was signed out.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*jwt.RegisteredClaims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := m.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}

	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if m.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	return m.rdb.Set(ctx, revokedKey(claims.ID), "1", ttl).Err()
}

func (m *Manager) isRevoked(ctx context.Context, jti string) (bool, error) {
	if m.rdb == nil || jti == "" {
		return false, nil
	}

	n, err := m.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n == 1, nil
}

func revokedKey(jti string) string {
	return "revoked_token:" + jti
}
