package ratelimiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/threadboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeThread = "thread"
	ScopePost   = "post"
	ScopeMember = "member"
)

// RateLimitError is returned when a user repeats an action inside its cooldown window.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Fingerprint reduces the parts of a submission to a short stable token, so
// identical submissions share a lock and different ones get their own.
func Fingerprint(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00"))).String()
}

func key(userID uuid.UUID, action, target string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s:%s", userID.String(), action, target)
}

// CheckAndSetRateLimit takes the cooldown lock for (user, action, target). A nil client always allows.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action, target string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, action, target), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action, target string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, action, target)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action, target string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, key(userID, action, target)).Result()
	return err
}

// Acquire takes the cooldown lock for one target of an action and returns a
// release func that undoes it. The lock outlives a successful call so a
// repeated identical submit inside the window is rejected; other targets are
// unaffected. Callers release on failure so a rejected submit does not block
// the retry.
func Acquire(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action, target string, limit time.Duration) (func(), error) {
	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, action, target, limit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, rdb, userID, action, target)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	release := func() {
		_ = ClearRateLimit(context.WithoutCancel(ctx), rdb, userID, action, target)
	}
	return release, nil
}
