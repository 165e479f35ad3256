package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"anoa.com/threadboard/internal/entity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventThreadCreated = "thread_created"
	EventThreadDeleted = "thread_deleted"
	EventPostCreated   = "post_created"
	EventMemberAdded   = "member_added"

	PublicChannel = "refresh:public"
)

var ErrUnavailable = errors.New("refresh events require redis")

// Event tells a client which listing to reload. It never carries thread content.
type Event struct {
	Type     string    `json:"type"`
	ThreadID uuid.UUID `json:"thread_id"`
	At       time.Time `json:"at"`
}

// Notifier fans out invalidation events after mutations. Delivery is best effort:
// clients must still re-fetch listings to observe their own writes.
type Notifier interface {
	Publish(ctx context.Context, eventType string, thread *entity.Thread)
	Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error)
}

type notifier struct {
	redisClient *redis.Client
}

func NewNotifier(redisClient *redis.Client) Notifier {
	return &notifier{redisClient: redisClient}
}

func UserChannel(userID uuid.UUID) string {
	return "refresh:user:" + userID.String()
}

// Channels lists where an event about thread may be sent without leaking a
// private thread to anyone outside its author and members.
func Channels(thread *entity.Thread) []string {
	if !thread.IsPrivate {
		return []string{PublicChannel}
	}

	seen := map[uuid.UUID]struct{}{thread.AuthorID: {}}
	channels := []string{UserChannel(thread.AuthorID)}
	for _, m := range thread.Members {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		channels = append(channels, UserChannel(m.UserID))
	}
	return channels
}

func (n *notifier) Publish(ctx context.Context, eventType string, thread *entity.Thread) {
	if n.redisClient == nil || thread == nil {
		return
	}

	payload, err := json.Marshal(Event{Type: eventType, ThreadID: thread.ID, At: time.Now()})
	if err != nil {
		return
	}

	for _, channel := range Channels(thread) {
		if err := n.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
			log.Printf("Failed to publish %s on %s: %v", eventType, channel, err)
		}
	}
}

func (n *notifier) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	if n.redisClient == nil {
		return nil, ErrUnavailable
	}

	pubsub := n.redisClient.Subscribe(ctx, PublicChannel, UserChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	return pubsub, nil
}
