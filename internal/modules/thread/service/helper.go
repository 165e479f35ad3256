package thread

import (
	"sort"

	"anoa.com/threadboard/internal/entity"
	threadDto "anoa.com/threadboard/internal/modules/thread/dto"
	commonDto "anoa.com/threadboard/pkg/dto"
	"github.com/google/uuid"
)

// BuildThreadResponse maps a thread with its author and, for private threads, its members.
func BuildThreadResponse(thread *entity.Thread) threadDto.ThreadResponse {
	resp := threadDto.ThreadResponse{
		ID:        thread.ID,
		Title:     thread.Title,
		Content:   thread.Content,
		IsPrivate: thread.IsPrivate,
		Author:    AuthorOf(thread.Author, thread.AuthorID),
		PostCount: thread.PostCount,
		CreatedAt: thread.CreatedAt,
	}

	if thread.IsPrivate {
		for _, m := range thread.Members {
			resp.Members = append(resp.Members, AuthorOf(m.User, m.UserID))
		}
	}

	return resp
}

func buildThreadResponses(threads []*entity.Thread) []threadDto.ThreadResponse {
	out := make([]threadDto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, BuildThreadResponse(t))
	}
	return out
}

// AuthorOf falls back to the foreign key when the user row was not preloaded.
func AuthorOf(user entity.User, id uuid.UUID) commonDto.AuthorResponse {
	author := commonDto.AuthorResponse{ID: user.ID, Username: user.Username}
	if author.ID == uuid.Nil {
		author.ID = id
	}
	if author.Username == "" {
		author.Username = "Unknown"
	}
	return author
}

// sortNewestFirst orders by created_at descending; ties fall back to the id so
// listings stay stable across calls.
func sortNewestFirst(threads []*entity.Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		if !threads[i].CreatedAt.Equal(threads[j].CreatedAt) {
			return threads[i].CreatedAt.After(threads[j].CreatedAt)
		}
		return threads[i].ID.String() > threads[j].ID.String()
	})
}
