package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"anoa.com/threadboard/internal/entity"
	"anoa.com/threadboard/internal/modules/search/dto"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	threadsIndex = "threads"
	postsIndex   = "posts"
)

// SearchService keeps the full-text index of public threads and posts.
// Private threads and their posts are never indexed.
type SearchService interface {
	IndexThread(thread *entity.Thread) error
	IndexPost(post *entity.Post, thread *entity.Thread) error
	DeleteThread(threadID uuid.UUID, postIDs []uuid.UUID) error
	Search(query string, limit int64) (*dto.SearchResponse, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	threadSortable := []string{"created_at"}
	if _, err := s.client.Index(threadsIndex).UpdateSortableAttributes(&threadSortable); err != nil {
		log.Printf("Failed to update threads sortable attributes: %v", err)
	}

	postFilterable := []interface{}{"thread_id"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&postFilterable); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	postSortable := []string{"created_at"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&postSortable); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

// CleanContent strips markup and collapses whitespace so the index holds plain text.
func CleanContent(sanitizer *bluemonday.Policy, content string) string {
	// Replace block tags with spaces to prevent text merging
	for _, tag := range []string{"</p>", "<br>", "<br/>", "</div>"} {
		content = strings.ReplaceAll(content, tag, " ")
	}

	cleanText := html.UnescapeString(sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexThread(thread *entity.Thread) error {
	if thread.IsPrivate {
		return nil
	}

	doc := dto.ThreadHit{
		ID:        thread.ID.String(),
		Title:     thread.Title,
		Content:   CleanContent(s.sanitizer, thread.Content),
		Author:    thread.Author.Username,
		CreatedAt: thread.CreatedAt.Unix(),
	}

	task, err := s.client.Index(threadsIndex).AddDocuments([]dto.ThreadHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed thread %s, task id: %d", thread.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexPost(post *entity.Post, thread *entity.Thread) error {
	if thread == nil {
		return fmt.Errorf("post thread not loaded")
	}
	if thread.IsPrivate {
		return nil
	}

	doc := dto.PostHit{
		ID:          post.ID.String(),
		ThreadID:    post.ThreadID.String(),
		ThreadTitle: thread.Title,
		Content:     CleanContent(s.sanitizer, post.Content),
		Author:      post.Author.Username,
		CreatedAt:   post.CreatedAt.Unix(),
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]dto.PostHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteThread(threadID uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := s.client.Index(threadsIndex).DeleteDocument(threadID.String()); err != nil {
		return err
	}
	for _, id := range postIDs {
		if _, err := s.client.Index(postsIndex).DeleteDocument(id.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *meiliSearchService) Search(query string, limit int64) (*dto.SearchResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	resp := &dto.SearchResponse{Threads: []dto.ThreadHit{}, Posts: []dto.PostHit{}}

	if err := s.searchInto(threadsIndex, query, limit, &resp.Threads); err != nil {
		return nil, err
	}
	if err := s.searchInto(postsIndex, query, limit, &resp.Posts); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *meiliSearchService) searchInto(index, query string, limit int64, hits interface{}) error {
	raw, err := s.client.Index(index).SearchRaw(query, &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"created_at:desc"},
	})
	if err != nil {
		return fmt.Errorf("search %s: %w", index, err)
	}
	if raw == nil {
		return nil
	}

	envelope := struct {
		Hits json.RawMessage `json:"hits"`
	}{}
	if err := json.Unmarshal(*raw, &envelope); err != nil {
		return fmt.Errorf("decode %s hits: %w", index, err)
	}
	if len(envelope.Hits) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Hits, hits)
}

func strPtr(s string) *string {
	return &s
}
