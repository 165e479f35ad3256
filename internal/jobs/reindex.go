package jobs

import (
	"context"
	"log"

	postRepo "anoa.com/threadboard/internal/modules/post/repository"
	search "anoa.com/threadboard/internal/modules/search/service"
	threadRepo "anoa.com/threadboard/internal/modules/thread/repository"
)

const SearchReindexJobName = "search-reindex"

// SearchReindexJob re-adds every public thread and its posts to the search index.
// Indexing on write is best effort, so this repairs documents lost to transient failures.
type SearchReindexJob struct {
	threads  threadRepo.Repository
	posts    postRepo.PostRepository
	meili    search.SearchService
	schedule string
}

func NewSearchReindexJob(threads threadRepo.Repository, posts postRepo.PostRepository, meili search.SearchService, schedule string) *SearchReindexJob {
	return &SearchReindexJob{threads: threads, posts: posts, meili: meili, schedule: schedule}
}

func (j *SearchReindexJob) Name() string     { return SearchReindexJobName }
func (j *SearchReindexJob) Schedule() string { return j.schedule }

func (j *SearchReindexJob) Execute(ctx context.Context) error {
	threads, err := j.threads.FindPublic(ctx)
	if err != nil {
		return err
	}

	var indexedThreads, indexedPosts, failures int
	for _, t := range threads {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.IsPrivate {
			continue
		}

		if err := j.meili.IndexThread(t); err != nil {
			failures++
			log.Printf("[%s] failed to index thread %s: %v", SearchReindexJobName, t.ID, err)
		} else {
			indexedThreads++
		}

		posts, err := j.posts.FindByThreadID(ctx, t.ID)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if err := j.meili.IndexPost(p, t); err != nil {
				failures++
				log.Printf("[%s] failed to index post %s: %v", SearchReindexJobName, p.ID, err)
				continue
			}
			indexedPosts++
		}
	}

	log.Printf("[%s] indexed %d threads and %d posts (%d failures)", SearchReindexJobName, indexedThreads, indexedPosts, failures)
	return nil
}
