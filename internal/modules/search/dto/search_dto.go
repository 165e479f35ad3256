package dto

type SearchQuery struct {
	Query string `form:"q" binding:"required,max=200"`
	Limit int64  `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ThreadHit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

type PostHit struct {
	ID          string `json:"id"`
	ThreadID    string `json:"thread_id"`
	ThreadTitle string `json:"thread_title"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	CreatedAt   int64  `json:"created_at"`
}

type SearchResponse struct {
	Threads []ThreadHit `json:"threads"`
	Posts   []PostHit   `json:"posts"`
}
