package web

import (
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/search"
)

// CreateArticleRequest is the request body for creating an article.
type CreateArticleRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateArticleRequest is the request body for a partial article update.
// Omitted fields keep their stored value.
type UpdateArticleRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// PreviewRequest is the request body for rendering unsaved markup.
type PreviewRequest struct {
	Body string `json:"body"`
}

// ArticleListResponse wraps an article listing.
type ArticleListResponse struct {
	Articles []models.ArticleSummary `json:"articles"`
	Total    int                     `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []search.Result `json:"results"`
}
