// Package wikiservice coordinates the article store, the renderer, and the
// event broker. The web and MCP layers call only this service.
package wikiservice

import (
	"context"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/store"
)

// Notifier receives article change events after a successful commit.
type Notifier interface {
	PublishArticleEvent(kind, id, title string)
}

// Service is the externally visible surface of the content pipeline.
type Service struct {
	store    *store.Store
	renderer *render.Renderer
	events   Notifier
}

// NewService creates a new wiki service. events may be nil.
func NewService(st *store.Store, renderer *render.Renderer, events Notifier) *Service {
	return &Service{store: st, renderer: renderer, events: events}
}

// CreateArticle stores a new article; the search index is updated in the
// same transaction, so a caller that sees the article can also find it.
func (s *Service) CreateArticle(_ context.Context, title, body string) (*models.Article, error) {
	a, err := s.store.Create(title, body)
	if err != nil {
		return nil, err
	}
	s.notify("created", a)
	return a, nil
}

// UpdateArticle applies a partial update; nil keeps the stored value.
func (s *Service) UpdateArticle(_ context.Context, id string, newTitle, newBody *string) (*models.Article, error) {
	a, err := s.store.Update(id, newTitle, newBody)
	if err != nil {
		return nil, err
	}
	s.notify("updated", a)
	return a, nil
}

// DeleteArticle removes an article and retracts its index entry.
func (s *Service) DeleteArticle(_ context.Context, id string) error {
	a, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.notify("deleted", a)
	return nil
}

// GetArticle returns the article with the given id.
func (s *Service) GetArticle(_ context.Context, id string) (*models.Article, error) {
	return s.store.GetByID(id)
}

// GetByTitleOrSlug returns the article addressed by a title or slug.
func (s *Service) GetByTitleOrSlug(_ context.Context, text string) (*models.Article, error) {
	return s.store.GetByTitleOrSlug(text)
}

// ListArticles returns all article summaries ordered by title.
func (s *Service) ListArticles(_ context.Context) ([]models.ArticleSummary, error) {
	return s.store.List()
}

// Search answers a free-text query against the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]search.Result, error) {
	return s.store.Search(query, limit)
}

// RenderArticle fetches an article and renders its body to hypertext.
// Resolution state is recomputed on every call.
func (s *Service) RenderArticle(ctx context.Context, id string) (string, error) {
	a, err := s.GetArticle(ctx, id)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(a.Body), nil
}

// Render renders raw markup without touching the store (preview).
func (s *Service) Render(body string) string {
	return s.renderer.Render(body)
}

func (s *Service) notify(kind string, a *models.Article) {
	if s.events != nil {
		s.events.PublishArticleEvent(kind, a.ID, a.Title)
	}
}
