package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/highlight"
	"github.com/starford/laguz/internal/wikiservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *wikiservice.Service, highlighter *highlight.Highlighter, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Articles CRUD.
	r.Get("/articles", h.ListArticles)
	r.Post("/articles", h.CreateArticle)
	r.Get("/articles/{id}", h.GetArticle)
	r.Put("/articles/{id}", h.UpdateArticle)
	r.Delete("/articles/{id}", h.DeleteArticle)

	// Rendering.
	r.Get("/articles/{id}/rendered", h.RenderArticle)
	r.Post("/preview", h.Preview)

	// Search.
	r.Get("/search", h.Search)

	// Token stylesheet for highlighted code blocks.
	r.Get("/highlight.css", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := highlighter.StyleCSS(w); err != nil {
			slog.Error("write highlight css failed", slog.String("error", err.Error()))
		}
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
