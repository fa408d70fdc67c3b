package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/wikiservice"
)

const maxRequestBody = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *wikiservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *wikiservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeStoreError maps the error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrTitleConflict):
		writeJSON(w, http.StatusConflict, errorBody("title already in use"))
	case errors.Is(err, apperr.ErrInvalidTitle):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid title"))
	case errors.Is(err, apperr.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store unavailable"))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListArticles handles GET /articles.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListArticles(r.Context())
	if err != nil {
		slog.Error("list articles failed", slog.String("error", err.Error()))
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.ArticleSummary{}
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: len(items)})
}

// GetArticle handles GET /articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.svc.GetArticle(r.Context(), id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			slog.Error("get article failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateArticle handles POST /articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	a, err := h.svc.CreateArticle(r.Context(), req.Title, req.Body)
	if err != nil {
		if errors.Is(err, apperr.ErrStoreUnavailable) {
			slog.Error("create article failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateArticle handles PUT /articles/{id}. Title and body are both
// optional; omitted fields keep their stored value.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	id := chi.URLParam(r, "id")

	var req UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == nil && req.Body == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("title or body is required"))
		return
	}

	a, err := h.svc.UpdateArticle(r.Context(), id, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, apperr.ErrStoreUnavailable) {
			slog.Error("update article failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteArticle handles DELETE /articles/{id}.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteArticle(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderArticle handles GET /articles/{id}/rendered and returns the
// hypertext fragment for the article body.
func (h *Handler) RenderArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, err := h.svc.RenderArticle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// Preview handles POST /preview, rendering unsaved markup.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.svc.Render(req.Body)))
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeStoreError(w, err)
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
