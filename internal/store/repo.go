package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/search"
)

// validateTitle checks the title rules and returns the derived slug.
func (s *Store) validateTitle(title string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("%w: empty title", apperr.ErrInvalidTitle)
	}
	if utf8.RuneCountInString(title) > s.maxTitleLen {
		return "", fmt.Errorf("%w: title exceeds %d characters", apperr.ErrInvalidTitle, s.maxTitleLen)
	}
	sl, err := slug.Normalize(title)
	if err != nil || sl == "" {
		return "", fmt.Errorf("%w: title has no addressable form", apperr.ErrInvalidTitle)
	}
	return sl, nil
}

// Create inserts a new article and its search entry in one transaction.
func (s *Store) Create(title, body string) (*models.Article, error) {
	title = strings.TrimSpace(title)
	sl, err := s.validateTitle(title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &models.Article{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      sl,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return nil, unavailable("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var taken int
	if err := tx.QueryRow(`SELECT count(*) FROM articles WHERE title = ? OR slug = ?`, a.Title, a.Slug).Scan(&taken); err != nil {
		return nil, unavailable("check title", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: %q", apperr.ErrTitleConflict, a.Title)
	}

	_, err = tx.Exec(`
		INSERT INTO articles (id, title, slug, body, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, a.ID, a.Title, a.Slug, a.Body, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, mapSQLiteErr("insert article", err)
	}

	if err := search.Upsert(tx, search.Entry{ArticleID: a.ID, Title: a.Title, Body: a.Body}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit", err)
	}
	return a, nil
}

// Update applies a partial update. A nil field keeps the stored value. The
// revision counter and updated_at advance on every successful call, and the
// search entry is rewritten in the same transaction.
func (s *Store) Update(id string, newTitle, newBody *string) (*models.Article, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return nil, unavailable("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	a, err := scanArticle(tx.QueryRow(selectArticle+` WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	sets := []string{"revision = revision + 1", "updated_at = ?"}
	now := time.Now().UTC()
	args := []any{now}

	if newTitle != nil {
		title := strings.TrimSpace(*newTitle)
		sl, err := s.validateTitle(title)
		if err != nil {
			return nil, err
		}
		var taken int
		if err := tx.QueryRow(`SELECT count(*) FROM articles WHERE (title = ? OR slug = ?) AND id != ?`, title, sl, id).Scan(&taken); err != nil {
			return nil, unavailable("check title", err)
		}
		if taken > 0 {
			return nil, fmt.Errorf("%w: %q", apperr.ErrTitleConflict, title)
		}
		sets = append(sets, "title = ?", "slug = ?")
		args = append(args, title, sl)
		a.Title, a.Slug = title, sl
	}
	if newBody != nil {
		sets = append(sets, "body = ?")
		args = append(args, *newBody)
		a.Body = *newBody
	}

	args = append(args, id)
	query := "UPDATE articles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.Exec(query, args...); err != nil {
		return nil, mapSQLiteErr("update article", err)
	}
	a.Revision++
	a.UpdatedAt = now

	if err := search.Upsert(tx, search.Entry{ArticleID: a.ID, Title: a.Title, Body: a.Body}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit", err)
	}
	return a, nil
}

// Delete removes the article and its search entry in one transaction.
func (s *Store) Delete(id string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return unavailable("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr("delete article", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := search.Remove(tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

const selectArticle = `SELECT id, title, slug, body, revision, created_at, updated_at FROM articles`

// GetByID returns the article with the given id.
func (s *Store) GetByID(id string) (*models.Article, error) {
	return scanArticle(s.conn.QueryRow(selectArticle+` WHERE id = ?`, id))
}

// GetByTitleOrSlug resolves text against the exact title first, then against
// its slug-normalized form. Link resolution and the store share this lookup
// so both apply the same case rules.
func (s *Store) GetByTitleOrSlug(text string) (*models.Article, error) {
	a, err := scanArticle(s.conn.QueryRow(selectArticle+` WHERE title = ?`, text))
	if err == nil || !errors.Is(err, apperr.ErrNotFound) {
		return a, err
	}
	sl, nerr := slug.Normalize(text)
	if nerr != nil || sl == "" {
		return nil, apperr.ErrNotFound
	}
	return scanArticle(s.conn.QueryRow(selectArticle+` WHERE slug = ?`, sl))
}

// List returns summaries of all articles ordered by title.
func (s *Store) List() ([]models.ArticleSummary, error) {
	rows, err := s.conn.Query(`SELECT id, title, slug, updated_at FROM articles ORDER BY title`)
	if err != nil {
		return nil, unavailable("list articles", err)
	}
	defer rows.Close()

	var out []models.ArticleSummary
	for rows.Next() {
		var sum models.ArticleSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Slug, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Search answers a free-text query against the index.
func (s *Store) Search(query string, limit int) ([]search.Result, error) {
	return search.Query(s.conn, query, limit)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &a.Revision, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("scan article", err)
	}
	return &a, nil
}

// mapSQLiteErr translates constraint violations into the domain error; a
// duplicate title slipping past the pre-check under concurrency still
// surfaces as ErrTitleConflict.
func mapSQLiteErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", apperr.ErrTitleConflict, op)
	}
	return unavailable(op, err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s (%v): %w", op, err, apperr.ErrStoreUnavailable)
}
