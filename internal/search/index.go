// Package search maintains the token index over articles and answers
// free-text queries. Index writes happen inside the store's transaction so
// the article row and its entry can never diverge.
package search

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const snippetWindow = 160

// Entry is the indexed representation of one article.
type Entry struct {
	ArticleID string
	Title     string
	Body      string
}

// Result is one search hit, ordered best-first.
type Result struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Snippet   string `json:"snippet"`
}

// Upsert replaces the index entry for the article within the given transaction.
func Upsert(tx *sql.Tx, e Entry) error {
	_, err := tx.Exec(`
		INSERT INTO search_index (article_id, title_tokens, content_tokens, last_indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			title_tokens    = excluded.title_tokens,
			content_tokens  = excluded.content_tokens,
			last_indexed_at = excluded.last_indexed_at
	`, e.ArticleID,
		strings.Join(Tokenize(e.Title), " "),
		strings.Join(Tokenize(e.Body), " "),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("search: upsert entry: %w", err)
	}
	return nil
}

// Remove drops the index entry for the article within the given transaction.
func Remove(tx *sql.Tx, articleID string) error {
	if _, err := tx.Exec(`DELETE FROM search_index WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("search: remove entry: %w", err)
	}
	return nil
}

type candidate struct {
	Result
	updatedAt time.Time
}

// Query tokenizes the free-text query and ranks articles by token overlap.
// A hit in the title tokens counts double a hit in the content tokens. Ties
// break by most recent update, then by title lexical order.
func Query(conn *sql.DB, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	rows, err := conn.Query(`
		SELECT a.id, a.title, a.body, a.updated_at, s.title_tokens, s.content_tokens
		FROM search_index s
		JOIN articles a ON a.id = s.article_id
	`)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer rows.Close()

	var matched []candidate
	for rows.Next() {
		var c candidate
		var body, titleTokens, contentTokens string
		if err := rows.Scan(&c.ArticleID, &c.Title, &body, &c.updatedAt, &titleTokens, &contentTokens); err != nil {
			return nil, err
		}

		titleSet := strings.Fields(titleTokens)
		contentSet := strings.Fields(contentTokens)
		for _, term := range terms {
			if matchAny(titleSet, term) {
				c.Score += 2
			}
			if matchAny(contentSet, term) {
				c.Score++
			}
		}
		if c.Score == 0 {
			continue
		}
		c.Snippet = snippet(body, terms)
		matched = append(matched, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		if !matched[i].updatedAt.Equal(matched[j].updatedAt) {
			return matched[i].updatedAt.After(matched[j].updatedAt)
		}
		return matched[i].Title < matched[j].Title
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]Result, len(matched))
	for i, c := range matched {
		out[i] = c.Result
	}
	return out, nil
}

// matchAny reports whether term matches a token exactly or as a substring,
// so partial words ("high" for "highlight") still hit.
func matchAny(tokens []string, term string) bool {
	for _, tok := range tokens {
		if strings.Contains(tok, term) {
			return true
		}
	}
	return false
}

// snippet extracts a short context window around the first term occurrence.
func snippet(body string, terms []string) string {
	idx := -1
	for _, term := range terms {
		if i := indexFold(body, term); i >= 0 && (idx < 0 || i < idx) {
			idx = i
		}
	}
	if idx < 0 {
		idx = 0
	}

	start := idx - snippetWindow/4
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(body) {
		end = len(body)
	}

	s := strings.ToValidUTF8(body[start:end], "")
	s = strings.Join(strings.Fields(s), " ")
	if start > 0 {
		s = "..." + s
	}
	if end < len(body) {
		s += "..."
	}
	return s
}

// indexFold returns the byte offset in s of the first case-insensitive
// occurrence of term (already lowercased by Tokenize). Folding rune by rune
// keeps the offset valid for slicing s, which lowercasing the whole string
// would not: some runes change byte length under ToLower.
func indexFold(s, term string) int {
	if term == "" {
		return -1
	}
	for i := range s {
		if foldPrefix(s[i:], term) {
			return i
		}
	}
	return -1
}

func foldPrefix(s, term string) bool {
	for _, tr := range term {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return false
		}
		if unicode.ToLower(r) != tr {
			return false
		}
		s = s[size:]
	}
	return true
}
