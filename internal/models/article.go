// Package models defines the domain types for Laguz.
package models

import "time"

// Article is a titled unit of stored Markdown text, the base content entity.
// The ID is assigned at creation and never changes; the slug is re-derived
// whenever the title changes.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleSummary is a lightweight representation returned by list operations.
type ArticleSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}
