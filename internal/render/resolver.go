package render

import (
	"net/url"

	"github.com/starford/laguz/internal/models"
)

// ArticleLookup is the slice of the store the resolver needs.
type ArticleLookup interface {
	GetByTitleOrSlug(text string) (*models.Article, error)
}

// ResolvedLink is the outcome of resolving one in-text article reference.
// Class distinguishes references to existing articles ("resolved") from
// dangling ones ("absent"), matching the a / a.absent stylesheet split.
type ResolvedLink struct {
	DisplayText string
	Href        string
	Class       string
}

// LinkResolver classifies article references against the current store
// contents. Results are never cached: another article's creation or rename
// can flip a reference between resolved and absent at any time.
type LinkResolver struct {
	articles ArticleLookup
}

// NewLinkResolver creates a resolver backed by the given lookup.
func NewLinkResolver(articles ArticleLookup) *LinkResolver {
	return &LinkResolver{articles: articles}
}

// Resolve looks up rawTarget as a title or slug. A hit links to the
// article's canonical address under its stored title; a miss links to the
// create form pre-filled with the written target.
func (r *LinkResolver) Resolve(rawTarget string) ResolvedLink {
	a, err := r.articles.GetByTitleOrSlug(rawTarget)
	if err != nil {
		return ResolvedLink{
			DisplayText: rawTarget,
			Href:        "/create/article?title=" + url.QueryEscape(rawTarget),
			Class:       "absent",
		}
	}
	return ResolvedLink{
		DisplayText: a.Title,
		Href:        "/article/" + a.Slug,
		Class:       "resolved",
	}
}
