// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/wikiservice"
)

// Server wraps the MCP server with Laguz tools.
type Server struct {
	mcp *server.MCPServer
	svc *wikiservice.Service
}

// New creates a new MCP server with all Laguz tools registered.
func New(svc *wikiservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Search articles by title and content tokens; results are relevance-ordered."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read the raw Markdown of an article addressed by title or slug."),
		mcp.WithString("article", mcp.Required(), mcp.Description("Article title or slug")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("create_article",
		mcp.WithDescription("Create a new article. The body MUST follow the article markup contract "+
			"(Markdown with [[wikilinks]] and language-tagged code fences). Read the contract first via "+
			"the get_article_contract tool or the laguz://article-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Unique article title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Markdown body following the Laguz article markup contract")),
	), s.createArticle)

	s.mcp.AddTool(mcp.NewTool("update_article",
		mcp.WithDescription("Update an existing article's title and/or body. Omitted fields keep their value."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Article id")),
		mcp.WithString("title", mcp.Description("New title (optional)")),
		mcp.WithString("body", mcp.Description("New Markdown body (optional)")),
	), s.updateArticle)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List all articles as 'title (id)' lines, ordered by title."),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_article_contract",
		mcp.WithDescription("Returns the canonical Laguz article markup contract. "+
			"Call this before creating or updating articles to ensure correct structure."),
	), s.getArticleContract)

	// Resource: article markup contract.
	s.mcp.AddResource(
		mcp.NewResource("laguz://article-format", "Article Markup Contract",
			mcp.WithResourceDescription("Canonical Markdown markup that all articles should follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readArticleFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("article")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.svc.GetByTitleOrSlug(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", ref)), nil
	}
	return mcp.NewToolResultText(a.Body), nil
}

func (s *Server) createArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := s.svc.CreateArticle(ctx, title, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", a.Title, a.ID)), nil
}

func (s *Server) updateArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var newTitle, newBody *string
	if t, err := req.RequireString("title"); err == nil && t != "" {
		newTitle = &t
	}
	if b, err := req.RequireString("body"); err == nil && b != "" {
		newBody = &b
	}
	if newTitle == nil && newBody == nil {
		return mcp.NewToolResultError("title or body is required"), nil
	}

	a, err := s.svc.UpdateArticle(ctx, id, newTitle, newBody)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s (revision %d)", a.Title, a.Revision)), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListArticles(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s)", item.Title, item.ID))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no articles"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getArticleContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ArticleFormatContract), nil
}

func (s *Server) readArticleFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "laguz://article-format",
			MIMEType: "text/markdown",
			Text:     ArticleFormatContract,
		},
	}, nil
}
