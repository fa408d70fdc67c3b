package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/laguz/internal/highlight"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/testutil"
	"github.com/starford/laguz/internal/wikiservice"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	st := testutil.TestStore(t)
	renderer := render.New(render.NewLinkResolver(st), highlight.New(""))
	svc := wikiservice.NewService(st, renderer, nil)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_articles":
		result, err = srv.searchArticles(ctx, req)
	case "read_article":
		result, err = srv.readArticle(ctx, req)
	case "create_article":
		result, err = srv.createArticle(ctx, req)
	case "update_article":
		result, err = srv.updateArticle(ctx, req)
	case "list_articles":
		result, err = srv.listArticles(ctx, req)
	case "get_article_contract":
		result, err = srv.getArticleContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadArticle(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_article", map[string]interface{}{
		"title": "Cats",
		"body":  "Felines. See [[Dogs]].",
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	if !strings.HasPrefix(resultText(r), "created: Cats (") {
		t.Errorf("create result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_article", map[string]interface{}{"article": "Cats"})
	if text := resultText(r); text != "Felines. See [[Dogs]]." {
		t.Errorf("read result = %q", text)
	}

	// Slug form resolves to the same article.
	r = callTool(t, srv, "read_article", map[string]interface{}{"article": "cats"})
	if r.IsError {
		t.Errorf("slug read failed: %s", resultText(r))
	}
}

func TestReadArticleMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_article", map[string]interface{}{"article": "nope"})
	if !r.IsError {
		t.Error("expected error for missing article")
	}
}

func TestCreateDuplicateTitle(t *testing.T) {
	srv := testServer(t)

	_ = callTool(t, srv, "create_article", map[string]interface{}{"title": "Cats", "body": "a"})
	r := callTool(t, srv, "create_article", map[string]interface{}{"title": "Cats", "body": "b"})
	if !r.IsError {
		t.Error("expected error for duplicate title")
	}
}

func TestUpdateArticle(t *testing.T) {
	srv := testServer(t)

	_ = callTool(t, srv, "create_article", map[string]interface{}{"title": "Draft", "body": "v1"})

	items := resultText(callTool(t, srv, "list_articles", map[string]interface{}{}))
	// Lines are "title (id)".
	id := strings.TrimSuffix(strings.SplitN(items, "(", 2)[1], ")")

	r := callTool(t, srv, "update_article", map[string]interface{}{"id": id, "body": "v2"})
	if r.IsError {
		t.Fatalf("update failed: %s", resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, "revision 1") {
		t.Errorf("update result = %q", text)
	}

	r = callTool(t, srv, "read_article", map[string]interface{}{"article": "Draft"})
	if text := resultText(r); text != "v2" {
		t.Errorf("read after update = %q", text)
	}
}

func TestUpdateRequiresAField(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "update_article", map[string]interface{}{"id": "whatever"})
	if !r.IsError {
		t.Error("expected error when neither title nor body is given")
	}
}

func TestListArticles(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_articles", map[string]interface{}{})
	if text := resultText(r); text != "no articles" {
		t.Errorf("empty list = %q", text)
	}

	_ = callTool(t, srv, "create_article", map[string]interface{}{"title": "Zebras", "body": ""})
	_ = callTool(t, srv, "create_article", map[string]interface{}{"title": "Ants", "body": ""})

	text := resultText(callTool(t, srv, "list_articles", map[string]interface{}{}))
	lines := strings.Split(text, "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Ants (") {
		t.Errorf("list = %q", text)
	}
}

func TestSearchArticles(t *testing.T) {
	srv := testServer(t)

	_ = callTool(t, srv, "create_article", map[string]interface{}{"title": "Channels", "body": "all about go channels"})

	r := callTool(t, srv, "search_articles", map[string]interface{}{"query": "channels"})
	text := resultText(r)
	if !strings.Contains(text, "Channels") {
		t.Errorf("search result = %q", text)
	}
}

func TestGetArticleContract(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_article_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "[[wikilinks]]") {
		t.Errorf("contract missing wikilink rule: %q", text)
	}
}
