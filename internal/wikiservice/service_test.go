package wikiservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/highlight"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/testutil"
)

type recordedEvent struct {
	kind  string
	id    string
	title string
}

type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) PublishArticleEvent(kind, id, title string) {
	f.events = append(f.events, recordedEvent{kind: kind, id: id, title: title})
}

func testService(t *testing.T) (*Service, *fakeNotifier) {
	t.Helper()
	st := testutil.TestStore(t)
	renderer := render.New(render.NewLinkResolver(st), highlight.New(""))
	notifier := &fakeNotifier{}
	return NewService(st, renderer, notifier), notifier
}

func TestCreateEmitsEvent(t *testing.T) {
	svc, notifier := testService(t)
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, "Cats", "felines")
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("events = %d, want 1", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.kind != "created" || ev.id != a.ID || ev.title != "Cats" {
		t.Errorf("event = %+v", ev)
	}
}

func TestFailedCreateEmitsNothing(t *testing.T) {
	svc, notifier := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateArticle(ctx, "Cats", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateArticle(ctx, "Cats", ""); !errors.Is(err, apperr.ErrTitleConflict) {
		t.Fatalf("err = %v, want ErrTitleConflict", err)
	}
	if len(notifier.events) != 1 {
		t.Errorf("events = %d, want 1 (no event for the failed create)", len(notifier.events))
	}
}

func TestUpdateAndDeleteEmitEvents(t *testing.T) {
	svc, notifier := testService(t)
	ctx := context.Background()

	a, err := svc.CreateArticle(ctx, "Cats", "v1")
	if err != nil {
		t.Fatal(err)
	}
	body := "v2"
	if _, err := svc.UpdateArticle(ctx, a.ID, nil, &body); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteArticle(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	kinds := make([]string, len(notifier.events))
	for i, ev := range notifier.events {
		kinds[i] = ev.kind
	}
	want := "created,updated,deleted"
	if got := strings.Join(kinds, ","); got != want {
		t.Errorf("event kinds = %q, want %q", got, want)
	}
}

func TestNilNotifier(t *testing.T) {
	st := testutil.TestStore(t)
	renderer := render.New(render.NewLinkResolver(st), highlight.New(""))
	svc := NewService(st, renderer, nil)

	if _, err := svc.CreateArticle(context.Background(), "Cats", ""); err != nil {
		t.Fatalf("create with nil notifier: %v", err)
	}
}

func TestRenderArticleResolvesAgainstStore(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	cats, err := svc.CreateArticle(ctx, "Cats", "See [[Dogs]].\n\n```python\nprint(1)\n```\n")
	if err != nil {
		t.Fatal(err)
	}

	out, err := svc.RenderArticle(ctx, cats.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `class="absent"`) {
		t.Errorf("expected dangling link before Dogs exists: %q", out)
	}
	if !strings.Contains(out, "<span") {
		t.Errorf("expected highlighted code block: %q", out)
	}

	if _, err := svc.CreateArticle(ctx, "Dogs", "loyal"); err != nil {
		t.Fatal(err)
	}

	out, err = svc.RenderArticle(ctx, cats.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `class="resolved"`) {
		t.Errorf("expected resolved link after Dogs exists: %q", out)
	}
	if !strings.Contains(out, `href="/article/dogs"`) {
		t.Errorf("expected canonical address: %q", out)
	}
}

func TestRenderArticleMissing(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.RenderArticle(context.Background(), "no-such-id"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchThroughService(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.CreateArticle(ctx, "Channels", "all about go channels"); err != nil {
		t.Fatal(err)
	}
	results, err := svc.Search(ctx, "channels", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Channels" {
		t.Errorf("results = %+v", results)
	}
}

func TestPreviewRenderDoesNotTouchStore(t *testing.T) {
	svc, notifier := testService(t)

	out := svc.Render("# Draft\n\nSee [[Nowhere]].")
	if !strings.Contains(out, `class="absent"`) {
		t.Errorf("preview output = %q", out)
	}
	if len(notifier.events) != 0 {
		t.Errorf("preview must not emit events, got %d", len(notifier.events))
	}

	items, err := svc.ListArticles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("preview must not persist articles, got %d", len(items))
	}
}
