package highlight

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

var classRe = regexp.MustCompile(`class="([^"]+)"`)

func TestHighlightKnownLanguage(t *testing.T) {
	h := New("")

	var buf bytes.Buffer
	code := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	if err := h.Highlight(&buf, code, "go"); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<span") {
		t.Fatalf("expected token markers, got %q", out)
	}
	classes := map[string]struct{}{}
	for _, m := range classRe.FindAllStringSubmatch(out, -1) {
		classes[m[1]] = struct{}{}
	}
	// A keyword and a string literal must carry different scope classes.
	if len(classes) < 2 {
		t.Errorf("expected at least 2 distinct token classes, got %v", classes)
	}
}

func TestHighlightUnknownLanguage(t *testing.T) {
	h := New("")

	var buf bytes.Buffer
	if err := h.Highlight(&buf, "a < b & c > d", "nosuchlanguage"); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	want := "<pre><code>a &lt; b &amp; c &gt; d</code></pre>\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestHighlightEmptyLanguage(t *testing.T) {
	h := New("")

	var buf bytes.Buffer
	if err := h.Highlight(&buf, "plain text", ""); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if !strings.Contains(buf.String(), "plain text") {
		t.Errorf("code text lost: %q", buf.String())
	}
}

func TestHighlightDeterministic(t *testing.T) {
	h := New("")

	var a, b bytes.Buffer
	code := "def greet():\n    return 'hi'\n"
	if err := h.Highlight(&a, code, "python"); err != nil {
		t.Fatal(err)
	}
	if err := h.Highlight(&b, code, "python"); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same input should produce identical output")
	}
}

func TestUnknownStyleFallsBack(t *testing.T) {
	h := New("not-a-style")
	if h.style == nil {
		t.Fatal("style must never be nil")
	}

	var buf bytes.Buffer
	if err := h.StyleCSS(&buf); err != nil {
		t.Fatalf("StyleCSS: %v", err)
	}
}

func TestStyleCSS(t *testing.T) {
	h := New(DefaultStyle)

	var buf bytes.Buffer
	if err := h.StyleCSS(&buf); err != nil {
		t.Fatalf("StyleCSS: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Errorf("stylesheet missing scope selectors: %q", buf.String()[:min(len(buf.String()), 200)])
	}
}
