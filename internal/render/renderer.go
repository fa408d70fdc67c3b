// Package render turns article Markdown into hypertext fragments. The
// pipeline parses a CommonMark/GFM block structure, hands fenced code blocks
// to the syntax highlighter, and hands [[bracketed]] references to the link
// resolver. Rendering is a total function over the input text: malformed
// constructs degrade to escaped literal text, never to an error.
package render

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/starford/laguz/internal/highlight"
)

// Renderer converts article bodies to hypertext. The goldmark engine is
// built once and holds no per-render state, so a single Renderer serves
// concurrent render requests.
type Renderer struct {
	md goldmark.Markdown
}

// New assembles the engine: GFM tables, strikethrough, task lists, bare-URL
// autolinking, plus the wikilink and code-highlight extension.
func New(resolver *LinkResolver, highlighter *highlight.Highlighter) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Linkify,
			&wikiExtension{resolver: resolver, highlighter: highlighter},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Renderer{md: md}
}

// Render produces the hypertext fragment for body. Output is byte-identical
// across calls as long as no article is created, renamed, or deleted in
// between, since link resolution consults live store contents.
func (r *Renderer) Render(body string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "<p>" + stdhtml.EscapeString(body) + "</p>\n"
	}
	return buf.String()
}

// wikiExtension wires the wikilink parser and the node renderer into a
// goldmark engine.
type wikiExtension struct {
	resolver    *LinkResolver
	highlighter *highlight.Highlighter
}

func (e *wikiExtension) Extend(m goldmark.Markdown) {
	// Priority 199 puts the wikilink parser just ahead of the standard link
	// parser (200); the node renderer likewise outranks the defaults.
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&wikilinkParser{}, 199),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&nodeRenderer{resolver: e.resolver, highlighter: e.highlighter}, 199),
	))
}

// nodeRenderer emits hypertext for wikilinks and fenced code blocks.
type nodeRenderer struct {
	resolver    *LinkResolver
	highlighter *highlight.Highlighter
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikiLink, r.renderWikiLink)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

// renderHTMLBlock emits raw HTML blocks as escaped literal text. The default
// renderer drops them with a placeholder comment, which loses the author's
// text; here markup written into an article always survives as visible text.
func (r *nodeRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			_, _ = w.WriteString(stdhtml.EscapeString(string(line.Value(source))))
		}
	} else if n.HasClosure() {
		_, _ = w.WriteString(stdhtml.EscapeString(string(n.ClosureLine.Value(source))))
	}
	return ast.WalkContinue, nil
}

// renderRawHTML emits inline HTML as escaped literal text.
func (r *nodeRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		_, _ = w.WriteString(stdhtml.EscapeString(string(seg.Value(source))))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderWikiLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*WikiLink)
	link := r.resolver.Resolve(n.Target)

	display := n.Label
	if display == "" {
		display = link.DisplayText
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.WriteString(stdhtml.EscapeString(link.Href))
	_, _ = w.WriteString(`" class="`)
	_, _ = w.WriteString(link.Class)
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(stdhtml.EscapeString(display))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkContinue, nil
}

// renderFencedCodeBlock substitutes the highlighter's output for the block.
// The fragment is injected verbatim; its contents are opaque to any later
// pass, so code text is never reinterpreted as links or markup.
func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	language := string(n.Language(source))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(source[line.Start:line.Stop])
	}

	if err := r.highlighter.Highlight(w, code.String(), language); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, nil
}
