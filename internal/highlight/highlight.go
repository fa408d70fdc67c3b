// Package highlight renders code into hypertext with per-token styling
// classes. Tokenization is driven by the grammar table shipped with chroma;
// the table and the chosen style are resolved once and read-only afterwards,
// so a single Highlighter is safe for concurrent use.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	htmlfmt "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const DefaultStyle = "github"

// Highlighter tokenizes code blocks into scoped hypertext fragments.
type Highlighter struct {
	style     *chroma.Style
	formatter *htmlfmt.Formatter
}

// New builds a Highlighter for the named style. Unknown style names fall
// back to the chroma default rather than failing startup.
func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: htmlfmt.New(htmlfmt.WithClasses(true)),
	}
}

// Highlight writes the code as a hypertext fragment. When the language names
// a known grammar every token is wrapped in a marker carrying its scope
// class; otherwise the code is emitted as a single escaped block. Rendering
// never fails because of the input, only because of the writer.
func (h *Highlighter) Highlight(w io.Writer, code, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		return writePlain(w, code)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return writePlain(w, code)
	}
	if err := h.formatter.Format(w, h.style, it); err != nil {
		return fmt.Errorf("highlight: format: %w", err)
	}
	return nil
}

// StyleCSS writes the stylesheet that colors the emitted scope classes.
func (h *Highlighter) StyleCSS(w io.Writer) error {
	if err := h.formatter.WriteCSS(w, h.style); err != nil {
		return fmt.Errorf("highlight: write css: %w", err)
	}
	return nil
}

// writePlain emits an untokenized escaped block for unknown grammars.
func writePlain(w io.Writer, code string) error {
	var b strings.Builder
	b.WriteString("<pre><code>")
	b.WriteString(escape(code))
	b.WriteString("</code></pre>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
