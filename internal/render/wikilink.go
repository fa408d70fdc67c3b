package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// WikiLink is an inline node for a [[Target]] or [[Target|Alias]] reference.
type WikiLink struct {
	ast.BaseInline
	Target string
	Label  string
}

// KindWikiLink is the node kind for WikiLink.
var KindWikiLink = ast.NewNodeKind("WikiLink")

// Kind implements ast.Node.
func (n *WikiLink) Kind() ast.NodeKind {
	return KindWikiLink
}

// Dump implements ast.Node.
func (n *WikiLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target,
		"Label":  n.Label,
	}, nil)
}

// wikilinkParser recognizes [[...]] references. It runs just before the
// standard link parser so bracketed references are claimed first; anything
// that is not a well-formed wikilink falls through to regular link handling
// and ultimately to literal text.
type wikilinkParser struct{}

// Trigger implements parser.InlineParser.
func (p *wikilinkParser) Trigger() []byte {
	return []byte{'['}
}

// Parse implements parser.InlineParser. Wikilinks never span lines.
func (p *wikilinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 5 || line[0] != '[' || line[1] != '[' {
		return nil
	}
	stop := bytes.Index(line, []byte("]]"))
	if stop < 2 {
		return nil
	}

	inner := string(line[2:stop])
	target, label := inner, ""
	if i := strings.Index(inner, "|"); i >= 0 {
		target, label = inner[:i], inner[i+1:]
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}

	block.Advance(stop + 2)
	return &WikiLink{Target: target, Label: strings.TrimSpace(label)}
}
