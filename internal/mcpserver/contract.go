package mcpserver

// ArticleFormatContract describes the canonical article markup that
// LLM consumers should follow when creating or updating articles.
const ArticleFormatContract = `# Laguz Article Markup Contract

Every article stored in Laguz SHOULD follow this structure.

## Structure

` + "```" + `markdown
Body text in standard Markdown (CommonMark + GFM tables, strikethrough,
task lists). Bare URLs are autolinked.

Use [[wikilinks]] to reference other articles by title.
Use [[Target|alias]] for display text that differs from the target.
` + "```" + `

## Rules

1. **The title is passed separately**, not written into the body. It must be
   unique among all articles and at most 200 characters.
2. **Wikilinks** use double brackets: ` + "`" + `[[Other Article]]` + "`" + `. The target is an
   article title or slug. References to articles that do not exist yet are
   allowed; they render as dangling ("absent") links until the target is
   created.
3. **Code blocks** use fenced syntax with a language tag:
   ` + "```" + `go, ` + "```" + `python, etc. Known languages are syntax-highlighted;
   unknown tags render as plain escaped code.
4. **No raw HTML**; it is escaped on render. Prefer Markdown equivalents.
5. **Encoding** is UTF-8.

## Example

` + "````" + `markdown
Felis catus is the domestic cat. Compare with [[Dogs]].

## Hunting

Cats hunt at dawn and dusk. See [[Crepuscular animals|crepuscular]] behavior.

` + "```" + `python
def feed(cat):
    print("feeding", cat)
` + "```" + `
` + "````" + `
`
