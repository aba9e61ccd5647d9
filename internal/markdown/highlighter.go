package markdown

import (
	"html"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// PassthroughHighlighter satisfies the SyntaxHighlighter boundary without a
// highlighting engine: code is escaped and wrapped so pages stay valid, and
// the language tag is surfaced as a class for client-side highlighters.
type PassthroughHighlighter struct{}

var _ interfaces.SyntaxHighlighter = PassthroughHighlighter{}

// NewPassthroughHighlighter returns the default highlighter implementation.
func NewPassthroughHighlighter() PassthroughHighlighter {
	return PassthroughHighlighter{}
}

// Highlight wraps code in pre/code tags, escaping HTML. The language tag
// is never interpreted, only surfaced.
func (PassthroughHighlighter) Highlight(lang string, code string) (string, error) {
	var b strings.Builder
	b.WriteString("<pre><code")
	if lang = strings.TrimSpace(lang); lang != "" {
		b.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(code))
	b.WriteString("\n</code></pre>")
	return b.String(), nil
}
