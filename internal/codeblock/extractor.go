package codeblock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalancedCodeFence indicates an opening fence marker with no matching
// close before end of document.
var ErrUnbalancedCodeFence = errors.New("codeblock: unbalanced code fence")

// Mode adjusts how a fenced block is handed to the highlighter boundary.
type Mode string

const (
	// ModeNone is the default: highlight and wrap the block normally.
	ModeNone Mode = ""
	// ModeLiteral renders the fence markers themselves as part of the
	// output, used for documents that explain fence syntax.
	ModeLiteral Mode = "literal"
	// ModeRaw marks content that is already valid output markup and needs
	// no extra wrapping from the highlighter.
	ModeRaw Mode = "raw"
)

// Block is a fenced region lifted out of the body verbatim. Text preserves
// the original whitespace and line breaks exactly; Marker is the opening
// fence run as written, so literal-mode rendering can reproduce it.
type Block struct {
	Lang   string
	Mode   Mode
	Text   string
	Marker string
}

// Span is an inline code run. It travels through later stages as a single
// opaque token and is restored untouched, delimiters included.
type Span struct {
	Text string
}

// Extraction is the body with every code region replaced by an opaque
// placeholder, plus the records those placeholders point at.
type Extraction struct {
	Body   string
	Blocks []Block
	Spans  []Span
}

const (
	blockToken = "@@press-code-%d@@"
	spanToken  = "@@press-span-%d@@"
)

// BlockPlaceholder returns the placeholder token for block i.
func BlockPlaceholder(i int) string {
	return fmt.Sprintf(blockToken, i)
}

// SpanPlaceholder returns the placeholder token for inline span i.
func SpanPlaceholder(i int) string {
	return fmt.Sprintf(spanToken, i)
}

// Extract scans the body for fenced regions and inline code spans, replacing
// each with a placeholder. It must run before reference resolution so code
// text resembling link syntax is never interpreted as real markup.
func Extract(body string) (*Extraction, error) {
	out := &Extraction{}

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		marker, lang, mode, ok := parseFenceOpen(lines[i])
		if !ok {
			kept = append(kept, extractSpans(lines[i], out))
			continue
		}

		closed := false
		var verbatim []string
		for j := i + 1; j < len(lines); j++ {
			if isFenceClose(lines[j], marker) {
				out.Blocks = append(out.Blocks, Block{
					Lang:   lang,
					Mode:   mode,
					Text:   strings.Join(verbatim, "\n"),
					Marker: marker,
				})
				kept = append(kept, BlockPlaceholder(len(out.Blocks)-1))
				i = j
				closed = true
				break
			}
			verbatim = append(verbatim, lines[j])
		}
		if !closed {
			return nil, fmt.Errorf("%w: %q opened at line %d", ErrUnbalancedCodeFence, strings.TrimSpace(lines[i]), i+1)
		}
	}

	out.Body = strings.Join(kept, "\n")
	return out, nil
}

// RestoreSpans substitutes inline spans back into the body verbatim. It runs
// after reference resolution, before the body reaches the markup converter.
func (e *Extraction) RestoreSpans(body string) string {
	for i, span := range e.Spans {
		body = strings.Replace(body, SpanPlaceholder(i), span.Text, 1)
	}
	return body
}

// ExpandBlocks replaces each block placeholder using render, typically the
// highlighter boundary. Placeholders the converter wrapped in a paragraph of
// their own are unwrapped so block markup is not nested inside <p> tags.
func (e *Extraction) ExpandBlocks(body string, render func(Block) (string, error)) (string, error) {
	for i, block := range e.Blocks {
		markup, err := render(block)
		if err != nil {
			return "", fmt.Errorf("codeblock: expand block %d: %w", i, err)
		}

		token := BlockPlaceholder(i)
		wrapped := "<p>" + token + "</p>"
		if strings.Contains(body, wrapped) {
			body = strings.Replace(body, wrapped, markup, 1)
			continue
		}
		body = strings.Replace(body, token, markup, 1)
	}
	return body, nil
}

// parseFenceOpen recognises an opening fence marker: three or more backticks
// or tildes, optionally followed by a language tag and a mode flag token.
func parseFenceOpen(line string) (marker string, lang string, mode Mode, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, ch := range []string{"```", "~~~"} {
		if !strings.HasPrefix(trimmed, ch) {
			continue
		}

		rest := strings.TrimLeft(trimmed, string(ch[0]))
		marker = trimmed[:len(trimmed)-len(rest)]
		fields := strings.Fields(rest)

		// A backtick run inside the info string is inline code, not a fence.
		if strings.ContainsAny(rest, "`~") {
			return "", "", ModeNone, false
		}

		if len(fields) > 0 {
			lang = fields[0]
		}
		if len(fields) > 1 {
			switch Mode(strings.ToLower(fields[1])) {
			case ModeLiteral:
				mode = ModeLiteral
			case ModeRaw:
				mode = ModeRaw
			}
		}
		return marker, lang, mode, true
	}
	return "", "", ModeNone, false
}

// isFenceClose matches a closing marker of at least the opening run length,
// with nothing but the marker on the line.
func isFenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(marker) {
		return false
	}
	return strings.TrimLeft(trimmed, string(marker[0])) == ""
}

// extractSpans lifts single-line inline code runs out of a prose line.
func extractSpans(line string, out *Extraction) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(line, '`')
		if start < 0 {
			break
		}
		end := strings.IndexByte(line[start+1:], '`')
		if end < 0 {
			break
		}

		out.Spans = append(out.Spans, Span{Text: line[start : start+end+2]})
		b.WriteString(line[:start])
		b.WriteString(SpanPlaceholder(len(out.Spans) - 1))
		line = line[start+end+2:]
	}
	b.WriteString(line)
	return b.String()
}
