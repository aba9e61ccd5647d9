package document

import (
	"time"

	"github.com/goliatone/go-press/internal/codeblock"
	"github.com/goliatone/go-press/internal/frontmatter"
	"github.com/goliatone/go-press/internal/reference"
)

// ID is the unique document identity extracted from the source filename.
type ID struct {
	Date time.Time
	Slug string
}

// String renders the canonical date-slug form, e.g. "2012-01-28-hello".
func (id ID) String() string {
	return id.Date.Format("2006-01-02") + "-" + id.Slug
}

// Before orders IDs for the chronological index: date descending, ties
// broken by slug ascending.
func (id ID) Before(other ID) bool {
	if !id.Date.Equal(other.Date) {
		return id.Date.After(other.Date)
	}
	return id.Slug < other.Slug
}

// Document is the immutable per-file build product. It is created once per
// build from the source file and never mutated afterwards; Body is a pure
// function of the raw inputs.
type Document struct {
	ID         ID
	SourcePath string

	// Meta preserves front-matter keys in source order.
	Meta frontmatter.Metadata

	Layout  string
	Title   string
	Excerpt string
	Tags    []string

	// Permalink is the canonical URL path derived from date and slug.
	Permalink string

	// RawBody is the body text exactly as split from the front matter.
	RawBody []byte

	// Body is the resolved body: reference links rewritten inline, inline
	// code restored verbatim, fenced blocks still held as placeholders
	// for the highlighter boundary.
	Body string

	// Codes carries the fenced blocks and spans lifted out of the body.
	Codes *codeblock.Extraction

	// Definitions lists the reference definitions collected from the body.
	Definitions []reference.Definition
}

// Warning is a soft, non-excluding finding attached to a built document.
type Warning struct {
	Code   string
	Detail string
}

// Soft finding codes.
const (
	WarnUnresolvedReference = "UNRESOLVED_REFERENCE"
	WarnMissingLayout       = "MISSING_LAYOUT"
)
