package document

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-press/internal/codeblock"
	"github.com/goliatone/go-press/internal/frontmatter"
	"github.com/goliatone/go-press/internal/layouts"
	"github.com/goliatone/go-press/internal/reference"
	"github.com/goliatone/go-press/internal/scanner"
)

// Front-matter keys the builder derives document fields from.
const (
	metaLayout  = "layout"
	metaTitle   = "title"
	metaExcerpt = "excerpt"
	metaTags    = "tags"
)

// DefaultExcerptMarker is the explicit cut marker recognised in bodies.
const DefaultExcerptMarker = "<!--more-->"

// BuilderConfig wires the derivation rules shared by every document in a build.
type BuilderConfig struct {
	// Permalinks computes canonical URLs; required.
	Permalinks *Permalinks
	// Layouts is the closed registry used to validate declared layouts.
	Layouts *layouts.Registry
	// ExcerptMarker overrides the explicit cut marker.
	ExcerptMarker string
	// Strict makes a missing or unknown layout fatal when the registry
	// has no site-wide default.
	Strict bool
}

// Builder assembles Documents from scanner output and raw file content.
type Builder struct {
	permalinks    *Permalinks
	layouts       *layouts.Registry
	excerptMarker string
	strict        bool
}

// NewBuilder validates the configuration and returns a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Permalinks == nil {
		return nil, fmt.Errorf("document: permalink builder is required")
	}

	marker := strings.TrimSpace(cfg.ExcerptMarker)
	if marker == "" {
		marker = DefaultExcerptMarker
	}

	return &Builder{
		permalinks:    cfg.Permalinks,
		layouts:       cfg.Layouts,
		excerptMarker: marker,
		strict:        cfg.Strict,
	}, nil
}

// Build runs the per-document pipeline: front matter split, code region
// extraction, reference resolution, then field derivation. Soft findings
// come back as warnings; a non-nil error means the document is excluded
// from the build.
func (b *Builder) Build(src scanner.Source, raw []byte) (*Document, []Warning, error) {
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	// Code regions come out first so fence content resembling link syntax
	// is never treated as real markup.
	extraction, err := codeblock.Extract(string(body))
	if err != nil {
		return nil, nil, err
	}

	resolved, err := reference.Resolve(extraction.Body)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, label := range resolved.Unresolved {
		warnings = append(warnings, Warning{
			Code:   WarnUnresolvedReference,
			Detail: fmt.Sprintf("no definition for reference label %q", label),
		})
	}

	doc := &Document{
		ID:          ID{Date: src.Date, Slug: src.Slug},
		SourcePath:  src.Path,
		Meta:        meta,
		Title:       effectiveTitle(meta, src.Slug),
		Tags:        meta.Strings(metaTags),
		RawBody:     body,
		Body:        extraction.RestoreSpans(resolved.Body),
		Codes:       extraction,
		Definitions: resolved.Definitions,
	}

	doc.Permalink, err = b.permalinks.Build(doc.ID)
	if err != nil {
		return nil, nil, err
	}

	layout, layoutWarnings, err := b.effectiveLayout(meta, doc.ID)
	if err != nil {
		return nil, nil, err
	}
	doc.Layout = layout
	warnings = append(warnings, layoutWarnings...)

	doc.Excerpt = b.effectiveExcerpt(meta, doc.Body)

	return doc, warnings, nil
}

// effectiveLayout applies the declared layout, falling back to the
// registry's site-wide default. Missing or unknown layouts are fatal only in
// strict mode with no default to fall back on.
func (b *Builder) effectiveLayout(meta frontmatter.Metadata, id ID) (string, []Warning, error) {
	declared := strings.TrimSpace(meta.String(metaLayout))

	fallback := ""
	if b.layouts != nil {
		fallback = b.layouts.Default()
	}

	if declared == "" {
		if fallback != "" {
			return fallback, nil, nil
		}
		if b.strict {
			return "", nil, fmt.Errorf("%w: document %s declares no layout and no default exists", layouts.ErrUnknownLayout, id)
		}
		return "", []Warning{{
			Code:   WarnMissingLayout,
			Detail: fmt.Sprintf("document %s declares no layout", id),
		}}, nil
	}

	if b.layouts != nil {
		if _, ok := b.layouts.Resolve(declared); !ok {
			if b.strict && fallback == "" {
				return "", nil, fmt.Errorf("%w: %q declared by %s", layouts.ErrUnknownLayout, declared, id)
			}
			warning := Warning{
				Code:   WarnMissingLayout,
				Detail: fmt.Sprintf("layout %q declared by %s is not registered", declared, id),
			}
			if fallback != "" {
				return fallback, []Warning{warning}, nil
			}
			return "", []Warning{warning}, nil
		}
	}

	return declared, nil, nil
}

// effectiveExcerpt prefers the metadata excerpt, then the body up to the
// explicit cut marker, then the first prose segment.
func (b *Builder) effectiveExcerpt(meta frontmatter.Metadata, body string) string {
	if excerpt := strings.TrimSpace(meta.String(metaExcerpt)); excerpt != "" {
		return excerpt
	}

	if idx := strings.Index(body, b.excerptMarker); idx >= 0 {
		return strings.TrimSpace(body[:idx])
	}

	for _, segment := range strings.Split(body, "\n\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" || isCodePlaceholder(segment) {
			continue
		}
		return segment
	}
	return ""
}

// effectiveTitle falls back to the slug with separators replaced by spaces
// and each word capitalized.
func effectiveTitle(meta frontmatter.Metadata, slug string) string {
	if title := strings.TrimSpace(meta.String(metaTitle)); title != "" {
		return title
	}

	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.Und, cases.NoLower).String(words)
}

func isCodePlaceholder(segment string) bool {
	return strings.HasPrefix(segment, "@@press-code-") && strings.HasSuffix(segment, "@@")
}
