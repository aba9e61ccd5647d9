package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/codeblock"
	"github.com/goliatone/go-press/internal/document"
	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// TemplateContext is the data contract handed to TemplateRenderer
// implementations. Every field is a plain value or map so any templating
// mechanism can introspect it.
type TemplateContext struct {
	Site     SiteContext
	Document DocumentContext
	Build    BuildMetadata
}

// SiteContext exposes the cross-document view to templates.
type SiteContext struct {
	BaseURL string
	Posts   []PostRef
	Tags    map[string][]PostRef
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	BuildID     uuid.UUID
	GeneratedAt time.Time
}

// DocumentContext is the single-document view: resolved content plus the
// neighbour links the chronological index assigns.
type DocumentContext struct {
	ID        string
	Date      time.Time
	Slug      string
	Title     string
	Excerpt   string
	Layout    string
	Permalink string
	Tags      []string
	Meta      map[string]any
	Content   string
	Previous  *PostRef
	Next      *PostRef
}

// PostRef is the lightweight cross-document reference used for navigation
// and index listings.
type PostRef struct {
	ID        string
	Title     string
	Permalink string
	Date      time.Time
	Tags      []string
}

// RenderedPage captures one output unit: the final markup for a document at
// its permalink path.
type RenderedPage struct {
	ID         string
	SourcePath string
	Permalink  string
	Output     string
	Layout     string
	HTML       string
}

func newPostRef(doc *document.Document) PostRef {
	return PostRef{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		Permalink: doc.Permalink,
		Date:      doc.ID.Date,
		Tags:      append([]string(nil), doc.Tags...),
	}
}

func newSiteContext(baseURL string, index *site.Index) SiteContext {
	ctx := SiteContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tags:    map[string][]PostRef{},
	}
	for _, doc := range index.Chronological() {
		ctx.Posts = append(ctx.Posts, newPostRef(doc))
	}
	for _, tag := range index.TagNames() {
		for _, doc := range index.ByTag(tag) {
			ctx.Tags[tag] = append(ctx.Tags[tag], newPostRef(doc))
		}
	}
	return ctx
}

func newDocumentContext(doc *document.Document, index *site.Index, content string) DocumentContext {
	ctx := DocumentContext{
		ID:        doc.ID.String(),
		Date:      doc.ID.Date,
		Slug:      doc.ID.Slug,
		Title:     doc.Title,
		Excerpt:   doc.Excerpt,
		Layout:    doc.Layout,
		Permalink: doc.Permalink,
		Tags:      append([]string(nil), doc.Tags...),
		Meta:      doc.Meta.Map(),
		Content:   content,
	}
	if prev := index.Previous(doc.ID); prev != nil {
		ref := newPostRef(prev)
		ctx.Previous = &ref
	}
	if next := index.Next(doc.ID); next != nil {
		ref := newPostRef(next)
		ctx.Next = &ref
	}
	return ctx
}

// renderContent produces the final body markup for a document: prose goes
// through the markup converter with code placeholders intact, then each
// placeholder is expanded through the highlighter boundary.
func renderContent(doc *document.Document, converter interfaces.MarkdownConverter, highlighter interfaces.SyntaxHighlighter, opts interfaces.ConvertOptions) (string, error) {
	html, err := converter.ConvertWithOptions([]byte(doc.Body), opts)
	if err != nil {
		return "", fmt.Errorf("generator: convert %s: %w", doc.ID, err)
	}

	expanded, err := doc.Codes.ExpandBlocks(string(html), func(block codeblock.Block) (string, error) {
		return renderBlock(block, highlighter)
	})
	if err != nil {
		return "", err
	}
	return expanded, nil
}

// renderBlock hands one fenced region to the highlighter, honouring the
// block's mode flag.
func renderBlock(block codeblock.Block, highlighter interfaces.SyntaxHighlighter) (string, error) {
	switch block.Mode {
	case codeblock.ModeRaw:
		// Content is already valid output markup.
		return block.Text, nil
	case codeblock.ModeLiteral:
		marker := block.Marker
		if marker == "" {
			marker = "```"
		}
		return highlighter.Highlight("", marker+block.Lang+"\n"+block.Text+"\n"+marker)
	default:
		return highlighter.Highlight(block.Lang, block.Text)
	}
}
