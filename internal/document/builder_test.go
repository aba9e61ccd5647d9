package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/layouts"
	"github.com/goliatone/go-press/internal/scanner"
)

func testBuilder(t *testing.T, cfg BuilderConfig) *Builder {
	t.Helper()
	if cfg.Permalinks == nil {
		permalinks, err := NewPermalinks("")
		if err != nil {
			t.Fatalf("new permalinks failed: %v", err)
		}
		cfg.Permalinks = permalinks
	}
	builder, err := NewBuilder(cfg)
	if err != nil {
		t.Fatalf("new builder failed: %v", err)
	}
	return builder
}

func testSource(t *testing.T, name string) scanner.Source {
	t.Helper()
	date, slugPart, ext, err := scanner.ParseFilename(name)
	if err != nil {
		t.Fatalf("parse filename failed: %v", err)
	}
	return scanner.Source{Path: name, Date: date, Slug: slugPart, Ext: ext}
}

func testRegistry(t *testing.T, defaultName string, templates map[string]string) *layouts.Registry {
	t.Helper()
	registry, err := layouts.New(layouts.Config{Templates: templates, Default: defaultName})
	if err != nil {
		t.Fatalf("new registry failed: %v", err)
	}
	return registry
}

func TestBuildAssemblesDocument(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{
		Layouts: testRegistry(t, "", map[string]string{"post": "layouts/post.html"}),
	})
	raw := []byte(`---
layout: post
title: Hello World
tags: [intro, meta]
---

See [Example][1] and run ` + "`press build`" + `.

` + "```go\nfunc main() {}\n```" + `

[1]: http://example.com "Example"
`)

	doc, warnings, err := builder.Build(testSource(t, "2012-01-28-hello-world.md"), raw)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if doc.ID.String() != "2012-01-28-hello-world" {
		t.Fatalf("unexpected ID %q", doc.ID)
	}
	if doc.Title != "Hello World" {
		t.Fatalf("expected declared title, got %q", doc.Title)
	}
	if doc.Layout != "post" {
		t.Fatalf("expected layout post, got %q", doc.Layout)
	}
	if len(doc.Tags) != 2 || doc.Tags[0] != "intro" {
		t.Fatalf("unexpected tags %v", doc.Tags)
	}
	if doc.Permalink != "/2012/01/28/hello-world/" {
		t.Fatalf("unexpected permalink %q", doc.Permalink)
	}
	if !strings.Contains(doc.Body, `[Example](http://example.com "Example")`) {
		t.Fatalf("expected resolved reference, got %q", doc.Body)
	}
	if !strings.Contains(doc.Body, "`press build`") {
		t.Fatalf("expected inline span restored, got %q", doc.Body)
	}
	if strings.Contains(doc.Body, "func main") {
		t.Fatalf("fenced code should stay behind a placeholder, got %q", doc.Body)
	}
	if len(doc.Codes.Blocks) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(doc.Codes.Blocks))
	}
	if len(doc.Definitions) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(doc.Definitions))
	}
}

func TestBuildTitleFallsBackToSlug(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})

	doc, _, err := builder.Build(testSource(t, "2012-01-28-writing-good-posts.md"), []byte("Body."))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Title != "Writing Good Posts" {
		t.Fatalf("expected slug-derived title, got %q", doc.Title)
	}
}

func TestBuildExcerptPrecedence(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})
	src := testSource(t, "2012-01-28-post.md")

	doc, _, err := builder.Build(src, []byte("---\nexcerpt: Declared summary.\n---\nFirst paragraph.\n"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Excerpt != "Declared summary." {
		t.Fatalf("expected metadata excerpt to win, got %q", doc.Excerpt)
	}

	doc, _, err = builder.Build(src, []byte("Above the cut.\n\n<!--more-->\n\nBelow the cut.\n"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Excerpt != "Above the cut." {
		t.Fatalf("expected marker excerpt, got %q", doc.Excerpt)
	}

	doc, _, err = builder.Build(src, []byte("```go\ncode first\n```\n\nFirst prose paragraph.\n\nSecond.\n"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Excerpt != "First prose paragraph." {
		t.Fatalf("expected first prose segment, got %q", doc.Excerpt)
	}
}

func TestBuildExcerptMarkerSpansParagraphs(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})

	doc, _, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("First paragraph.\n\nSecond paragraph. <!--more-->\n\nRest.\n"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Excerpt != "First paragraph.\n\nSecond paragraph." {
		t.Fatalf("expected marker to win over the paragraph boundary, got %q", doc.Excerpt)
	}
}

func TestBuildUnresolvedReferenceIsSoft(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})

	doc, warnings, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("A [dangling][ref] usage.\n"))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnUnresolvedReference {
		t.Fatalf("expected one unresolved-reference warning, got %v", warnings)
	}
	if !strings.Contains(doc.Body, "[dangling][ref]") {
		t.Fatalf("expected literal usage preserved, got %q", doc.Body)
	}
}

func TestBuildLayoutFallsBackToDefault(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{
		Layouts: testRegistry(t, "default", map[string]string{
			"default": "layouts/default.html",
			"post":    "layouts/post.html",
		}),
	})

	doc, warnings, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("Body."))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Layout != "default" {
		t.Fatalf("expected fallback layout, got %q", doc.Layout)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestBuildUnknownLayoutWarnsAndFallsBack(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{
		Layouts: testRegistry(t, "default", map[string]string{"default": "layouts/default.html"}),
	})

	doc, warnings, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("---\nlayout: missing\n---\nBody."))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Layout != "default" {
		t.Fatalf("expected fallback layout, got %q", doc.Layout)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnMissingLayout {
		t.Fatalf("expected missing-layout warning, got %v", warnings)
	}
}

func TestBuildUnknownLayoutStrictWithoutDefaultFails(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{
		Layouts: testRegistry(t, "", map[string]string{"post": "layouts/post.html"}),
		Strict:  true,
	})

	_, _, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("---\nlayout: missing\n---\nBody."))
	if !errors.Is(err, layouts.ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestBuildMalformedFrontMatterIsFatal(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})

	_, _, err := builder.Build(testSource(t, "2012-01-28-post.md"), []byte("---\nlayout: post\nBody with no closing delimiter."))
	if err == nil {
		t.Fatal("expected malformed front matter to fail the document")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	builder := testBuilder(t, BuilderConfig{})
	src := testSource(t, "2012-01-28-post.md")
	raw := []byte("See [Example][1].\n\n`inline`\n\n[1]: http://example.com \"Example\"\n")

	first, _, err := builder.Build(src, raw)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, _, err := builder.Build(src, raw)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if first.Body != second.Body || first.Permalink != second.Permalink || first.Excerpt != second.Excerpt {
		t.Fatal("expected identical output for identical input")
	}
}
