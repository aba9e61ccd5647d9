package frontmatter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseSplitsMetadataAndBody(t *testing.T) {
	source := []byte(`---
layout: post
title: Hello
tags: [go, web]
---

Body text.
`)

	meta, body, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if meta.String("layout") != "post" {
		t.Fatalf("expected layout post, got %q", meta.String("layout"))
	}
	if meta.String("title") != "Hello" {
		t.Fatalf("expected title Hello, got %q", meta.String("title"))
	}
	if got := meta.Strings("tags"); !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Fatalf("expected tags [go web], got %v", got)
	}
	if !strings.Contains(string(body), "Body text.") {
		t.Fatalf("expected body to survive the split, got %q", body)
	}
	if strings.Contains(string(body), "layout:") {
		t.Fatalf("metadata leaked into body: %q", body)
	}
}

func TestParseKeepsKeyOrder(t *testing.T) {
	source := []byte("---\nzeta: 1\nalpha: 2\nmiddle: 3\n---\nbody")

	meta, _, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := meta.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "middle"}) {
		t.Fatalf("expected source-ordered keys, got %v", got)
	}
	if meta.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", meta.Len())
	}
}

func TestParseWithoutFrontMatterReturnsBodyUntouched(t *testing.T) {
	source := []byte("Just a body.\n\nNo metadata here.")

	meta, body, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if meta.Len() != 0 {
		t.Fatalf("expected empty metadata, got %d entries", meta.Len())
	}
	if string(body) != string(source) {
		t.Fatalf("expected body unchanged, got %q", body)
	}
}

func TestParseUnclosedDelimiterFails(t *testing.T) {
	source := []byte("---\nlayout: post\n\nBody that never closes the block.")

	if _, _, err := Parse(source); !errors.Is(err, ErrMalformedFrontMatter) {
		t.Fatalf("expected ErrMalformedFrontMatter, got %v", err)
	}
}

func TestParseEmptyBlock(t *testing.T) {
	source := []byte("---\n---\nBody.")

	meta, body, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if meta.Len() != 0 {
		t.Fatalf("expected empty metadata, got %d entries", meta.Len())
	}
	if !strings.Contains(string(body), "Body.") {
		t.Fatalf("expected body after empty block, got %q", body)
	}
}

func TestStringsNormalizesScalarToList(t *testing.T) {
	source := []byte("---\ntags: solo\n---\nbody")

	meta, _, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := meta.Strings("tags"); !reflect.DeepEqual(got, []string{"solo"}) {
		t.Fatalf("expected scalar tag as single-element list, got %v", got)
	}
}

func TestMetadataAccessors(t *testing.T) {
	source := []byte("---\ncount: 3\nempty:\n---\nbody")

	meta, _, err := Parse(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !meta.Has("count") {
		t.Fatal("expected count to be present")
	}
	if meta.Has("missing") {
		t.Fatal("did not expect missing key")
	}
	if got := meta.String("count"); got != "3" {
		t.Fatalf("expected count rendered as string 3, got %q", got)
	}
	if got := meta.String("empty"); got != "" {
		t.Fatalf("expected empty value to render empty, got %q", got)
	}

	asMap := meta.Map()
	if _, ok := asMap["count"]; !ok {
		t.Fatal("expected Map to include count")
	}
	asMap["count"] = "mutated"
	if meta.String("count") == "mutated" {
		t.Fatal("Map must return a copy")
	}
}
