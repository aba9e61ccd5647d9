package scanner

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"
)

func TestParseFilename(t *testing.T) {
	date, slugPart, ext, err := ParseFilename("2012-01-28-hello-world.md")
	if err != nil {
		t.Fatalf("expected filename to parse, got %v", err)
	}
	if want := time.Date(2012, time.January, 28, 0, 0, 0, 0, time.UTC); !date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, date)
	}
	if slugPart != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", slugPart)
	}
	if ext != "md" {
		t.Fatalf("expected extension md, got %q", ext)
	}
}

func TestParseFilenameRejectsMissingDate(t *testing.T) {
	if _, _, _, err := ParseFilename("hello-world.md"); !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", err)
	}
}

func TestParseFilenameRejectsImpossibleDate(t *testing.T) {
	if _, _, _, err := ParseFilename("2012-13-40-hello.md"); !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename for month 13, got %v", err)
	}
}

func TestScanAdmitsAndOrdersSources(t *testing.T) {
	fsys := fstest.MapFS{
		"2012-01-28-first.md":  {Data: []byte("first")},
		"2011-06-02-second.md": {Data: []byte("second")},
	}

	result, err := New(fsys, Config{BasePath: "."}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("expected no failures, got %d", len(result.Failures))
	}
	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(result.Sources))
	}
	if result.Sources[0].Path != "2011-06-02-second.md" {
		t.Fatalf("expected path-ordered sources, got %q first", result.Sources[0].Path)
	}
	if got := result.Sources[1].ID(); got != "2012-01-28-first" {
		t.Fatalf("expected ID 2012-01-28-first, got %q", got)
	}
}

func TestScanReportsInvalidFilenames(t *testing.T) {
	fsys := fstest.MapFS{
		"2012-01-28-ok.md": {Data: []byte("ok")},
		"notes.md":         {Data: []byte("scratch")},
	}

	result, err := New(fsys, Config{BasePath: "."}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected 1 admitted source, got %d", len(result.Sources))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if !errors.Is(result.Failures[0].Err, ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", result.Failures[0].Err)
	}
	if result.Failures[0].Path != "notes.md" {
		t.Fatalf("expected failure path notes.md, got %q", result.Failures[0].Path)
	}
}

func TestScanRejectsDuplicateIdentity(t *testing.T) {
	fsys := fstest.MapFS{
		"a/2012-01-28-post.md": {Data: []byte("one")},
		"b/2012-01-28-post.md": {Data: []byte("two")},
	}

	result, err := New(fsys, Config{BasePath: ".", Recursive: true}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected 1 admitted source, got %d", len(result.Sources))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 duplicate failure, got %d", len(result.Failures))
	}
	if !errors.Is(result.Failures[0].Err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", result.Failures[0].Err)
	}
}

func TestScanSkipsHiddenAndDraftEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"2012-01-28-post.md":          {Data: []byte("post")},
		".2012-01-28-swap.md":         {Data: []byte("editor state")},
		"_drafts/2012-01-29-wip.md":   {Data: []byte("draft")},
		".git/2012-01-30-ignored.md":  {Data: []byte("vcs")},
		"_2012-01-31-also-ignored.md": {Data: []byte("draft file")},
	}

	result, err := New(fsys, Config{BasePath: ".", Recursive: true}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Sources) != 1 || len(result.Failures) != 0 {
		t.Fatalf("expected exactly one admitted source and no failures, got %d/%d", len(result.Sources), len(result.Failures))
	}
	if result.Sources[0].Path != "2012-01-28-post.md" {
		t.Fatalf("unexpected admitted path %q", result.Sources[0].Path)
	}
}

func TestScanNonRecursiveStaysAtRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"2012-01-28-top.md":        {Data: []byte("top")},
		"nested/2012-01-29-sub.md": {Data: []byte("sub")},
	}

	result, err := New(fsys, Config{BasePath: "."}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected only the top level source, got %d", len(result.Sources))
	}
	if result.Sources[0].Path != "2012-01-28-top.md" {
		t.Fatalf("unexpected path %q", result.Sources[0].Path)
	}
}

func TestScanHonorsBasePath(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/2012-01-28-post.md": {Data: []byte("content")},
		"2012-01-28-outside.md":    {Data: []byte("outside")},
	}

	s := New(fsys, Config{BasePath: "posts"})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected 1 source beneath posts/, got %d", len(result.Sources))
	}
	if result.Sources[0].Path != "2012-01-28-post.md" {
		t.Fatalf("expected root-relative path, got %q", result.Sources[0].Path)
	}

	raw, err := s.ReadFile(result.Sources[0])
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(raw) != "content" {
		t.Fatalf("unexpected content %q", raw)
	}
}

func TestScanStopsOnCancelledContext(t *testing.T) {
	fsys := fstest.MapFS{
		"2012-01-28-post.md": {Data: []byte("post")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(fsys, Config{BasePath: "."}).Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
