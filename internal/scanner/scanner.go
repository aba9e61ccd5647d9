package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
)

var (
	// ErrInvalidFilename indicates a post filename does not follow the
	// YYYY-MM-DD-slug.ext convention. These are never skipped silently
	// because the filename is the sole source of document identity.
	ErrInvalidFilename = errors.New("scanner: filename does not match date-slug convention")
	// ErrDuplicateSlug indicates two files resolved to the same (date, slug) pair.
	ErrDuplicateSlug = errors.New("scanner: duplicate date and slug")
)

// filenamePattern captures date, slug, and extension from post filenames.
var filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.([^.]+)$`)

// Source describes a candidate post file annotated with its parsed identity.
type Source struct {
	// Path is slash-separated and relative to the scan root.
	Path string
	Date time.Time
	Slug string
	Ext  string
}

// ID renders the canonical date-slug identity used across the build.
func (s Source) ID() string {
	return s.Date.Format("2006-01-02") + "-" + s.Slug
}

// Failure records a file that could not be admitted into the build.
type Failure struct {
	Path string
	Err  error
}

// Result carries admitted sources alongside per-file failures. A non-empty
// failure list never aborts the scan; callers decide how strict to be.
type Result struct {
	Sources  []Source
	Failures []Failure
}

// Config controls how post files are discovered within a base directory.
type Config struct {
	// BasePath is the root directory where post documents live.
	BasePath string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Scanner enumerates post files beneath a root directory. The filesystem is
// the only state it holds, so rescanning is always safe.
type Scanner struct {
	fs        fs.FS
	basePath  string
	recursive bool
}

// New constructs a Scanner over the provided filesystem.
func New(filesystem fs.FS, cfg Config) *Scanner {
	return &Scanner{
		fs:        filesystem,
		basePath:  cfg.BasePath,
		recursive: cfg.Recursive,
	}
}

// ParseFilename extracts the (date, slug, ext) triple from a post filename.
// The date must be a real calendar date and the slug must satisfy the
// default slug rules.
func ParseFilename(name string) (time.Time, string, string, error) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return time.Time{}, "", "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	date, err := time.Parse("2006-01-02", match[1])
	if err != nil {
		return time.Time{}, "", "", fmt.Errorf("%w: %q: %v", ErrInvalidFilename, name, err)
	}

	if !slug.IsValid(match[2]) {
		return time.Time{}, "", "", fmt.Errorf("%w: %q: slug %q contains invalid characters", ErrInvalidFilename, name, match[2])
	}

	return date, match[2], match[3], nil
}

// Scan walks the post directory and returns every admitted source plus the
// per-file failures encountered. Sources come back ordered by path so
// repeated scans over unchanged input are deterministic.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	result := &Result{}
	seen := map[string]string{}

	err := s.Each(ctx, func(src Source, ferr error) error {
		if ferr != nil {
			result.Failures = append(result.Failures, Failure{Path: src.Path, Err: ferr})
			return nil
		}
		if prior, ok := seen[src.ID()]; ok {
			result.Failures = append(result.Failures, Failure{
				Path: src.Path,
				Err:  fmt.Errorf("%w: %s collides with %s", ErrDuplicateSlug, src.Path, prior),
			})
			return nil
		}
		seen[src.ID()] = src.Path
		result.Sources = append(result.Sources, src)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Sources, func(i, j int) bool {
		return result.Sources[i].Path < result.Sources[j].Path
	})
	return result, nil
}

// Each streams candidate files to fn as they are discovered. fn receives
// either an admitted source or the parse failure for that path; returning a
// non-nil error stops the walk.
func (s *Scanner) Each(ctx context.Context, fn func(Source, error) error) error {
	root := s.root()

	return fs.WalkDir(s.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := path.Base(p)
		if d.IsDir() {
			if p != root && (!s.recursive || isHidden(name)) {
				return fs.SkipDir
			}
			return nil
		}

		if isHidden(name) {
			return nil
		}

		rel := strings.TrimPrefix(p, root+"/")
		date, slugPart, ext, perr := ParseFilename(name)
		if perr != nil {
			return fn(Source{Path: rel}, perr)
		}
		return fn(Source{Path: rel, Date: date, Slug: slugPart, Ext: ext}, nil)
	})
}

// ReadFile loads a source's raw content relative to the scan root.
func (s *Scanner) ReadFile(src Source) ([]byte, error) {
	p := src.Path
	if root := s.root(); root != "." {
		p = path.Join(root, p)
	}
	data, err := fs.ReadFile(s.fs, p)
	if err != nil {
		return nil, fmt.Errorf("scanner: read %s: %w", src.Path, err)
	}
	return data, nil
}

func (s *Scanner) root() string {
	root := path.Clean(strings.TrimSpace(s.basePath))
	if root == "" || root == "/" {
		return "."
	}
	return strings.TrimPrefix(root, "./")
}

// Hidden and underscore-prefixed entries carry editor state or drafts and
// never participate in document identity.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
