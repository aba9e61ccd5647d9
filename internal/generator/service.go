package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-press/internal/document"
	"github.com/goliatone/go-press/internal/layouts"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/scanner"
	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	errSourceDirRequired = errors.New("generator: source directory is required")
	// ErrStrictBuild is returned when strict mode turns report findings
	// into a build-breaking result.
	ErrStrictBuild = errors.New("generator: build failed in strict mode")
)

// Service runs the batch pipeline end to end.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Watch(ctx context.Context, opts WatchOptions) error
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	SourceDir        string
	OutputDir        string
	BaseURL          string
	PermalinkPattern string
	ExcerptMarker    string
	Recursive        bool
	Strict           bool
	Workers          int
	Convert          interfaces.ConvertOptions
}

// BuildOptions narrows the scope of a single run.
type BuildOptions struct {
	// DryRun renders every page without writing artifacts.
	DryRun bool
}

// BuildResult is the full report of one run: built documents, the derived
// index, rendered pages, and every finding. A partial result with a
// non-empty diagnostic list is a valid, inspectable outcome.
type BuildResult struct {
	BuildID     uuid.UUID
	Documents   []*document.Document
	Index       *site.Index
	Pages       []RenderedPage
	Diagnostics []Diagnostic
	Warnings    []WarningRecord
	Duration    time.Duration
	DryRun      bool
}

// Dependencies lists the collaborators the generator drives. Nil entries
// fall back to defaults: goldmark conversion, pass-through highlighting,
// filesystem artifact writes, and no layout templating.
type Dependencies struct {
	FS          fs.FS
	Converter   interfaces.MarkdownConverter
	Highlighter interfaces.SyntaxHighlighter
	Renderer    interfaces.TemplateRenderer
	Writer      interfaces.ArtifactWriter
	Layouts     *layouts.Registry
	Loggers     interfaces.LoggerProvider
}

// NewService wires a generator with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.FS == nil {
		if strings.TrimSpace(cfg.SourceDir) == "" {
			return nil, errSourceDirRequired
		}
		deps.FS = os.DirFS(cfg.SourceDir)
	}
	if deps.Converter == nil {
		deps.Converter = markdown.NewGoldmarkConverter(cfg.Convert)
	}
	if deps.Highlighter == nil {
		deps.Highlighter = markdown.NewPassthroughHighlighter()
	}
	if deps.Writer == nil {
		if strings.TrimSpace(cfg.OutputDir) == "" {
			deps.Writer = NewNoopWriter()
		} else {
			writer, err := NewFSWriter(cfg.OutputDir)
			if err != nil {
				return nil, err
			}
			deps.Writer = writer
		}
	}

	permalinks, err := document.NewPermalinks(cfg.PermalinkPattern)
	if err != nil {
		return nil, err
	}

	builder, err := document.NewBuilder(document.BuilderConfig{
		Permalinks:    permalinks,
		Layouts:       deps.Layouts,
		ExcerptMarker: cfg.ExcerptMarker,
		Strict:        cfg.Strict,
	})
	if err != nil {
		return nil, err
	}

	return &service{
		cfg:     cfg,
		deps:    deps,
		builder: builder,
		scanner: scanner.New(deps.FS, scanner.Config{BasePath: ".", Recursive: cfg.Recursive}),
		logger:  logging.GeneratorLogger(deps.Loggers),
		now:     time.Now,
	}, nil
}

type service struct {
	cfg     Config
	deps    Dependencies
	builder *document.Builder
	scanner *scanner.Scanner
	logger  interfaces.Logger
	now     func() time.Time
}

// Build runs scan, parallel per-document construction, the index barrier,
// and rendering. Per-document fatal errors never abort the batch; they are
// collected into the report alongside every successfully built document.
func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	result := &BuildResult{
		BuildID: uuid.New(),
		DryRun:  opts.DryRun,
	}

	scanned, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: scan: %w", err)
	}
	for _, failure := range scanned.Failures {
		result.Diagnostics = append(result.Diagnostics, newDiagnostic(failure.Path, failure.Err))
	}

	s.logger.Info("build started",
		"build_id", result.BuildID.String(),
		"sources", len(scanned.Sources),
		"rejected", len(scanned.Failures),
	)

	docs, diagnostics, warnings := s.buildDocuments(ctx, scanned.Sources)
	result.Documents = docs
	result.Diagnostics = append(result.Diagnostics, diagnostics...)
	result.Warnings = append(result.Warnings, warnings...)
	if err := ctx.Err(); err != nil {
		result.Duration = s.now().Sub(start)
		return result, err
	}

	// Single barrier: every worker has completed, the document set is
	// closed, and index construction runs single-threaded from here.
	result.Index = site.Build(docs)

	pages, renderDiags, err := s.renderAll(ctx, result.Index)
	result.Pages = pages
	result.Diagnostics = append(result.Diagnostics, renderDiags...)
	if err != nil {
		result.Duration = s.now().Sub(start)
		return result, err
	}

	if !opts.DryRun {
		if err := s.writePages(ctx, pages); err != nil {
			result.Duration = s.now().Sub(start)
			return result, err
		}
	}

	result.Duration = s.now().Sub(start)
	s.logger.Info("build finished",
		"build_id", result.BuildID.String(),
		"documents", len(result.Documents),
		"pages", len(result.Pages),
		"failures", len(result.Diagnostics),
		"warnings", len(result.Warnings),
		"duration", result.Duration.String(),
	)

	if s.cfg.Strict && (len(result.Diagnostics) > 0 || len(result.Warnings) > 0) {
		return result, goerrors.Wrap(ErrStrictBuild, goerrors.CategoryValidation,
			fmt.Sprintf("%d failures, %d warnings", len(result.Diagnostics), len(result.Warnings))).
			WithTextCode("STRICT_BUILD_FAILED")
	}
	return result, nil
}

// buildDocuments fans per-file work out to the pool. Each worker processes
// one file end-to-end and reports either a built document or a per-document
// failure; only context cancellation stops the group.
func (s *service) buildDocuments(ctx context.Context, sources []scanner.Source) ([]*document.Document, []Diagnostic, []WarningRecord) {
	var (
		mu          sync.Mutex
		docs        []*document.Document
		diagnostics []Diagnostic
		warnings    []WarningRecord
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.effectiveWorkers())

	for _, src := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			doc, softFindings, err := s.buildOne(src)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				diagnostics = append(diagnostics, newDiagnostic(src.Path, err))
				s.logger.Warn("document excluded", "path", src.Path, "error", err.Error())
				return nil
			}
			for _, finding := range softFindings {
				warnings = append(warnings, WarningRecord{
					Path:   src.Path,
					Code:   finding.Code,
					Detail: finding.Detail,
				})
			}
			docs = append(docs, doc)
			return nil
		})
	}

	// The group error can only be a context error; partial results stay valid.
	_ = group.Wait()

	return docs, diagnostics, warnings
}

func (s *service) buildOne(src scanner.Source) (*document.Document, []document.Warning, error) {
	raw, err := s.scanner.ReadFile(src)
	if err != nil {
		return nil, nil, err
	}
	return s.builder.Build(src, raw)
}

// renderAll produces final markup for every indexed document. Render
// failures are per-document diagnostics, not batch errors.
func (s *service) renderAll(ctx context.Context, index *site.Index) ([]RenderedPage, []Diagnostic, error) {
	siteCtx := newSiteContext(s.cfg.BaseURL, index)
	buildMeta := BuildMetadata{GeneratedAt: s.now().UTC()}

	var (
		pages       []RenderedPage
		diagnostics []Diagnostic
	)

	for _, doc := range index.Chronological() {
		if err := ctx.Err(); err != nil {
			return pages, diagnostics, err
		}

		page, err := s.renderOne(doc, index, siteCtx, buildMeta)
		if err != nil {
			diagnostics = append(diagnostics, newDiagnostic(doc.SourcePath, err))
			continue
		}
		pages = append(pages, page)
	}
	return pages, diagnostics, nil
}

func (s *service) renderOne(doc *document.Document, index *site.Index, siteCtx SiteContext, buildMeta BuildMetadata) (RenderedPage, error) {
	content, err := renderContent(doc, s.deps.Converter, s.deps.Highlighter, s.cfg.Convert)
	if err != nil {
		return RenderedPage{}, err
	}

	page := RenderedPage{
		ID:         doc.ID.String(),
		SourcePath: doc.SourcePath,
		Permalink:  doc.Permalink,
		Output:     document.OutputPath(doc.Permalink),
		Layout:     doc.Layout,
		HTML:       content,
	}

	if s.deps.Renderer == nil || doc.Layout == "" {
		return page, nil
	}

	templateName := doc.Layout
	if s.deps.Layouts != nil {
		if resolved, ok := s.deps.Layouts.Resolve(doc.Layout); ok {
			templateName = resolved
		}
	}

	html, err := s.deps.Renderer.Render(templateName, TemplateContext{
		Site:     siteCtx,
		Document: newDocumentContext(doc, index, content),
		Build:    buildMeta,
	})
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: render %s with layout %s: %w", doc.ID, doc.Layout, err)
	}
	page.HTML = html
	return page, nil
}

func (s *service) writePages(ctx context.Context, pages []RenderedPage) error {
	for _, page := range pages {
		if err := s.deps.Writer.WriteFile(ctx, page.Output, strings.NewReader(page.HTML)); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes previously generated artifacts from the output directory.
func (s *service) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := strings.TrimSpace(s.cfg.OutputDir)
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(filepath.Clean(dir)); err != nil {
		return fmt.Errorf("generator: clean %s: %w", dir, err)
	}
	return os.MkdirAll(filepath.Clean(dir), 0o755)
}

func (s *service) effectiveWorkers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return runtime.NumCPU()
}
