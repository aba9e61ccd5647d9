package press

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/layouts"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Re-exported contracts so hosts only import the root package.
type (
	// BuildOptions narrows the scope of a single run.
	BuildOptions = generator.BuildOptions
	// BuildResult is the full report of one run.
	BuildResult = generator.BuildResult
	// WatchOptions tunes the rebuild-on-change loop.
	WatchOptions = generator.WatchOptions
	// Diagnostic records one fatal per-document failure.
	Diagnostic = generator.Diagnostic
	// WarningRecord records one soft finding.
	WarningRecord = generator.WarningRecord
	// RenderedPage is one output unit.
	RenderedPage = generator.RenderedPage
	// TemplateContext is the shape handed to template renderers.
	TemplateContext = generator.TemplateContext
)

// ErrStrictBuild is returned by Build when strict mode turns report
// findings into a build-breaking result.
var ErrStrictBuild = generator.ErrStrictBuild

// Press is the top level pipeline facade.
type Press struct {
	cfg       Config
	service   generator.Service
	layouts   *layouts.Registry
	providers interfaces.LoggerProvider
}

// Option overrides a collaborator wired by New.
type Option func(*generator.Dependencies)

// WithRenderer supplies the layout/templating collaborator.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(deps *generator.Dependencies) { deps.Renderer = renderer }
}

// WithConverter replaces the default goldmark markup converter.
func WithConverter(converter interfaces.MarkdownConverter) Option {
	return func(deps *generator.Dependencies) { deps.Converter = converter }
}

// WithHighlighter replaces the pass-through syntax highlighter.
func WithHighlighter(highlighter interfaces.SyntaxHighlighter) Option {
	return func(deps *generator.Dependencies) { deps.Highlighter = highlighter }
}

// WithWriter replaces the filesystem artifact writer.
func WithWriter(writer interfaces.ArtifactWriter) Option {
	return func(deps *generator.Dependencies) { deps.Writer = writer }
}

// WithFS scans the provided filesystem instead of SourceDir on disk.
func WithFS(filesystem fs.FS) Option {
	return func(deps *generator.Dependencies) { deps.FS = filesystem }
}

// WithLoggerProvider replaces the go-logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(deps *generator.Dependencies) { deps.Loggers = provider }
}

// New validates the configuration and wires the pipeline.
func New(cfg Config, opts ...Option) (*Press, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := layouts.New(layouts.Config{
		Dir:       cfg.Layouts.Dir,
		Variant:   cfg.Layouts.Variant,
		Templates: cfg.Layouts.Templates,
		Default:   cfg.Layouts.Default,
	})
	if err != nil {
		return nil, err
	}

	deps := generator.Dependencies{
		Layouts: registry,
	}

	if cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		deps.Loggers = provider
	}

	for _, opt := range opts {
		opt(&deps)
	}

	service, err := generator.NewService(generator.Config{
		SourceDir:        cfg.SourceDir,
		OutputDir:        cfg.OutputDir,
		BaseURL:          cfg.BaseURL,
		PermalinkPattern: cfg.PermalinkPattern,
		ExcerptMarker:    cfg.ExcerptMarker,
		Recursive:        cfg.Recursive,
		Strict:           cfg.Strict,
		Workers:          cfg.Workers,
		Convert: interfaces.ConvertOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, deps)
	if err != nil {
		return nil, err
	}

	return &Press{
		cfg:       cfg,
		service:   service,
		layouts:   registry,
		providers: deps.Loggers,
	}, nil
}

// Build runs the batch pipeline once.
func (p *Press) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return p.service.Build(ctx, opts)
}

// Watch rebuilds on source changes until the context is cancelled.
func (p *Press) Watch(ctx context.Context, opts WatchOptions) error {
	return p.service.Watch(ctx, opts)
}

// Clean removes previously generated artifacts.
func (p *Press) Clean(ctx context.Context) error {
	return p.service.Clean(ctx)
}

// Layouts exposes the closed layout registry assembled from config.
func (p *Press) Layouts() *layouts.Registry {
	return p.layouts
}

// Logger returns a named logger from the configured provider.
func (p *Press) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(p.providers, name)
}
