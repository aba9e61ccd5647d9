package press

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-press/internal/document"
)

// Config captures every build-configuration knob of the pipeline. Values
// are fixed for the lifetime of a build; nothing here changes mid-run.
type Config struct {
	// SourceDir is the posts directory scanned for dated documents.
	SourceDir string `yaml:"source_dir"`
	// OutputDir receives one output unit per document at its permalink path.
	OutputDir string `yaml:"output_dir"`
	// BaseURL prefixes absolute links surfaced to templates.
	BaseURL string `yaml:"base_url"`
	// PermalinkPattern substitutes date components and slug into the
	// canonical URL. Defaults to /:year/:month/:day/:title/.
	PermalinkPattern string `yaml:"permalink_pattern"`
	// ExcerptMarker is the explicit cut marker recognised in bodies.
	ExcerptMarker string `yaml:"excerpt_marker"`
	// Recursive controls whether the scanner traverses sub-directories.
	Recursive bool `yaml:"recursive"`
	// Strict makes any fatal or soft finding build-breaking.
	Strict bool `yaml:"strict"`
	// Workers bounds the per-document worker pool; zero means NumCPU.
	Workers int `yaml:"workers"`

	Layouts  LayoutConfig   `yaml:"layouts"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LayoutConfig assembles the closed layout registry at configuration time.
type LayoutConfig struct {
	// Dir optionally points at a go-theme directory whose manifest
	// declares layout templates.
	Dir string `yaml:"dir"`
	// Variant selects a manifest variant.
	Variant string `yaml:"variant"`
	// Templates maps layout names to template identifiers directly.
	Templates map[string]string `yaml:"templates"`
	// Default names the site-wide fallback layout.
	Default string `yaml:"default"`
}

// MarkdownConfig tunes the default goldmark converter.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// LoggingConfig configures the go-logger provider.
type LoggingConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the baseline configuration for a conventional
// posts/ to public/ site build.
func DefaultConfig() Config {
	return Config{
		SourceDir:        "posts",
		OutputDir:        "public",
		PermalinkPattern: document.DefaultPermalinkPattern,
		ExcerptMarker:    document.DefaultExcerptMarker,
		Recursive:        true,
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
	}
}

// Validate checks the configuration before any build starts.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceDir, validation.Required, validation.By(nonBlank("press.config.source_dir_required", "source_dir is required"))),
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.PermalinkPattern, validation.By(validPermalinkPattern)),
		validation.Field(&c.Logging),
	)
}

// Validate checks logging provider options.
func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("", "trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Format, validation.In("", "json", "console", "pretty")),
	)
}

// LoadFile reads a YAML configuration file over DefaultConfig.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("press: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("press: parse config %s: %w", path, err)
	}
	return cfg, nil
}

func nonBlank(code, message string) func(any) error {
	return func(value any) error {
		if str, ok := value.(string); ok && strings.TrimSpace(str) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

func validPermalinkPattern(value any) error {
	pattern, _ := value.(string)
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	if _, err := document.NewPermalinks(pattern); err != nil {
		return validation.NewError("press.config.permalink_pattern_invalid", err.Error())
	}
	return nil
}
