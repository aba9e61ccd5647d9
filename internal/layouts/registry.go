package layouts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// ErrUnknownLayout indicates a document declared a layout name that is not
// part of the registry.
var ErrUnknownLayout = errors.New("layouts: unknown layout")

// Config assembles the closed layout mapping at build-configuration time.
// Layout selection is a lookup into this mapping, never open-ended dispatch.
type Config struct {
	// Dir optionally points at a go-theme directory whose manifest
	// declares the layout templates.
	Dir string
	// Variant selects a manifest variant when the theme declares several.
	Variant string
	// Templates maps layout names to template identifiers directly,
	// merged over anything the manifest provides.
	Templates map[string]string
	// Default names the site-wide fallback layout for documents that do
	// not declare one. Empty means there is no fallback.
	Default string
}

// Registry is the closed set of layouts a build can render with.
type Registry struct {
	templates map[string]string
	selection *gotheme.Selection
	fallback  string
}

// New builds a Registry from the supplied configuration. When Dir is set the
// theme manifest is loaded through go-theme and its templates seed the
// mapping; explicit Templates entries win on collision.
func New(cfg Config) (*Registry, error) {
	registry := &Registry{
		templates: map[string]string{},
		fallback:  strings.TrimSpace(cfg.Default),
	}

	if dir := strings.TrimSpace(cfg.Dir); dir != "" {
		selection, err := loadSelection(dir, cfg.Variant)
		if err != nil {
			return nil, err
		}
		registry.selection = selection
	}

	for name, template := range cfg.Templates {
		name = strings.TrimSpace(name)
		template = strings.TrimSpace(template)
		if name == "" || template == "" {
			continue
		}
		registry.templates[name] = template
	}

	if registry.fallback != "" {
		if _, ok := registry.Resolve(registry.fallback); !ok {
			return nil, fmt.Errorf("%w: default layout %q", ErrUnknownLayout, registry.fallback)
		}
	}

	return registry, nil
}

// Resolve returns the template identifier registered for the layout name.
func (r *Registry) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	if template, ok := r.templates[name]; ok {
		return template, true
	}
	if r.selection != nil {
		if template := r.selection.Template(name, ""); strings.TrimSpace(template) != "" {
			return template, true
		}
	}
	return "", false
}

// Default returns the site-wide fallback layout name, empty when unset.
func (r *Registry) Default() string {
	return r.fallback
}

// Names lists the registered layout names in lexical order. Manifest-backed
// templates are only reachable through Resolve, so Names covers the explicit
// mapping used for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadSelection(dir, variant string) (*gotheme.Selection, error) {
	cleaned := filepath.Clean(dir)
	manifest, err := gotheme.LoadDir(os.DirFS(cleaned), ".")
	if err != nil {
		return nil, fmt.Errorf("layouts: load theme manifest from %s: %w", cleaned, err)
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("layouts: register theme manifest: %w", err)
	}

	selector := gotheme.Selector{
		Registry:     registry,
		DefaultTheme: manifest.Name,
	}
	selection, err := selector.Select(manifest.Name, strings.TrimSpace(variant))
	if err != nil {
		return nil, fmt.Errorf("layouts: select theme %s: %w", manifest.Name, err)
	}
	return selection, nil
}
