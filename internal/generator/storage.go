package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// fsWriter writes build artifacts beneath a root directory on the local
// filesystem. It is the default interfaces.ArtifactWriter.
type fsWriter struct {
	root string
}

// NewFSWriter returns an artifact writer rooted at dir.
func NewFSWriter(dir string) (interfaces.ArtifactWriter, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("generator: output directory is required")
	}
	return &fsWriter{root: filepath.Clean(dir)}, nil
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir %s: %w", path, err)
	}
	return nil
}

func (w *fsWriter) WriteFile(ctx context.Context, path string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if content == nil {
		return errors.New("generator: write requires content reader")
	}

	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: ensure parent for %s: %w", path, err)
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return fmt.Errorf("generator: write %s: %w", path, err)
	}
	return nil
}

// resolve keeps artifact paths inside the output root.
func (w *fsWriter) resolve(path string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(path))
	if cleaned == "." || cleaned == "" {
		return w.root, nil
	}
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("generator: artifact path %q escapes output root", path)
	}
	return filepath.Join(w.root, cleaned), nil
}

// noopWriter drops every artifact; used for dry runs and tests.
type noopWriter struct{}

// NewNoopWriter returns a writer that discards all output.
func NewNoopWriter() interfaces.ArtifactWriter {
	return noopWriter{}
}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, string, io.Reader) error { return nil }
