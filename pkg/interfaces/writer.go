package interfaces

import (
	"context"
	"io"
)

// ArtifactWriter abstracts where rendered build outputs land. The default
// implementation writes beneath an output directory on the local filesystem;
// hosts can substitute cloud or in-memory sinks for testing.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, content io.Reader) error
}
