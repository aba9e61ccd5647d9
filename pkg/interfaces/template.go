package interfaces

import (
	"io"
)

// TemplateRenderer merges a document context with a named layout and returns
// the final page markup. The press pipeline only guarantees a stable,
// introspectable context shape; templating semantics belong to the
// implementation.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
