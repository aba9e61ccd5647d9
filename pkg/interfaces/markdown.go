package interfaces

// MarkdownConverter defines how a resolved document body is converted into
// final output markup. The pipeline hands it prose with code regions already
// replaced by opaque placeholders; the converter never sees raw fence text.
type MarkdownConverter interface {
	// Convert renders the body using the converter's default settings.
	Convert(body []byte) ([]byte, error)
	// ConvertWithOptions renders the body using the supplied overrides.
	ConvertWithOptions(body []byte, opts ConvertOptions) ([]byte, error)
}

// ConvertOptions customises body conversion behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ConvertOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// SyntaxHighlighter turns a verbatim code block into highlighted markup.
// Implementations must pass content through untouched when the language tag
// is unrecognised; the pipeline relies on that to keep unknown languages
// renderable.
type SyntaxHighlighter interface {
	Highlight(lang string, code string) (string, error)
}
