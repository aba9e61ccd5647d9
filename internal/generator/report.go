package generator

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-press/internal/codeblock"
	"github.com/goliatone/go-press/internal/frontmatter"
	"github.com/goliatone/go-press/internal/layouts"
	"github.com/goliatone/go-press/internal/reference"
	"github.com/goliatone/go-press/internal/scanner"
)

// Text codes attached to per-document build failures. Fatal codes exclude
// the document from the build; the batch always continues.
const (
	CodeInvalidFilename     = "INVALID_FILENAME"
	CodeDuplicateSlug       = "DUPLICATE_SLUG"
	CodeMalformedFrontMater = "MALFORMED_FRONT_MATTER"
	CodeUnbalancedCodeFence = "UNBALANCED_CODE_FENCE"
	CodeAmbiguousReference  = "AMBIGUOUS_REFERENCE"
	CodeMissingLayout       = "MISSING_LAYOUT"
	CodeDocumentFailed      = "DOCUMENT_BUILD_FAILED"
)

// Diagnostic records one fatal per-document failure in the build report.
type Diagnostic struct {
	Path string
	Code string
	Err  error
}

// WarningRecord attaches a soft finding to the document that produced it.
type WarningRecord struct {
	Path   string
	Code   string
	Detail string
}

// classify maps pipeline sentinel errors to report text codes.
func classify(err error) string {
	switch {
	case errors.Is(err, scanner.ErrInvalidFilename):
		return CodeInvalidFilename
	case errors.Is(err, scanner.ErrDuplicateSlug):
		return CodeDuplicateSlug
	case errors.Is(err, frontmatter.ErrMalformedFrontMatter):
		return CodeMalformedFrontMater
	case errors.Is(err, codeblock.ErrUnbalancedCodeFence):
		return CodeUnbalancedCodeFence
	case errors.Is(err, reference.ErrAmbiguousReference):
		return CodeAmbiguousReference
	case errors.Is(err, layouts.ErrUnknownLayout):
		return CodeMissingLayout
	default:
		return CodeDocumentFailed
	}
}

// wrapDocumentError decorates a per-document failure with its category and
// text code so hosts can route failures without string matching.
func wrapDocumentError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "document build failed").
		WithTextCode(classify(err))
}

// newDiagnostic builds the report entry for a failed document.
func newDiagnostic(path string, err error) Diagnostic {
	return Diagnostic{
		Path: path,
		Code: classify(err),
		Err:  wrapDocumentError(err),
	}
}
