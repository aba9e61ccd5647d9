package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrAmbiguousReference indicates two definitions for the same label within
// one document. Silently picking one would make output depend on parse
// order, so this is fatal.
var ErrAmbiguousReference = errors.New("reference: ambiguous definition")

// Definition binds a label to a target URL and optional title. Labels match
// case-insensitively after Unicode normalization.
type Definition struct {
	Label  string
	Target string
	Title  string
}

// Result is the body with reference usages rewritten to inline links, plus
// the definitions collected and any usages left unresolved.
type Result struct {
	Body        string
	Definitions []Definition
	// Unresolved lists labels whose usage had no definition. These are
	// soft findings: the bracket text stays literal in the body, since
	// technical prose often contains brackets that are not links.
	Unresolved []string
}

var (
	// definitionLine matches `[label]: target "optional title"` on a line
	// of its own, up to three leading spaces.
	definitionLine = regexp.MustCompile(`^ {0,3}\[([^\]]+)\]:\s*(\S+)(?:\s+"([^"]*)")?\s*$`)
	// usageSite matches `[text][label]`; an empty label means the text is
	// the label.
	usageSite = regexp.MustCompile(`\[([^\]]+)\]\[([^\]]*)\]`)
)

// NormalizeLabel folds a label for matching: NFC normalization, case
// folding, and collapsed internal whitespace.
func NormalizeLabel(label string) string {
	folded := strings.ToLower(norm.NFC.String(label))
	return strings.Join(strings.Fields(folded), " ")
}

// Resolve rewrites reference-style link usages against their definitions.
// Definitions may appear anywhere in the document, including after their
// first use, so collection is a separate pass from substitution.
func Resolve(body string) (*Result, error) {
	result := &Result{}

	stripped, definitions, err := collect(body)
	if err != nil {
		return nil, err
	}
	for _, def := range definitions {
		result.Definitions = append(result.Definitions, def)
	}

	result.Body = usageSite.ReplaceAllStringFunc(stripped, func(usage string) string {
		match := usageSite.FindStringSubmatch(usage)
		text, label := match[1], match[2]
		if label == "" {
			label = text
		}

		def, ok := lookup(definitions, label)
		if !ok {
			result.Unresolved = append(result.Unresolved, label)
			return usage
		}
		if def.Title != "" {
			return fmt.Sprintf("[%s](%s %q)", text, def.Target, def.Title)
		}
		return fmt.Sprintf("[%s](%s)", text, def.Target)
	})

	return result, nil
}

// collect gathers every definition line and removes it from the body.
func collect(body string) (string, []Definition, error) {
	seen := map[string]Definition{}
	var ordered []Definition

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		match := definitionLine.FindStringSubmatch(line)
		if match == nil {
			kept = append(kept, line)
			continue
		}

		def := Definition{Label: match[1], Target: match[2], Title: match[3]}
		key := NormalizeLabel(def.Label)
		if _, dup := seen[key]; dup {
			return "", nil, fmt.Errorf("%w: label %q defined more than once", ErrAmbiguousReference, def.Label)
		}
		seen[key] = def
		ordered = append(ordered, def)
	}

	return strings.Join(kept, "\n"), ordered, nil
}

func lookup(definitions []Definition, label string) (Definition, bool) {
	key := NormalizeLabel(label)
	for _, def := range definitions {
		if NormalizeLabel(def.Label) == key {
			return def, true
		}
	}
	return Definition{}, false
}
