package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrMalformedFrontMatter indicates an opening delimiter with no closing
// delimiter before end of file.
var ErrMalformedFrontMatter = errors.New("frontmatter: opening delimiter never closed")

// delimiter is the fixed marker line that opens and closes a metadata block.
const delimiter = "---"

// Metadata is an ordered mapping of front-matter keys to flat scalar values.
// Order follows the source block so emitted records stay byte-stable across
// builds.
type Metadata struct {
	keys   []string
	values map[string]any
}

// Parse splits raw file content into metadata and body. When the content
// does not open with a delimiter line the metadata is empty and the body is
// the original content untouched.
func Parse(source []byte) (Metadata, []byte, error) {
	if !opensWithDelimiter(source) {
		return Metadata{}, source, nil
	}
	if !hasClosingDelimiter(source) {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}

	var node yaml.Node
	body, err := frontmatter.Parse(bytes.NewReader(source), &node)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("frontmatter: parse: %w", err)
	}

	meta, err := metadataFromNode(&node)
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

// Get returns the value stored under key.
func (m Metadata) Get(key string) (any, bool) {
	if m.values == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// String returns the value under key rendered as a string, or empty when the
// key is absent.
func (m Metadata) String(key string) string {
	value, ok := m.Get(key)
	if !ok || value == nil {
		return ""
	}
	if s, isString := value.(string); isString {
		return s
	}
	return fmt.Sprint(value)
}

// Strings returns the value under key as a list of strings. Scalar values
// come back as a single-element list so `tags: a` and `tags: [a]` behave the
// same.
func (m Metadata) Strings(key string) []string {
	value, ok := m.Get(key)
	if !ok || value == nil {
		return nil
	}

	switch typed := value.(type) {
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		if s := strings.TrimSpace(fmt.Sprint(typed)); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the metadata keys in source order.
func (m Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len reports the number of metadata entries.
func (m Metadata) Len() int {
	return len(m.keys)
}

// Map returns a copy of the metadata as a plain map for template contexts.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.values))
	for key, value := range m.values {
		out[key] = value
	}
	return out
}

func opensWithDelimiter(source []byte) bool {
	line, _, _ := bytes.Cut(source, []byte("\n"))
	return strings.TrimRight(string(line), "\r") == delimiter
}

func hasClosingDelimiter(source []byte) bool {
	lines := strings.Split(string(source), "\n")
	for _, line := range lines[1:] {
		if strings.TrimRight(line, "\r") == delimiter {
			return true
		}
	}
	return false
}

func metadataFromNode(node *yaml.Node) (Metadata, error) {
	mapping := node
	if mapping.Kind == 0 {
		// Empty block between the delimiters.
		return Metadata{}, nil
	}
	if mapping.Kind == yaml.DocumentNode {
		if len(mapping.Content) == 0 {
			return Metadata{}, nil
		}
		mapping = mapping.Content[0]
	}
	if mapping.Kind == yaml.ScalarNode && strings.TrimSpace(mapping.Value) == "" {
		return Metadata{}, nil
	}
	if mapping.Kind != yaml.MappingNode {
		return Metadata{}, errors.New("frontmatter: metadata block is not a mapping")
	}

	meta := Metadata{values: make(map[string]any, len(mapping.Content)/2)}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return Metadata{}, fmt.Errorf("frontmatter: decode value for %q: %w", keyNode.Value, err)
		}

		if _, exists := meta.values[keyNode.Value]; !exists {
			meta.keys = append(meta.keys, keyNode.Value)
		}
		meta.values[keyNode.Value] = value
	}
	return meta, nil
}
