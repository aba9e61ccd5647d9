package site

import (
	"sort"

	"github.com/goliatone/go-press/internal/document"
)

// Index is the derived, read-only view over a completed set of documents:
// one chronological ordering plus a tag grouping. It is rebuilt fully on
// every run and passed explicitly to consumers; it is never a mutable
// global.
type Index struct {
	chronological []*document.Document
	tags          map[string][]*document.Document
	positions     map[string]int
}

// Build constructs the index from the full, closed set of built documents.
// It must not run until every per-document worker has completed.
func Build(docs []*document.Document) *Index {
	ordered := append([]*document.Document(nil), docs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID.Before(ordered[j].ID)
	})

	index := &Index{
		chronological: ordered,
		tags:          map[string][]*document.Document{},
		positions:     make(map[string]int, len(ordered)),
	}

	for position, doc := range ordered {
		index.positions[doc.ID.String()] = position
		for _, tag := range doc.Tags {
			index.tags[tag] = append(index.tags[tag], doc)
		}
	}

	return index
}

// Chronological returns every document ordered by date descending, ties
// broken by slug ascending.
func (i *Index) Chronological() []*document.Document {
	return append([]*document.Document(nil), i.chronological...)
}

// Len reports the number of indexed documents.
func (i *Index) Len() int {
	return len(i.chronological)
}

// ByTag returns the documents declaring the tag, in chronological order.
func (i *Index) ByTag(tag string) []*document.Document {
	return append([]*document.Document(nil), i.tags[tag]...)
}

// TagNames lists every declared tag in lexical order.
func (i *Index) TagNames() []string {
	names := make([]string, 0, len(i.tags))
	for name := range i.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Previous returns the document preceding id in the chronological index,
// i.e. the next newer one, or nil at the head.
func (i *Index) Previous(id document.ID) *document.Document {
	position, ok := i.positions[id.String()]
	if !ok || position == 0 {
		return nil
	}
	return i.chronological[position-1]
}

// Next returns the document following id in the chronological index, i.e.
// the next older one, or nil at the tail.
func (i *Index) Next(id document.ID) *document.Document {
	position, ok := i.positions[id.String()]
	if !ok || position+1 >= len(i.chronological) {
		return nil
	}
	return i.chronological[position+1]
}
