// Package index builds and serves the in-memory search index: documents
// in deterministic insertion order plus a facet inverted index.
//
// An Index is immutable once built. Rebuilds construct a fresh Index which
// the engine publishes by reference swap, so readers never observe a
// partially built structure.
package index

import (
	"fmt"
	"sort"

	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
)

// Index holds the built documents and their facet index.
type Index struct {
	docs      []*document.Document
	byID      map[string]*document.Document
	facetDocs map[string]map[string]map[string]struct{} // facet -> value -> id set
	facets    facet.Set
	schemas   schema.Set
}

// Build indexes every category in data whose value is a list of records.
// Documents get ids of the form "{category}_{i}". Categories are processed
// in sorted name order so identical inputs always yield identical indexes
// regardless of map iteration order. Missing or malformed categories are
// skipped, never an error.
func Build(data map[string][]map[string]any, schemas schema.Set, facets facet.Set) *Index {
	idx := &Index{
		byID:      make(map[string]*document.Document),
		facetDocs: make(map[string]map[string]map[string]struct{}),
		facets:    facets,
		schemas:   schemas,
	}

	categories := make([]string, 0, len(data))
	for category := range data {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		records := data[category]
		sch := schemas.For(category)
		for i, record := range records {
			if record == nil {
				continue
			}
			id := fmt.Sprintf("%s_%d", category, i)
			doc := document.Build(id, category, record, sch, facets)
			idx.insert(&doc)
		}
	}

	return idx
}

func (idx *Index) insert(doc *document.Document) {
	idx.docs = append(idx.docs, doc)
	idx.byID[doc.ID()] = doc

	for name, value := range doc.Facets() {
		values, ok := idx.facetDocs[name]
		if !ok {
			values = make(map[string]map[string]struct{})
			idx.facetDocs[name] = values
		}
		ids, ok := values[value]
		if !ok {
			ids = make(map[string]struct{})
			values[value] = ids
		}
		ids[doc.ID()] = struct{}{}
	}
}

// Size returns the number of indexed documents.
func (idx *Index) Size() int { return len(idx.docs) }

// Get returns a document by id.
func (idx *Index) Get(id string) (*document.Document, bool) {
	doc, ok := idx.byID[id]
	return doc, ok
}

// All returns every document in insertion order. Callers must not mutate
// the returned slice.
func (idx *Index) All() []*document.Document { return idx.docs }

// Facets returns the facet configuration the index was built with.
func (idx *Index) Facets() facet.Set { return idx.facets }

// Schemas returns the schema set the index was built with.
func (idx *Index) Schemas() schema.Set { return idx.schemas }

// DocumentsByFacets returns documents satisfying the given facet
// constraints: a document matches a facet when its value equals any of the
// accepted values (union within a facet), and must match every constrained
// facet (intersection across facets). Results keep insertion order. An
// unindexed facet name matches nothing.
func (idx *Index) DocumentsByFacets(constraints map[string][]string) []*document.Document {
	if len(constraints) == 0 {
		return nil
	}

	var allowed map[string]struct{}
	for name, accepted := range constraints {
		matched := make(map[string]struct{})
		if values, ok := idx.facetDocs[name]; ok {
			for _, v := range accepted {
				for id := range values[v] {
					matched[id] = struct{}{}
				}
			}
		}
		if allowed == nil {
			allowed = matched
			continue
		}
		for id := range allowed {
			if _, ok := matched[id]; !ok {
				delete(allowed, id)
			}
		}
	}

	out := make([]*document.Document, 0, len(allowed))
	for _, doc := range idx.docs {
		if _, ok := allowed[doc.ID()]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// FacetValueCounts returns the number of distinct indexed values per
// facet, for diagnostics.
func (idx *Index) FacetValueCounts() map[string]int {
	counts := make(map[string]int, len(idx.facetDocs))
	for name, values := range idx.facetDocs {
		counts[name] = len(values)
	}
	return counts
}
