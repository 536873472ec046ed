// Package document models one indexed catalog record: its extracted
// searchable fields, facet values, and derived matching keys.
package document

import (
	"strconv"
	"strings"

	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
	"github.com/cigarmaestro/searchd/internal/domain/textmatch"
)

// Document is an immutable search document. All derived state (fields,
// searchable text, facets, phonetic key, trigrams) is computed once at
// build time and never mutated afterwards.
type Document struct {
	id             string
	category       string
	original       map[string]any
	fields         map[string]string
	fieldNames     []string
	searchableText string
	facets         map[string]string
	phonetic       string
	trigrams       map[string]struct{}
}

// Build extracts a Document from a raw catalog record. Fields absent from
// the record, or holding falsy values (nil, empty string, zero, false),
// are omitted rather than indexed as placeholders.
func Build(id, category string, record map[string]any, sch schema.Schema, facets facet.Set) Document {
	doc := Document{
		id:       id,
		category: category,
		original: record,
		fields:   make(map[string]string),
		facets:   make(map[string]string),
	}

	var text strings.Builder
	for _, field := range sch.Fields() {
		value, ok := extract(record, field)
		if !ok {
			continue
		}
		doc.fields[field] = value
		doc.fieldNames = append(doc.fieldNames, field)

		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(strings.ToLower(value))

		if facets.Has(field) {
			doc.facets[field] = value
		}
	}

	doc.searchableText = text.String()
	doc.phonetic = textmatch.Fingerprint(doc.searchableText)
	doc.trigrams = textmatch.Trigrams(doc.searchableText)

	return doc
}

// extract resolves a possibly dot-separated field path against a record
// and renders the value as a string. Falsy values report ok=false.
func extract(record map[string]any, field string) (string, bool) {
	var value any = record
	for _, key := range strings.Split(field, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		if value, ok = m[key]; !ok {
			return "", false
		}
	}
	return render(value)
}

func render(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case float64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		if v == 0 {
			return "", false
		}
		return strconv.Itoa(v), true
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := render(item); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

// ID returns the document id, unique within an index.
func (d *Document) ID() string { return d.id }

// Category returns the source collection name.
func (d *Document) Category() string { return d.category }

// Original returns the unmodified source record.
func (d *Document) Original() map[string]any { return d.original }

// Field returns one extracted field value.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

// FieldNames returns extracted field names in schema tier order.
func (d *Document) FieldNames() []string { return d.fieldNames }

// Fields returns the extracted field map.
func (d *Document) Fields() map[string]string { return d.fields }

// Lookup resolves a field for filtering: extracted fields first, then the
// raw record (so filters may constrain fields outside the search schema).
func (d *Document) Lookup(field string) (string, bool) {
	if v, ok := d.fields[field]; ok {
		return v, true
	}
	return extract(d.original, field)
}

// SearchableText returns the lower-cased concatenation of all field values.
func (d *Document) SearchableText() string { return d.searchableText }

// Facets returns this document's facet values.
func (d *Document) Facets() map[string]string { return d.facets }

// FacetValue returns one facet value.
func (d *Document) FacetValue(name string) (string, bool) {
	v, ok := d.facets[name]
	return v, ok
}

// Phonetic returns the sounds-like fingerprint of the searchable text.
func (d *Document) Phonetic() string { return d.phonetic }

// Trigrams returns the character shingle set of the searchable text.
func (d *Document) Trigrams() map[string]struct{} { return d.trigrams }
