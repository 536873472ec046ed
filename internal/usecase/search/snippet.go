package search

import (
	"strings"

	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/search/result"
)

// snippetContext is the number of characters kept on each side of the
// first term occurrence.
const snippetContext = 50

// snippets builds one highlighted excerpt per (field, term) occurrence.
// The excerpt keeps snippetContext characters around the first
// case-insensitive hit, ellipsis-padded at cut edges, with every hit
// inside the window wrapped in <mark> tags.
func snippets(doc *document.Document, terms []string) []result.Snippet {
	var out []result.Snippet

	for _, field := range doc.FieldNames() {
		value, _ := doc.Field(field)
		lower := strings.ToLower(value)

		for _, term := range terms {
			i := strings.Index(lower, term)
			if i < 0 {
				continue
			}

			start := i - snippetContext
			if start < 0 {
				start = 0
			}
			end := i + len(term) + snippetContext
			if end > len(value) {
				end = len(value)
			}

			text := highlight(value[start:end], term)
			if start > 0 {
				text = "..." + text
			}
			if end < len(value) {
				text += "..."
			}

			out = append(out, result.Snippet{Field: field, Text: text, Term: term})
		}
	}

	return out
}

// highlight wraps every case-insensitive occurrence of term in <mark>
// tags, preserving the original casing of the matched text.
func highlight(text, term string) string {
	lower := strings.ToLower(text)
	var sb strings.Builder

	i := 0
	for {
		j := strings.Index(lower[i:], term)
		if j < 0 {
			sb.WriteString(text[i:])
			return sb.String()
		}
		j += i
		sb.WriteString(text[i:j])
		sb.WriteString("<mark>")
		sb.WriteString(text[j : j+len(term)])
		sb.WriteString("</mark>")
		i = j + len(term)
	}
}
