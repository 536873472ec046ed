package search

import (
	"sort"
	"strings"
)

const (
	// suggestionMinLength is the minimum partial-query length before any
	// suggestions are offered.
	suggestionMinLength = 2
	// suggestionLimit caps the suggestion list.
	suggestionLimit = 10
)

// Suggestions returns autocomplete candidates for a partial query: past
// history queries and indexed field values containing it, shortest first.
// Inputs below two characters yield nothing.
func (e *Engine) Suggestions(partial string) []string {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if len(needle) < suggestionMinLength {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if e.history != nil {
		for _, q := range e.history.QueriesContaining(needle) {
			add(q)
		}
	}

	for _, doc := range e.idx.Load().All() {
		for _, field := range doc.FieldNames() {
			value, _ := doc.Field(field)
			if strings.Contains(strings.ToLower(value), needle) {
				add(value)
			}
		}
	}

	// Shorter suggestions look more specific; ties sort lexically so the
	// list is stable across calls.
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})

	if len(out) > suggestionLimit {
		out = out[:suggestionLimit]
	}
	return out
}
