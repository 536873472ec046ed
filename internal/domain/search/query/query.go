// Package query holds validated, normalized search parameters.
package query

import (
	"fmt"
	"strings"

	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

// Search parameter limits and defaults.
const (
	MaxQueryLength        = 1024
	DefaultLimit          = 50
	MaxLimit              = 500
	DefaultFuzzyThreshold = 0.6
)

// Sort identifies the result ordering key.
type Sort string

// Recognized sort keys. Any other value falls back to SortScore, matching
// the permissive behavior documented for unknown keys.
const (
	SortRelevance Sort = "relevance"
	SortName      Sort = "name"
	SortWrapper   Sort = "wrapper"
	SortStrength  Sort = "strength"
	SortScore     Sort = "score"
)

// Order is the sort direction.
type Order string

const (
	// Asc sorts ascending.
	Asc Order = "asc"
	// Desc sorts descending (the default).
	Desc Order = "desc"
)

// Options carries the optional search knobs, all zero-value defaulted.
type Options struct {
	Filters         map[string]filter.Condition
	Facets          map[string][]string
	SortBy          Sort
	SortOrder       Order
	Limit           int
	Offset          int
	FuzzyThreshold  float64 // 0 means DefaultFuzzyThreshold
	ExcludeSnippets bool    // snippets are on by default
}

// Query is a validated search invocation.
type Query struct {
	text            string
	terms           []string
	filters         map[string]filter.Condition
	facets          map[string][]string
	sortBy          Sort
	sortOrder       Order
	limit           int
	offset          int
	fuzzyThreshold  float64
	includeSnippets bool
}

// New validates and normalizes search parameters.
// Defaults: sort=relevance desc, limit=50, offset=0, fuzzy threshold=0.6,
// snippets included.
func New(text string, opts Options) (Query, error) {
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortRelevance
	}

	order := opts.SortOrder
	switch order {
	case "":
		order = Desc
	case Asc, Desc:
	default:
		return Query{}, fmt.Errorf("invalid sort order: %q", order)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := opts.Offset
	if offset < 0 {
		return Query{}, fmt.Errorf("offset must not be negative")
	}

	threshold := opts.FuzzyThreshold
	if threshold == 0 {
		threshold = DefaultFuzzyThreshold
	}
	if threshold < 0 || threshold > 1 {
		return Query{}, fmt.Errorf("fuzzy threshold must be between 0 and 1")
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	var terms []string
	if normalized != "" {
		terms = strings.Fields(normalized)
	}

	return Query{
		text:            text,
		terms:           terms,
		filters:         opts.Filters,
		facets:          opts.Facets,
		sortBy:          sortBy,
		sortOrder:       order,
		limit:           limit,
		offset:          offset,
		fuzzyThreshold:  threshold,
		includeSnippets: !opts.ExcludeSnippets,
	}, nil
}

// Text returns the raw query text as given by the caller.
func (q *Query) Text() string { return q.text }

// Normalized returns the lower-cased, trimmed query text.
func (q *Query) Normalized() string { return strings.Join(q.terms, " ") }

// Terms returns the whitespace-split, lower-cased query terms.
func (q *Query) Terms() []string { return q.terms }

// HasText reports whether the query carries non-blank text.
func (q *Query) HasText() bool { return len(q.terms) > 0 }

// IsBrowse reports whether this is the unconstrained browse-all path:
// blank text and no filters or facets.
func (q *Query) IsBrowse() bool {
	return !q.HasText() && len(q.filters) == 0 && len(q.facets) == 0
}

// Filters returns the per-field constraints.
func (q *Query) Filters() map[string]filter.Condition { return q.filters }

// Facets returns the facet constraints: name to accepted values.
func (q *Query) Facets() map[string][]string { return q.facets }

// SortBy returns the sort key.
func (q *Query) SortBy() Sort { return q.sortBy }

// SortOrder returns the sort direction.
func (q *Query) SortOrder() Order { return q.sortOrder }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q *Query) Offset() int { return q.offset }

// FuzzyThreshold returns the minimum normalized similarity for a fuzzy
// match to score.
func (q *Query) FuzzyThreshold() float64 { return q.fuzzyThreshold }

// IncludeSnippets reports whether results carry highlighted snippets.
func (q *Query) IncludeSnippets() bool { return q.includeSnippets }
