// Package result holds the ephemeral output types of a search: scored
// documents, match events, snippets, and facet summaries.
package result

import (
	"time"

	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

// MatchType classifies a scoring event.
type MatchType string

// Match event types, ordered from strongest to weakest signal.
const (
	MatchExact      MatchType = "exact"
	MatchExactField MatchType = "exactField"
	MatchStartsWith MatchType = "startsWith"
	MatchContains   MatchType = "contains"
	MatchFuzzy      MatchType = "fuzzy"
	MatchPhonetic   MatchType = "phonetic"
)

// Match records one scoring event for explainability.
type Match struct {
	Type  MatchType `json:"type"`
	Field string    `json:"field,omitempty"`
	Text  string    `json:"text"`
	Score float64   `json:"score,omitempty"` // similarity for fuzzy/phonetic events
}

// Snippet is a highlighted context excerpt from one matched field. The
// matched term is wrapped in <mark> tags.
type Snippet struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Term  string `json:"term"`
}

// Result is one scored document.
type Result struct {
	Document  *document.Document `json:"-"`
	Score     float64            `json:"score"`
	Relevance float64            `json:"relevance"`
	Matches   []Match            `json:"matches"`
	Snippets  []Snippet          `json:"snippets,omitempty"`
}

// FacetValueCount is one value of a categorical or ordinal facet summary.
type FacetValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetSummary describes a facet's value distribution over a result set.
// Values is populated for categorical and ordinal facets; Min/Max/Step for
// range facets that observed at least one numeric value.
type FacetSummary struct {
	Type      facet.Type        `json:"type"`
	Values    []FacetValueCount `json:"values"`
	Min       float64           `json:"min,omitempty"`
	Max       float64           `json:"max,omitempty"`
	Step      float64           `json:"step,omitempty"`
	HasBounds bool              `json:"-"`
}

// Response is the full outcome of one search call. TotalCount is the
// pre-pagination count of scored results; AvailableFacets summarizes the
// full scored set, not just the returned page.
type Response struct {
	Results         []Result
	TotalCount      int
	SearchTime      time.Duration
	Query           string
	Filters         map[string]filter.Condition
	Facets          map[string][]string
	AvailableFacets map[string]FacetSummary
}
