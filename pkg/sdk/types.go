package sdk

import "time"

// SearchRequest mirrors the POST /api/v1/search body. Filter values may
// be a scalar (equality), a list (membership), or an object with an
// "operator" key.
type SearchRequest struct {
	Query           string              `json:"query"`
	Filters         map[string]any      `json:"filters,omitempty"`
	Facets          map[string][]string `json:"facets,omitempty"`
	SortBy          string              `json:"sortBy,omitempty"`
	SortOrder       string              `json:"sortOrder,omitempty"`
	Limit           int                 `json:"limit,omitempty"`
	Offset          int                 `json:"offset,omitempty"`
	FuzzyThreshold  float64             `json:"fuzzyThreshold,omitempty"`
	IncludeSnippets *bool               `json:"includeSnippets,omitempty"`
}

// Match is one scoring event on a returned document.
type Match struct {
	Type  string  `json:"type"`
	Field string  `json:"field,omitempty"`
	Text  string  `json:"text"`
	Score float64 `json:"score,omitempty"`
}

// Snippet is a highlighted excerpt from one matched field.
type Snippet struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Term  string `json:"term"`
}

// SearchResult is one scored document.
type SearchResult struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	Score     float64        `json:"score"`
	Relevance float64        `json:"relevance"`
	Document  map[string]any `json:"document"`
	Matches   []Match        `json:"matches,omitempty"`
	Snippets  []Snippet      `json:"snippets,omitempty"`
}

// FacetValueCount is one value of a facet summary.
type FacetValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetSummary describes a facet's value distribution over a result set.
type FacetSummary struct {
	Type   string            `json:"type"`
	Values []FacetValueCount `json:"values"`
	Min    float64           `json:"min,omitempty"`
	Max    float64           `json:"max,omitempty"`
	Step   float64           `json:"step,omitempty"`
}

// SearchResponse is the full outcome of one search call.
type SearchResponse struct {
	Results         []SearchResult          `json:"results"`
	TotalCount      int                     `json:"totalCount"`
	SearchTimeMs    float64                 `json:"searchTime"`
	Query           string                  `json:"query"`
	Filters         map[string]any          `json:"filters,omitempty"`
	Facets          map[string][]string     `json:"facets,omitempty"`
	AvailableFacets map[string]FacetSummary `json:"availableFacets"`
}

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	Query     string              `json:"query"`
	Filters   map[string]any      `json:"filters,omitempty"`
	Facets    map[string][]string `json:"facets,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// PopularQuery is one aggregated history query with its occurrence count.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// ExportReport is the diagnostic dump returned by GET /api/v1/export.
type ExportReport struct {
	ExportedAt  time.Time      `json:"exportedAt"`
	History     []HistoryEntry `json:"history"`
	IndexSize   int            `json:"indexSize"`
	FacetCounts map[string]int `json:"facetCounts"`
}

// HealthReport is the service health summary.
type HealthReport struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	IndexSize int               `json:"indexSize"`
}
