// Package history models recorded search invocations.
package history

import (
	"time"

	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

// DefaultMaxSize caps the retained history length.
const DefaultMaxSize = 50

// Entry is one recorded search, newest-first in storage.
type Entry struct {
	Query     string                      `json:"query"`
	Filters   map[string]filter.Condition `json:"filters,omitempty"`
	Facets    map[string][]string         `json:"facets,omitempty"`
	Timestamp time.Time                   `json:"timestamp"`
}

// PopularQuery is one aggregated history query with its occurrence count.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}
