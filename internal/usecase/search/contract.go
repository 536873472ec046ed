package search

import (
	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

// HistoryRecorder receives every non-browse search invocation and feeds
// query suggestions back from past searches.
type HistoryRecorder interface {
	Record(query string, filters map[string]filter.Condition, facets map[string][]string)
	QueriesContaining(needle string) []string
}
