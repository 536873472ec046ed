package search

import (
	"sort"
	"strconv"

	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/search/result"
)

// availableFacets summarizes the facet value distribution of a result
// set, so a UI can render filter widgets reflecting what is actually
// there. Categorical and ordinal facets count values (descending, then
// value for determinism); range facets report observed min/max with the
// configured step.
func (e *Engine) availableFacets(docs []*document.Document) map[string]result.FacetSummary {
	out := make(map[string]result.FacetSummary, len(e.facetDefs.Names()))

	for _, name := range e.facetDefs.Names() {
		def, _ := e.facetDefs.Get(name)
		summary := result.FacetSummary{Type: def.FacetType(), Values: []result.FacetValueCount{}}

		switch def.FacetType() {
		case facet.Categorical, facet.Ordinal:
			counts := make(map[string]int)
			for _, doc := range docs {
				if v, ok := doc.FacetValue(name); ok {
					counts[v]++
				}
			}
			for v, c := range counts {
				summary.Values = append(summary.Values, result.FacetValueCount{Value: v, Count: c})
			}
			sort.Slice(summary.Values, func(i, j int) bool {
				if summary.Values[i].Count != summary.Values[j].Count {
					return summary.Values[i].Count > summary.Values[j].Count
				}
				return summary.Values[i].Value < summary.Values[j].Value
			})

		case facet.Range:
			seen := false
			var min, max float64
			for _, doc := range docs {
				v, ok := doc.FacetValue(name)
				if !ok {
					continue
				}
				n, err := strconv.ParseFloat(v, 64)
				if err != nil {
					continue
				}
				if !seen || n < min {
					min = n
				}
				if !seen || n > max {
					max = n
				}
				seen = true
			}
			if seen {
				summary.Min = min
				summary.Max = max
				summary.Step = def.Step()
				summary.HasBounds = true
			}
		}

		out[name] = summary
	}

	return out
}
