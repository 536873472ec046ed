// Package search implements the query engine: candidate selection over
// the index, weighted multi-strategy scoring, sorting, pagination,
// snippet generation, and facet summaries.
package search

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cigarmaestro/searchd/internal/domain"
	"github.com/cigarmaestro/searchd/internal/domain/document"
	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
	"github.com/cigarmaestro/searchd/internal/domain/search/query"
	"github.com/cigarmaestro/searchd/internal/domain/search/result"
	"github.com/cigarmaestro/searchd/internal/domain/textmatch"
	"github.com/cigarmaestro/searchd/internal/index"
	"github.com/cigarmaestro/searchd/internal/metrics"
)

// Weights tunes the contribution of each match strategy to a document's
// raw score.
type Weights struct {
	Exact      float64
	StartsWith float64
	Contains   float64
	Fuzzy      float64
	Phonetic   float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{Exact: 100, StartsWith: 80, Contains: 60, Fuzzy: 40, Phonetic: 30}
}

const (
	// candidateFuzzyGate is the similarity a query term needs against some
	// token of the searchable text for a document to become a candidate.
	candidateFuzzyGate = 0.7
	// phoneticGate is the fingerprint similarity above which a phonetic
	// match scores. Strictly greater-than.
	phoneticGate = 0.8
)

// Engine executes searches against an atomically swappable index.
// Rebuilds construct a fresh index and publish it by pointer swap, so a
// Search racing a rebuild sees either the old or the new index, never a
// half-built one.
type Engine struct {
	schemas   schema.Set
	facetDefs facet.Set
	weights   Weights
	history   HistoryRecorder
	logger    *zap.Logger

	defaultLimit   int
	maxLimit       int
	fuzzyThreshold float64

	idx   atomic.Pointer[index.Index]
	ready atomic.Bool
}

// NewEngine creates a search engine with an empty index. history may be
// nil (searches are then not recorded and suggestions come from the index
// alone). Zero weights select DefaultWeights.
func NewEngine(
	schemas schema.Set, facetDefs facet.Set, weights Weights,
	history HistoryRecorder, logger *zap.Logger,
) *Engine {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		schemas:   schemas,
		facetDefs: facetDefs,
		weights:   weights,
		history:   history,
		logger:    logger,
	}
	e.idx.Store(index.Build(nil, schemas, facetDefs))
	return e
}

// WithLimits overrides the pagination and fuzzy-threshold defaults applied
// to queries that do not set them. Zero values keep the package defaults.
func (e *Engine) WithLimits(defaultLimit, maxLimit int, fuzzyThreshold float64) *Engine {
	e.defaultLimit = defaultLimit
	e.maxLimit = maxLimit
	e.fuzzyThreshold = fuzzyThreshold
	return e
}

// BuildIndex fully replaces the index with one built from data. The old
// index keeps serving concurrent searches until the swap.
func (e *Engine) BuildIndex(data map[string][]map[string]any) {
	idx := index.Build(data, e.schemas, e.facetDefs)
	e.idx.Store(idx)
	e.ready.Store(true)
	metrics.SetIndexedDocuments(idx.Size())
	e.logger.Info("search index built", zap.Int("documents", idx.Size()))
}

// Ready reports whether BuildIndex has run at least once.
func (e *Engine) Ready() bool { return e.ready.Load() }

// IndexSize returns the current number of indexed documents.
func (e *Engine) IndexSize() int { return e.idx.Load().Size() }

// FacetValueCounts returns distinct indexed values per facet.
func (e *Engine) FacetValueCounts() map[string]int { return e.idx.Load().FacetValueCounts() }

// Search executes one query. A blank query without filters or facets is
// the browse-all path: every document with score 1, pagination only. A
// blank query with filters or facets returns every document satisfying
// them, also at score 1, so facet navigation works without text. Every
// other invocation is recorded to history (blank queries excepted)
// whether or not it matches anything.
func (e *Engine) Search(text string, opts query.Options) (result.Response, error) {
	if !e.ready.Load() {
		return result.Response{}, domain.ErrIndexNotReady
	}

	if opts.Limit == 0 && e.defaultLimit > 0 {
		opts.Limit = e.defaultLimit
	}
	if e.maxLimit > 0 && opts.Limit > e.maxLimit {
		opts.Limit = e.maxLimit
	}
	if opts.FuzzyThreshold == 0 && e.fuzzyThreshold > 0 {
		opts.FuzzyThreshold = e.fuzzyThreshold
	}

	q, err := query.New(text, opts)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %s", domain.ErrInvalidQuery, err)
	}

	idx := e.idx.Load()
	start := time.Now()

	if q.IsBrowse() {
		return e.browse(idx, &q, start), nil
	}

	if e.history != nil {
		e.history.Record(q.Text(), q.Filters(), q.Facets())
	}

	norm := strings.ToLower(strings.TrimSpace(q.Text()))

	candidates := e.candidates(idx, &q, norm)
	candidates = e.applyFilters(candidates, q.Filters())

	var scored []result.Result
	if q.HasText() {
		scored = e.score(candidates, &q, norm)
	} else {
		// No query terms to rank by. Constrained documents all score alike.
		scored = make([]result.Result, len(candidates))
		for i, doc := range candidates {
			scored[i] = result.Result{Document: doc, Score: 1, Relevance: 1}
		}
	}
	e.sortResults(scored, &q)

	total := len(scored)
	page := paginate(scored, q.Offset(), q.Limit())
	if q.IncludeSnippets() {
		for i := range page {
			page[i].Snippets = snippets(page[i].Document, q.Terms())
		}
	}

	elapsed := time.Since(start)
	metrics.ObserveSearch(elapsed, total)

	return result.Response{
		Results:         page,
		TotalCount:      total,
		SearchTime:      elapsed,
		Query:           q.Text(),
		Filters:         q.Filters(),
		Facets:          q.Facets(),
		AvailableFacets: e.availableFacets(resultDocuments(scored)),
	}, nil
}

// browse returns the whole index unscored, honoring pagination only.
func (e *Engine) browse(idx *index.Index, q *query.Query, start time.Time) result.Response {
	all := idx.All()

	page := make([]result.Result, 0, q.Limit())
	for _, doc := range paginateDocs(all, q.Offset(), q.Limit()) {
		page = append(page, result.Result{Document: doc, Score: 1, Relevance: 1})
	}

	return result.Response{
		Results:         page,
		TotalCount:      len(all),
		SearchTime:      time.Since(start),
		Query:           q.Text(),
		Filters:         q.Filters(),
		Facets:          q.Facets(),
		AvailableFacets: e.availableFacets(all),
	}
}

// candidates computes the candidate document set: facet matches
// intersected with text matches when both are given, either alone
// otherwise, the whole index when neither is.
func (e *Engine) candidates(idx *index.Index, q *query.Query, norm string) []*document.Document {
	hasFacets := len(q.Facets()) > 0

	if !q.HasText() {
		if !hasFacets {
			return idx.All()
		}
		return idx.DocumentsByFacets(q.Facets())
	}

	pool := idx.All()
	if hasFacets {
		pool = idx.DocumentsByFacets(q.Facets())
	}

	out := make([]*document.Document, 0, len(pool))
	for _, doc := range pool {
		if e.matchesQuery(doc, q, norm) {
			out = append(out, doc)
		}
	}
	return out
}

// matchesQuery reports whether a document is a text candidate: the whole
// query appears verbatim in the searchable text, or every term appears as
// a substring or clears the fuzzy gate against some token of the text.
func (e *Engine) matchesQuery(doc *document.Document, q *query.Query, norm string) bool {
	text := doc.SearchableText()
	if strings.Contains(text, norm) {
		return true
	}
	for _, term := range q.Terms() {
		if strings.Contains(text, term) {
			continue
		}
		if textmatch.BestTokenSimilarity(term, text) > candidateFuzzyGate {
			continue
		}
		return false
	}
	return true
}

// applyFilters keeps documents satisfying every filter (strict AND).
// Unrecognized operators pass; they are logged so configuration typos do
// not fail silently.
func (e *Engine) applyFilters(docs []*document.Document, filters map[string]filter.Condition) []*document.Document {
	if len(filters) == 0 {
		return docs
	}

	for field, cond := range filters {
		if !cond.Known() {
			e.logger.Warn("unrecognized filter operator, condition passes all documents",
				zap.String("field", field),
				zap.String("operator", string(cond.Op())),
			)
		}
	}

	out := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		keep := true
		for field, cond := range filters {
			value, _ := doc.Lookup(field)
			if !cond.Matches(value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, doc)
		}
	}
	return out
}

// sortResults orders results by the requested key. sort.SliceStable
// preserves index insertion order on ties, keeping repeated identical
// searches byte-for-byte reproducible.
func (e *Engine) sortResults(results []result.Result, q *query.Query) {
	cmp := e.comparator(q.SortBy())
	asc := q.SortOrder() == query.Asc

	sort.SliceStable(results, func(i, j int) bool {
		c := cmp(&results[i], &results[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func (e *Engine) comparator(key query.Sort) func(a, b *result.Result) int {
	switch key {
	case query.SortRelevance:
		return func(a, b *result.Result) int {
			return compareFloats(a.Relevance, b.Relevance)
		}
	case query.SortName:
		return fieldComparator("name")
	case query.SortWrapper:
		return fieldComparator("wrapper")
	case query.SortStrength:
		def, ok := e.facetDefs.Get("strength")
		if !ok {
			return fieldComparator("strength")
		}
		return func(a, b *result.Result) int {
			av, _ := a.Document.Field("strength")
			bv, _ := b.Document.Field("strength")
			return def.Rank(av) - def.Rank(bv)
		}
	default:
		return func(a, b *result.Result) int {
			return compareFloats(a.Score, b.Score)
		}
	}
}

func fieldComparator(field string) func(a, b *result.Result) int {
	return func(a, b *result.Result) int {
		av, _ := a.Document.Field(field)
		bv, _ := b.Document.Field(field)
		return strings.Compare(av, bv)
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func paginate(results []result.Result, offset, limit int) []result.Result {
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func paginateDocs(docs []*document.Document, offset, limit int) []*document.Document {
	if offset >= len(docs) {
		return nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end]
}

func resultDocuments(results []result.Result) []*document.Document {
	docs := make([]*document.Document, len(results))
	for i := range results {
		docs[i] = results[i].Document
	}
	return docs
}
