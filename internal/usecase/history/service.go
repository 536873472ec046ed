// Package history keeps the recent-searches list and derives popular
// queries from it. The list is capped, deduplicated by query string, and
// persisted through an injected store; persistence failures never reach
// callers.
package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domhist "github.com/cigarmaestro/searchd/internal/domain/history"
	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

// DefaultPopularLimit is the number of popular queries returned when no
// limit is given.
const DefaultPopularLimit = 10

const persistTimeout = 5 * time.Second

// Service manages the search history list.
type Service struct {
	store   Store
	logger  *zap.Logger
	maxSize int
	now     func() time.Time

	mu      sync.Mutex
	entries []domhist.Entry

	// persist serializes background saves so a slow store cannot
	// reorder snapshots.
	persist sync.Mutex
}

// New creates a history service. maxSize <= 0 selects the default cap.
// store may be nil; the history then lives in memory only.
func New(store Store, maxSize int, logger *zap.Logger) *Service {
	if maxSize <= 0 {
		maxSize = domhist.DefaultMaxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, maxSize: maxSize, logger: logger, now: time.Now}
}

// Load restores persisted history. Missing or corrupt state starts the
// history empty; it is never an error for the caller.
func (s *Service) Load(ctx context.Context) {
	if s.store == nil {
		return
	}
	entries, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load search history, starting empty", zap.Error(err))
		return
	}
	if len(entries) > s.maxSize {
		entries = entries[:s.maxSize]
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// Record adds a search to the front of the history. Blank queries are
// ignored. A repeated query moves to the front instead of duplicating.
// Persistence happens in the background and is fire-and-forget.
func (s *Service) Record(query string, filters map[string]filter.Condition, facets map[string][]string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	entry := domhist.Entry{
		Query:     query,
		Filters:   filters,
		Facets:    facets,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	kept := make([]domhist.Entry, 0, len(s.entries)+1)
	kept = append(kept, entry)
	for _, e := range s.entries {
		if e.Query != query {
			kept = append(kept, e)
		}
	}
	if len(kept) > s.maxSize {
		kept = kept[:s.maxSize]
	}
	s.entries = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persistAsync(snapshot)
}

// Entries returns the history, newest first.
func (s *Service) Entries() []domhist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Size returns the current history length.
func (s *Service) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear empties the history and its persisted state.
func (s *Service) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		s.persist.Lock()
		defer s.persist.Unlock()
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear persisted search history", zap.Error(err))
		}
	}()
}

// Popular aggregates the history by exact query string and returns the
// most frequent queries. limit <= 0 selects the default. Ties rank the
// more recently used query first.
func (s *Service) Popular(limit int) []domhist.PopularQuery {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	s.mu.Lock()
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, e := range s.entries {
		counts[e.Query]++
		if _, ok := firstSeen[e.Query]; !ok {
			firstSeen[e.Query] = i
		}
	}
	s.mu.Unlock()

	out := make([]domhist.PopularQuery, 0, len(counts))
	for q, c := range counts {
		out = append(out, domhist.PopularQuery{Query: q, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Query] < firstSeen[out[j].Query]
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// QueriesContaining returns distinct history queries containing the
// lower-cased needle, newest first.
func (s *Service) QueriesContaining(needle string) []string {
	needle = strings.ToLower(needle)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		if _, ok := seen[e.Query]; ok {
			continue
		}
		if strings.Contains(strings.ToLower(e.Query), needle) {
			out = append(out, e.Query)
			seen[e.Query] = struct{}{}
		}
	}
	return out
}

func (s *Service) snapshotLocked() []domhist.Entry {
	out := make([]domhist.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Service) persistAsync(snapshot []domhist.Entry) {
	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		s.persist.Lock()
		defer s.persist.Unlock()
		if err := s.store.Save(ctx, snapshot); err != nil {
			s.logger.Warn("failed to persist search history", zap.Error(err))
		}
	}()
}
