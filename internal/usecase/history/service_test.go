package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	domhist "github.com/cigarmaestro/searchd/internal/domain/history"
)

// --- Mocks ---

type mockStore struct {
	mu      sync.Mutex
	loaded  []domhist.Entry
	loadErr error
	saved   [][]domhist.Entry
	saveErr error
	cleared bool
	saveCh  chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{saveCh: make(chan struct{}, 100)}
}

func (m *mockStore) Load(context.Context) ([]domhist.Entry, error) {
	return m.loaded, m.loadErr
}

func (m *mockStore) Save(_ context.Context, entries []domhist.Entry) error {
	m.mu.Lock()
	m.saved = append(m.saved, entries)
	m.mu.Unlock()
	m.saveCh <- struct{}{}
	return m.saveErr
}

func (m *mockStore) Clear(context.Context) error {
	m.mu.Lock()
	m.cleared = true
	m.mu.Unlock()
	m.saveCh <- struct{}{}
	return nil
}

func (m *mockStore) waitForWrite(t *testing.T) {
	t.Helper()
	select {
	case <-m.saveCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background persistence")
	}
}

// --- Tests ---

func TestRecord_BlankIgnored(t *testing.T) {
	s := New(nil, 0, nil)
	s.Record("   ", nil, nil)
	if s.Size() != 0 {
		t.Error("blank query must not be recorded")
	}
}

func TestRecord_NewestFirstAndDeduped(t *testing.T) {
	s := New(nil, 0, nil)
	s.Record("cohiba", nil, nil)
	s.Record("montecristo", nil, nil)
	s.Record("cohiba", nil, nil)

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != "cohiba" || entries[1].Query != "montecristo" {
		t.Errorf("unexpected order: %s, %s", entries[0].Query, entries[1].Query)
	}
}

func TestRecord_Cap(t *testing.T) {
	s := New(nil, 50, nil)
	for i := 0; i < 60; i++ {
		s.Record(fmt.Sprintf("query %d", i), nil, nil)
	}
	entries := s.Entries()
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
	if entries[0].Query != "query 59" || entries[49].Query != "query 10" {
		t.Errorf("retained window wrong: first=%s last=%s", entries[0].Query, entries[49].Query)
	}
}

func TestRecord_Persists(t *testing.T) {
	store := newMockStore()
	s := New(store, 0, nil)
	s.Record("cohiba", nil, nil)
	store.waitForWrite(t)

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.saved) != 1 || store.saved[0][0].Query != "cohiba" {
		t.Errorf("unexpected persisted state: %+v", store.saved)
	}
}

func TestRecord_PersistFailureIsSilent(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("quota exceeded")
	s := New(store, 0, nil)
	s.Record("cohiba", nil, nil) // must not panic or block
	store.waitForWrite(t)
	if s.Size() != 1 {
		t.Error("in-memory history must survive persistence failure")
	}
}

func TestLoad_Tolerant(t *testing.T) {
	store := newMockStore()
	store.loadErr = errors.New("corrupt")
	s := New(store, 0, nil)
	s.Load(context.Background())
	if s.Size() != 0 {
		t.Error("load failure must start empty")
	}
}

func TestLoad_TruncatesOversized(t *testing.T) {
	store := newMockStore()
	for i := 0; i < 10; i++ {
		store.loaded = append(store.loaded, domhist.Entry{Query: fmt.Sprintf("q%d", i)})
	}
	s := New(store, 5, nil)
	s.Load(context.Background())
	if s.Size() != 5 {
		t.Errorf("expected persisted history truncated to cap, got %d", s.Size())
	}
}

func TestClear(t *testing.T) {
	store := newMockStore()
	s := New(store, 0, nil)
	s.Record("cohiba", nil, nil)
	store.waitForWrite(t)
	s.Clear()
	store.waitForWrite(t)

	if s.Size() != 0 {
		t.Error("history must be empty after Clear")
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.cleared {
		t.Error("persisted state must be cleared")
	}
}

func TestPopular(t *testing.T) {
	// Live recording dedupes by query, so duplicate counts only arise
	// from persisted history (which Load takes as-is).
	store := newMockStore()
	store.loaded = []domhist.Entry{
		{Query: "padron"},
		{Query: "cohiba"},
		{Query: "padron"},
		{Query: "padron"},
	}
	s := New(store, 0, nil)
	s.Load(context.Background())

	popular := s.Popular(0)
	if len(popular) != 2 {
		t.Fatalf("expected 2 aggregated queries, got %d", len(popular))
	}
	if popular[0].Query != "padron" || popular[0].Count != 3 {
		t.Errorf("most frequent first, got %+v", popular[0])
	}
	if popular[1].Query != "cohiba" || popular[1].Count != 1 {
		t.Errorf("got %+v", popular[1])
	}
}

func TestPopular_TieBreaksByRecency(t *testing.T) {
	s := New(nil, 0, nil)
	s.Record("padron", nil, nil)
	s.Record("cohiba", nil, nil) // newest, same count

	popular := s.Popular(0)
	if popular[0].Query != "cohiba" {
		t.Errorf("ties must rank the more recent query first, got %s", popular[0].Query)
	}
}

func TestPopular_Limit(t *testing.T) {
	s := New(nil, 0, nil)
	for i := 0; i < 15; i++ {
		s.Record(fmt.Sprintf("q%d", i), nil, nil)
	}
	if got := len(s.Popular(0)); got != DefaultPopularLimit {
		t.Errorf("default limit = %d, got %d", DefaultPopularLimit, got)
	}
	if got := len(s.Popular(3)); got != 3 {
		t.Errorf("explicit limit ignored, got %d", got)
	}
}

func TestQueriesContaining(t *testing.T) {
	s := New(nil, 0, nil)
	s.Record("Cohiba Behike", nil, nil)
	s.Record("montecristo", nil, nil)

	got := s.QueriesContaining("cohi")
	if len(got) != 1 || got[0] != "Cohiba Behike" {
		t.Errorf("got %v", got)
	}
}
