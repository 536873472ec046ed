package query

import (
	"strings"
	"testing"

	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("cohiba", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("limit = %d", q.Limit())
	}
	if q.Offset() != 0 {
		t.Errorf("offset = %d", q.Offset())
	}
	if q.SortBy() != SortRelevance || q.SortOrder() != Desc {
		t.Errorf("sort = %s %s", q.SortBy(), q.SortOrder())
	}
	if q.FuzzyThreshold() != DefaultFuzzyThreshold {
		t.Errorf("threshold = %f", q.FuzzyThreshold())
	}
	if !q.IncludeSnippets() {
		t.Error("snippets must default on")
	}
}

func TestNew_Terms(t *testing.T) {
	q, err := New("  Cohiba   BEHIKE ", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms := q.Terms()
	if len(terms) != 2 || terms[0] != "cohiba" || terms[1] != "behike" {
		t.Errorf("terms = %v", terms)
	}
	if q.Normalized() != "cohiba behike" {
		t.Errorf("normalized = %q", q.Normalized())
	}
}

func TestNew_Browse(t *testing.T) {
	q, _ := New("   ", Options{})
	if !q.IsBrowse() {
		t.Error("blank query with no constraints is browse")
	}

	q, _ = New("", Options{Facets: map[string][]string{"wrapper": {"Maduro"}}})
	if q.IsBrowse() {
		t.Error("facet constraints disqualify browse")
	}

	q, _ = New("", Options{Filters: map[string]filter.Condition{"name": filter.Eq("x")}})
	if q.IsBrowse() {
		t.Error("filter constraints disqualify browse")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxQueryLength+1), Options{}); err == nil {
		t.Error("expected error for oversized query")
	}
	if _, err := New("x", Options{SortOrder: "sideways"}); err == nil {
		t.Error("expected error for invalid sort order")
	}
	if _, err := New("x", Options{Offset: -1}); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := New("x", Options{FuzzyThreshold: 1.5}); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
}

func TestNew_Clamps(t *testing.T) {
	q, err := New("x", Options{Limit: MaxLimit + 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != MaxLimit {
		t.Errorf("limit = %d, want %d", q.Limit(), MaxLimit)
	}
}
