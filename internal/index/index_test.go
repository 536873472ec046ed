package index

import (
	"testing"

	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
)

func testData() map[string][]map[string]any {
	return map[string][]map[string]any{
		"cigars": {
			{"name": "Cohiba Behike", "wrapper": "Maduro", "strength": "Full"},
			{"name": "Montecristo No. 2", "wrapper": "Natural", "strength": "Medium"},
			{"name": "Padron 1964", "wrapper": "Maduro", "strength": "Full"},
		},
		"pairings": {
			{"spirit": "Aged Rum", "category": "Spirits"},
		},
	}
}

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	return Build(testData(), schema.Defaults(), facet.Defaults())
}

func TestBuild_AssignsIDs(t *testing.T) {
	idx := buildTestIndex(t)
	if idx.Size() != 4 {
		t.Fatalf("size = %d, want 4", idx.Size())
	}
	for _, id := range []string{"cigars_0", "cigars_1", "cigars_2", "pairings_0"} {
		if _, ok := idx.Get(id); !ok {
			t.Errorf("missing document %s", id)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := buildTestIndex(t)
	b := buildTestIndex(t)
	if a.Size() != b.Size() {
		t.Fatalf("sizes differ: %d vs %d", a.Size(), b.Size())
	}
	for i, doc := range a.All() {
		if b.All()[i].ID() != doc.ID() {
			t.Errorf("document order differs at %d: %s vs %s", i, doc.ID(), b.All()[i].ID())
		}
	}
}

func TestBuild_SkipsMalformedCategories(t *testing.T) {
	idx := Build(map[string][]map[string]any{
		"cigars": nil,
		"broken": {nil, {"name": "ok"}},
	}, schema.Defaults(), facet.Defaults())
	if idx.Size() != 1 {
		t.Errorf("size = %d, want 1", idx.Size())
	}
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil, schema.Defaults(), facet.Defaults())
	if idx.Size() != 0 {
		t.Errorf("size = %d", idx.Size())
	}
	if docs := idx.DocumentsByFacets(map[string][]string{"wrapper": {"Maduro"}}); len(docs) != 0 {
		t.Errorf("expected no matches, got %d", len(docs))
	}
}

func TestDocumentsByFacets_UnionWithinFacet(t *testing.T) {
	idx := buildTestIndex(t)
	docs := idx.DocumentsByFacets(map[string][]string{"wrapper": {"Maduro", "Natural"}})
	if len(docs) != 3 {
		t.Errorf("expected 3 documents, got %d", len(docs))
	}
}

func TestDocumentsByFacets_IntersectionAcrossFacets(t *testing.T) {
	idx := buildTestIndex(t)
	docs := idx.DocumentsByFacets(map[string][]string{
		"wrapper":  {"Maduro"},
		"strength": {"Full"},
	})
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	// Insertion order is preserved.
	if docs[0].ID() != "cigars_0" || docs[1].ID() != "cigars_2" {
		t.Errorf("unexpected order: %s, %s", docs[0].ID(), docs[1].ID())
	}
}

func TestDocumentsByFacets_UnknownFacetMatchesNothing(t *testing.T) {
	idx := buildTestIndex(t)
	docs := idx.DocumentsByFacets(map[string][]string{"vintage": {"1999"}})
	if len(docs) != 0 {
		t.Errorf("expected no matches, got %d", len(docs))
	}
}

func TestFacetValueCounts(t *testing.T) {
	idx := buildTestIndex(t)
	counts := idx.FacetValueCounts()
	if counts["wrapper"] != 2 {
		t.Errorf("wrapper distinct values = %d, want 2", counts["wrapper"])
	}
	if counts["strength"] != 2 {
		t.Errorf("strength distinct values = %d, want 2", counts["strength"])
	}
}
