package document

import (
	"testing"

	"github.com/cigarmaestro/searchd/internal/domain/facet"
	"github.com/cigarmaestro/searchd/internal/domain/schema"
)

func buildCigar(t *testing.T, record map[string]any) Document {
	t.Helper()
	return Build("cigars_0", "cigars", record, schema.Defaults().For("cigars"), facet.Defaults())
}

func TestBuild_ExtractsFieldsAndFacets(t *testing.T) {
	doc := buildCigar(t, map[string]any{
		"name":    "Cohiba Behike",
		"wrapper": "Maduro",
		"flavor":  "Rich cocoa",
		"ignored": "not in schema",
	})

	if doc.ID() != "cigars_0" || doc.Category() != "cigars" {
		t.Errorf("unexpected identity: %s/%s", doc.ID(), doc.Category())
	}
	if v, _ := doc.Field("name"); v != "Cohiba Behike" {
		t.Errorf("name = %q", v)
	}
	if _, ok := doc.Field("ignored"); ok {
		t.Error("fields outside the schema must not be extracted")
	}
	if v, _ := doc.FacetValue("wrapper"); v != "Maduro" {
		t.Errorf("wrapper facet = %q", v)
	}
	if _, ok := doc.FacetValue("name"); ok {
		t.Error("name is not a facet field")
	}
	if doc.SearchableText() != "cohiba behike maduro rich cocoa" {
		t.Errorf("searchableText = %q", doc.SearchableText())
	}
}

func TestBuild_OmitsFalsyValues(t *testing.T) {
	doc := buildCigar(t, map[string]any{
		"name":    "",
		"wrapper": nil,
		"flavor":  false,
		"origin":  float64(0),
		"brand":   "Cohiba",
	})
	if len(doc.Fields()) != 1 {
		t.Fatalf("expected only brand extracted, got %v", doc.Fields())
	}
}

func TestBuild_NestedPathAndNumbers(t *testing.T) {
	sch := schema.New([]string{"specs.ring"}, nil, nil)
	doc := Build("cigars_0", "cigars", map[string]any{
		"specs": map[string]any{"ring": float64(52)},
	}, sch, facet.Defaults())
	if v, _ := doc.Field("specs.ring"); v != "52" {
		t.Errorf("specs.ring = %q", v)
	}
}

func TestBuild_MissingNestedPath(t *testing.T) {
	sch := schema.New([]string{"specs.ring"}, nil, nil)
	doc := Build("cigars_0", "cigars", map[string]any{"specs": "flat"}, sch, facet.Defaults())
	if len(doc.Fields()) != 0 {
		t.Errorf("missing nested path must be omitted, got %v", doc.Fields())
	}
}

func TestBuild_FieldNamesInTierOrder(t *testing.T) {
	doc := buildCigar(t, map[string]any{
		"origin":  "Cuban",
		"name":    "Cohiba",
		"wrapper": "Maduro",
	})
	names := doc.FieldNames()
	want := []string{"name", "wrapper", "origin"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuild_DerivedKeys(t *testing.T) {
	doc := buildCigar(t, map[string]any{"name": "Cohiba"})
	if doc.Phonetic() != "chb" {
		t.Errorf("phonetic = %q", doc.Phonetic())
	}
	if _, ok := doc.Trigrams()["coh"]; !ok {
		t.Error("missing trigram coh")
	}
}

func TestBuild_ListValues(t *testing.T) {
	doc := buildCigar(t, map[string]any{"flavor": []any{"cocoa", "cedar"}})
	if v, _ := doc.Field("flavor"); v != "cocoa, cedar" {
		t.Errorf("flavor = %q", v)
	}
}
