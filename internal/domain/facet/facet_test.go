package facet

import "testing"

func TestRank(t *testing.T) {
	d := NewOrdinal("strength", []string{"Mild", "Medium", "Full"})
	if got := d.Rank("Medium"); got != 1 {
		t.Errorf("Rank(Medium) = %d, want 1", got)
	}
	if got := d.Rank("Volcanic"); got != -1 {
		t.Errorf("Rank of unknown value = %d, want -1", got)
	}
}

func TestNewSet_PreservesOrderAndDedupes(t *testing.T) {
	s := NewSet(
		NewCategorical("wrapper", nil),
		NewRange("priceRange", 0, 100, 5),
		NewCategorical("wrapper", []string{"dup"}),
	)
	names := s.Names()
	if len(names) != 2 || names[0] != "wrapper" || names[1] != "priceRange" {
		t.Errorf("unexpected names: %v", names)
	}
	d, _ := s.Get("wrapper")
	if len(d.Values()) != 0 {
		t.Error("first definition must win on duplicate names")
	}
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	for _, name := range []string{"wrapper", "strength", "priceRange", "origin", "size"} {
		if !s.Has(name) {
			t.Errorf("defaults missing facet %q", name)
		}
	}
	pr, _ := s.Get("priceRange")
	if pr.FacetType() != Range || pr.Step() != 5 {
		t.Error("priceRange must be a range facet with step 5")
	}
	st, _ := s.Get("strength")
	if st.FacetType() != Ordinal {
		t.Error("strength must be ordinal")
	}
}
