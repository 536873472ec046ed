// Package facet defines the facet configuration: which fields participate
// in faceted filtering and how their value summaries are computed.
package facet

// Type classifies how a facet's values are summarized and ordered.
type Type string

const (
	// Categorical facets have an unordered value vocabulary.
	Categorical Type = "categorical"
	// Ordinal facets have a ranked value vocabulary.
	Ordinal Type = "ordinal"
	// Range facets hold numeric values summarized as min/max/step.
	Range Type = "range"
)

// Definition is one facet's static configuration.
type Definition struct {
	name      string
	facetType Type
	values    []string
	min       float64
	max       float64
	step      float64
}

// NewCategorical creates a categorical facet definition.
func NewCategorical(name string, values []string) Definition {
	return Definition{name: name, facetType: Categorical, values: values}
}

// NewOrdinal creates an ordinal facet definition. The order of values is
// the facet's ranking, lowest first.
func NewOrdinal(name string, values []string) Definition {
	return Definition{name: name, facetType: Ordinal, values: values}
}

// NewRange creates a numeric range facet definition.
func NewRange(name string, min, max, step float64) Definition {
	return Definition{name: name, facetType: Range, min: min, max: max, step: step}
}

// Name returns the facet name (also the document field it is drawn from).
func (d Definition) Name() string { return d.name }

// FacetType returns the facet classification.
func (d Definition) FacetType() Type { return d.facetType }

// Values returns the configured vocabulary (categorical and ordinal only).
func (d Definition) Values() []string { return d.values }

// Min returns the configured lower bound (range only).
func (d Definition) Min() float64 { return d.min }

// Max returns the configured upper bound (range only).
func (d Definition) Max() float64 { return d.max }

// Step returns the configured bucket step (range only).
func (d Definition) Step() float64 { return d.step }

// Rank returns the position of value in an ordinal vocabulary, or -1 when
// the value is unknown. Unknown values sort before ranked ones.
func (d Definition) Rank(value string) int {
	for i, v := range d.values {
		if v == value {
			return i
		}
	}
	return -1
}

// Set is the facet configuration for a whole index.
type Set struct {
	defs  map[string]Definition
	names []string
}

// NewSet creates a facet set. Definition order is preserved for summaries.
func NewSet(defs ...Definition) Set {
	m := make(map[string]Definition, len(defs))
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		if _, ok := m[d.name]; ok {
			continue
		}
		m[d.name] = d
		names = append(names, d.name)
	}
	return Set{defs: m, names: names}
}

// Has reports whether name is a configured facet.
func (s Set) Has(name string) bool {
	_, ok := s.defs[name]
	return ok
}

// Get returns the definition for name.
func (s Set) Get(name string) (Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Names returns facet names in configuration order.
func (s Set) Names() []string { return s.names }

// Defaults returns the cigar catalog facet configuration.
func Defaults() Set {
	return NewSet(
		NewCategorical("wrapper", []string{"Maduro", "Connecticut", "Habano", "Natural", "Oscuro", "Candela"}),
		NewOrdinal("strength", []string{"Mild", "Mild-Medium", "Medium", "Medium-Full", "Full"}),
		NewRange("priceRange", 0, 100, 5),
		NewCategorical("origin", []string{"Dominican", "Nicaraguan", "Cuban", "Honduran", "Mexican", "Ecuadorian"}),
		NewCategorical("size", []string{"Robusto", "Churchill", "Corona", "Torpedo", "Toro", "Gordo"}),
	)
}
