// Package schema defines which fields of a catalog record are searchable
// and how much each field contributes to relevance scoring.
package schema

// Field weights by tier. Fields outside the schema score at WeightUnknown.
const (
	WeightPrimary   = 1.0
	WeightSecondary = 0.7
	WeightMetadata  = 0.4
	WeightUnknown   = 0.3
)

// Schema lists the searchable fields of one record category in three
// relevance tiers. Field names may use dot notation for nested values.
type Schema struct {
	primary   []string
	secondary []string
	metadata  []string
}

// New creates a Schema from tiered field name lists.
func New(primary, secondary, metadata []string) Schema {
	return Schema{primary: primary, secondary: secondary, metadata: metadata}
}

// Fields returns all field names in tier order (primary, secondary, metadata).
func (s Schema) Fields() []string {
	fields := make([]string, 0, len(s.primary)+len(s.secondary)+len(s.metadata))
	fields = append(fields, s.primary...)
	fields = append(fields, s.secondary...)
	fields = append(fields, s.metadata...)
	return fields
}

// Weight returns the scoring weight of a field name under this schema.
func (s Schema) Weight(field string) float64 {
	for _, f := range s.primary {
		if f == field {
			return WeightPrimary
		}
	}
	for _, f := range s.secondary {
		if f == field {
			return WeightSecondary
		}
	}
	for _, f := range s.metadata {
		if f == field {
			return WeightMetadata
		}
	}
	return WeightUnknown
}

// Set maps record categories to their schemas with an explicit fallback
// for unrecognized categories.
type Set struct {
	byCategory map[string]Schema
	fallback   Schema
}

// NewSet creates a schema set. The fallback applies to any category not
// present in byCategory.
func NewSet(byCategory map[string]Schema, fallback Schema) Set {
	m := make(map[string]Schema, len(byCategory))
	for k, v := range byCategory {
		m[k] = v
	}
	return Set{byCategory: m, fallback: fallback}
}

// For returns the schema for a category, or the fallback when unknown.
func (s Set) For(category string) Schema {
	if sch, ok := s.byCategory[category]; ok {
		return sch
	}
	return s.fallback
}

// Defaults returns the cigar catalog schema set. The cigars schema doubles
// as the fallback for unrecognized categories.
func Defaults() Set {
	cigars := New(
		[]string{"name", "wrapper", "flavor"},
		[]string{"origin", "strength", "size", "brand"},
		[]string{"construction", "priceRange", "availability"},
	)
	pairings := New(
		[]string{"spirit", "cocktail", "food"},
		[]string{"category", "profile", "season"},
		[]string{"occasion", "intensity", "harmony"},
	)
	education := New(
		[]string{"title", "topic", "content"},
		[]string{"level", "category", "instructor"},
		[]string{"duration", "ceuCredits", "prerequisites"},
	)
	return NewSet(map[string]Schema{
		"cigars":    cigars,
		"pairings":  pairings,
		"education": education,
	}, cigars)
}
