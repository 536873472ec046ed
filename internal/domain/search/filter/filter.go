// Package filter models per-field result constraints. A search applies
// its filters as a strict AND across fields.
package filter

import (
	"strconv"
	"strings"
)

// Operator identifies how a condition compares against a field value.
type Operator string

// Recognized operators. Anything else is treated as permissive (see
// Condition.Matches).
const (
	OpEq         Operator = "eq"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpIn         Operator = "in"
	OpRange      Operator = "range"
	OpGT         Operator = "gt"
	OpGTE        Operator = "gte"
	OpLT         Operator = "lt"
	OpLTE        Operator = "lte"
)

// Condition is a single field constraint.
type Condition struct {
	op     Operator
	text   string
	values []string
	min    *float64
	max    *float64
}

// Eq creates an exact-equality condition.
func Eq(text string) Condition { return Condition{op: OpEq, text: text} }

// Contains creates a case-insensitive substring condition.
func Contains(text string) Condition { return Condition{op: OpContains, text: text} }

// StartsWith creates a case-insensitive prefix condition.
func StartsWith(text string) Condition { return Condition{op: OpStartsWith, text: text} }

// In creates a set-membership condition (exact equality against any value).
func In(values ...string) Condition { return Condition{op: OpIn, values: values} }

// NumRange creates an inclusive numeric range condition.
func NumRange(min, max float64) Condition {
	return Condition{op: OpRange, min: &min, max: &max}
}

// GT creates an exclusive numeric lower-bound condition.
func GT(min float64) Condition { return Condition{op: OpGT, min: &min} }

// GTE creates an inclusive numeric lower-bound condition.
func GTE(min float64) Condition { return Condition{op: OpGTE, min: &min} }

// LT creates an exclusive numeric upper-bound condition.
func LT(max float64) Condition { return Condition{op: OpLT, max: &max} }

// LTE creates an inclusive numeric upper-bound condition.
func LTE(max float64) Condition { return Condition{op: OpLTE, max: &max} }

// Raw creates a condition with an arbitrary operator, as decoded from the
// wire. Unrecognized operators pass every value.
func Raw(op Operator, text string, values []string, min, max *float64) Condition {
	return Condition{op: op, text: text, values: values, min: min, max: max}
}

// Op returns the condition operator.
func (c Condition) Op() Operator { return c.op }

// Text returns the comparison text for string operators.
func (c Condition) Text() string { return c.text }

// Values returns the membership set for OpIn.
func (c Condition) Values() []string { return c.values }

// Min returns the lower bound, if any.
func (c Condition) Min() *float64 { return c.min }

// Max returns the upper bound, if any.
func (c Condition) Max() *float64 { return c.max }

// Known reports whether the operator is recognized. Callers use this to
// surface a warning when a query carries a permissive unknown operator.
func (c Condition) Known() bool {
	switch c.op {
	case OpEq, OpContains, OpStartsWith, OpIn, OpRange, OpGT, OpGTE, OpLT, OpLTE:
		return true
	}
	return false
}

// Matches evaluates the condition against a field value. Numeric operators
// fail on values that do not parse as numbers. An unrecognized operator
// passes unconditionally, keeping queries resilient to unknown filter
// configuration.
func (c Condition) Matches(value string) bool {
	switch c.op {
	case OpEq:
		return value == c.text
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(c.text))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(c.text))
	case OpIn:
		for _, v := range c.values {
			if value == v {
				return true
			}
		}
		return false
	case OpRange:
		n, ok := parseNumber(value)
		return ok && c.min != nil && c.max != nil && n >= *c.min && n <= *c.max
	case OpGT:
		n, ok := parseNumber(value)
		return ok && c.min != nil && n > *c.min
	case OpGTE:
		n, ok := parseNumber(value)
		return ok && c.min != nil && n >= *c.min
	case OpLT:
		n, ok := parseNumber(value)
		return ok && c.max != nil && n < *c.max
	case OpLTE:
		n, ok := parseNumber(value)
		return ok && c.max != nil && n <= *c.max
	default:
		return true
	}
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return n, err == nil
}
