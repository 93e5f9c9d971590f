// Package schema models the per-column validation rules consumed by
// tablevet. A schema is parsed and validated eagerly, so a malformed
// rule set fails before any data is touched.
package schema

import "fmt"

// Kind discriminates the rule union carried by a column.
type Kind int

const (
	KindCategorical Kind = iota // accepted-set membership
	KindRange                   // inclusive [min, max] bounds
	KindGeometry                // sliver and/or bounding-box checks
)

func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindRange:
		return "range"
	case KindGeometry:
		return "geometry"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind name, so report JSON stays readable.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// DefaultNulls are raw values always treated as null synonyms, merged
// into every attribute rule's Nulls at parse time.
var DefaultNulls = []any{nil, "null", ""}

// SliverRule flags geometries whose measure, taken in the projection
// identified by EPSG, falls strictly below Threshold.
type SliverRule struct {
	Threshold float64
	EPSG      int
}

// BoundingBox is an axis-aligned containment bound in the dataset's
// native coordinate system.
type BoundingBox struct {
	XMin, XMax float64
	YMin, YMax float64
}

// ColumnRule is the tagged union of rules a single column may carry.
// Exactly the fields implied by Kind are populated; the rest stay
// zero.
type ColumnRule struct {
	Column string
	Kind   Kind

	// Categorical.
	Accepted []any

	// Range. A nil bound means that side is unbounded.
	Min any
	Max any

	// Categorical and range. Default replaces violating values when
	// HasDefault is set; otherwise violations are flag-only.
	Default    any
	HasDefault bool
	Nulls      []any

	// Geometry.
	Sliver *SliverRule
	Bound  *BoundingBox
}

// Schema is an ordered set of column rules. Order is the order rules
// were declared and fixes violation ordering in reports.
type Schema struct {
	order []string
	rules map[string]ColumnRule
}

// Columns returns the schema's column names in declaration order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Rule looks up the rule for a column.
func (s *Schema) Rule(column string) (ColumnRule, bool) {
	r, ok := s.rules[column]
	return r, ok
}

// Len reports the number of ruled columns.
func (s *Schema) Len() int { return len(s.order) }

func (s *Schema) add(r ColumnRule) error {
	if s.rules == nil {
		s.rules = map[string]ColumnRule{}
	}
	if _, dup := s.rules[r.Column]; dup {
		return &ConfigError{Column: r.Column, Message: "duplicate column rule"}
	}
	s.order = append(s.order, r.Column)
	s.rules[r.Column] = r
	return nil
}

// ConfigError reports a malformed schema or a schema/dataset mismatch.
// It is the fatal error class: nothing is evaluated once one is
// raised.
type ConfigError struct {
	Column  string // offending column, when known
	Key     string // offending rule key, when known
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Column != "" && e.Key != "":
		return fmt.Sprintf("schema: column %q, key %q: %s", e.Column, e.Key, e.Message)
	case e.Column != "":
		return fmt.Sprintf("schema: column %q: %s", e.Column, e.Message)
	}
	return "schema: " + e.Message
}
