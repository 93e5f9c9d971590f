package tablevet

import (
	gojson "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/openfield/tablevet/schema"
)

// Violation is a single recorded rule failure. Violations are
// produced by the evaluators and never mutated afterwards.
type Violation struct {
	Column string      `json:"column"`
	Row    int         `json:"row"`
	Kind   schema.Kind `json:"kind"`
	Value  any         `json:"value"`
	Reason string      `json:"reason"`
	// Substituted is true when the rule's default replaced the value
	// in the corrected output; Resolution then carries that default.
	// Otherwise the violation is flag-only.
	Substituted bool `json:"substituted"`
	Resolution  any  `json:"resolution,omitempty"`
}

// Report is the aggregated outcome of one Validate call. Violations
// are ordered by schema column order, then row order. Accessors hand
// out copies, so a Report never changes once returned.
type Report struct {
	violations []Violation
}

func (r *Report) add(vs ...Violation) {
	r.violations = append(r.violations, vs...)
}

// Count reports the total number of violations.
func (r *Report) Count() int { return len(r.violations) }

// Violations returns the ordered violation sequence.
func (r *Report) Violations() []Violation {
	out := make([]Violation, len(r.violations))
	copy(out, r.violations)
	return out
}

// ByColumn returns the violations recorded for one column, in row
// order.
func (r *Report) ByColumn(column string) []Violation {
	var out []Violation
	for _, v := range r.violations {
		if v.Column == column {
			out = append(out, v)
		}
	}
	return out
}

// ByKind returns the violations recorded for one rule kind.
func (r *Report) ByKind(kind schema.Kind) []Violation {
	var out []Violation
	for _, v := range r.violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// CountsByColumn summarizes violation counts per column.
func (r *Report) CountsByColumn() map[string]int {
	out := map[string]int{}
	for _, v := range r.violations {
		out[v.Column]++
	}
	return out
}

// CountsByKind summarizes violation counts per rule kind.
func (r *Report) CountsByKind() map[string]int {
	out := map[string]int{}
	for _, v := range r.violations {
		out[v.Kind.String()]++
	}
	return out
}

type reportJSON struct {
	Total      int            `json:"total"`
	ByColumn   map[string]int `json:"by_column"`
	ByKind     map[string]int `json:"by_kind"`
	Violations []Violation    `json:"violations"`
}

// JSON renders the report. Geometry values are emitted as GeoJSON;
// the Missing marker is emitted as null.
func (r *Report) JSON() ([]byte, error) {
	vs := r.Violations()
	for i, v := range vs {
		switch val := v.Value.(type) {
		case orb.Geometry:
			vs[i].Value = geojson.NewGeometry(val)
		case missing:
			vs[i].Value = nil
		}
	}
	return gojson.Marshal(reportJSON{
		Total:      len(vs),
		ByColumn:   r.CountsByColumn(),
		ByKind:     r.CountsByKind(),
		Violations: vs,
	})
}
