package tablevet

import (
	"github.com/openfield/tablevet/internal/value"
	"github.com/openfield/tablevet/schema"
)

// evaluateAttribute runs a categorical or range rule over one
// already-normalized column. It returns the corrected values (same
// length, defaults substituted where configured) and the violations in
// row order. Missing values are never violations and are never
// imputed.
func evaluateAttribute(column string, values []any, r schema.ColumnRule) ([]any, []Violation) {
	out := make([]any, len(values))
	var violations []Violation

	for i, v := range values {
		out[i] = v
		if IsMissing(v) {
			out[i] = Missing
			continue
		}

		var reason string
		switch r.Kind {
		case schema.KindCategorical:
			reason = checkAccepted(v, r.Accepted)
		case schema.KindRange:
			reason = checkRange(v, r)
		}
		if reason == "" {
			continue
		}

		vio := Violation{
			Column: column,
			Row:    i,
			Kind:   r.Kind,
			Value:  v,
			Reason: reason,
		}
		if r.HasDefault {
			vio.Substituted = true
			vio.Resolution = r.Default
			out[i] = r.Default
		}
		violations = append(violations, vio)
	}
	return out, violations
}

func checkAccepted(v any, accepted []any) string {
	for _, a := range accepted {
		if value.Equal(v, a) {
			return ""
		}
	}
	return ReasonNotAccepted
}

// checkRange applies inclusive bounds; unbounded sides skip their
// comparison. A value with no ordering against the bounds is a
// finding, not a crash.
func checkRange(v any, r schema.ColumnRule) string {
	if r.Min != nil {
		c, ok := value.Compare(v, r.Min)
		if !ok {
			return ReasonNonComparable
		}
		if c < 0 {
			return ReasonBelowMinimum
		}
	}
	if r.Max != nil {
		c, ok := value.Compare(v, r.Max)
		if !ok {
			return ReasonNonComparable
		}
		if c > 0 {
			return ReasonAboveMaximum
		}
	}
	return ""
}
