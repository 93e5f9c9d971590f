package tablevet

import "github.com/openfield/tablevet/internal/value"

// missing is unexported so Missing is the only value of its type.
type missing struct{}

func (missing) String() string { return "MISSING" }

// Missing is the canonical marker for "no value", distinct from any
// raw sentinel the source data used to denote absence.
var Missing any = missing{}

// IsMissing reports whether v is canonically missing: the Missing
// marker, nil, or a floating-point NaN.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.(missing); ok {
		return true
	}
	return value.IsNaN(v)
}

// Normalize maps every value equal to one of the declared null
// synonyms (exact match, never fuzzy) to Missing. Values already
// canonically missing pass through as Missing. The result is a new
// slice of the same length; the input is untouched.
func Normalize(values []any, nulls []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
		if IsMissing(v) {
			out[i] = Missing
			continue
		}
		for _, n := range nulls {
			if value.Equal(v, n) {
				out[i] = Missing
				break
			}
		}
	}
	return out
}
