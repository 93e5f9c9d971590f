// Package value holds scalar comparison helpers shared by the schema
// parser and the evaluators. Comparisons are width-insensitive across
// numeric kinds but never coerce across families (a string never
// equals a number).
package value

import (
	"math"
	"reflect"
	"time"
)

// Equal reports whether a and b are the same scalar. Numeric values
// compare by magnitude regardless of Go width; times compare with
// time.Time.Equal; everything else falls back to DeepEqual.
func Equal(a, b any) bool {
	if af, ok := ToFloat(a); ok {
		bf, ok := ToFloat(b)
		return ok && af == bf
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders a against b, returning -1, 0 or 1. ok is false when
// the two values have no common ordering (mixed families, or a kind
// with no ordering at all).
func Compare(a, b any) (int, bool) {
	if af, aok := ToFloat(a); aok {
		bf, bok := ToFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if at, aok := a.(time.Time); aok {
		bt, bok := b.(time.Time)
		if !bok {
			return 0, false
		}
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// ToFloat widens any integer, unsigned or float kind to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// IsNaN reports whether v is a floating-point NaN.
func IsNaN(v any) bool {
	switch n := v.(type) {
	case float32:
		return math.IsNaN(float64(n))
	case float64:
		return math.IsNaN(n)
	}
	return false
}

// Orderable reports whether v belongs to a family Compare understands.
func Orderable(v any) bool {
	if _, ok := ToFloat(v); ok {
		return true
	}
	_, ok := v.(time.Time)
	return ok
}
