package value

import (
	"math"
	"math/big"
)

// DeepEqual reports whether a and b are structurally equal.
//
// The rule is strict: types must match (1 and "1" differ), null differs from
// undefined, arrays never equal objects, NaN equals NaN, and object key order
// is ignored.
func DeepEqual(a, b any) bool {
	if strictEqual(a, b) {
		return true
	}
	if IsNullish(a) || IsNullish(b) {
		return false
	}
	if TypeOf(a) != TypeOf(b) {
		return false
	}

	switch x := a.(type) {
	case float64:
		return math.IsNaN(x) && IsNaN(b)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !DeepEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, exists := y[k]
			if !exists || !DeepEqual(xv, yv) {
				return false
			}
		}
		return true
	case Circular:
		_, ok := b.(Circular)
		return ok
	}
	return false
}

// strictEqual mirrors the === operator on the value model.
func strictEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case UndefinedType:
		return IsUndefined(b)
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x != nil && y != nil && x.Cmp(y) == 0
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x == y
	}
	return false
}
