package value

import (
	"math"
	"math/big"
)

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined is the JavaScript undefined value.
var Undefined = UndefinedType{}

// Function stands in for a JavaScript function. Pointer identity follows
// the identity of the function inside a single export.
type Function struct {
	Name string
}

// Symbol stands in for a JavaScript symbol.
type Symbol struct {
	Description string
}

// Circular marks a reference to an object that is already being exported.
type Circular struct{}

// IsUndefined reports whether v is undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// IsNullish reports whether v is null or undefined.
func IsNullish(v any) bool {
	return v == nil || IsUndefined(v)
}

// IsNaN reports whether v is the number NaN.
func IsNaN(v any) bool {
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// IsArray reports whether v is an array.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// TypeOf returns the result of the JavaScript typeof operator for v.
func TypeOf(v any) string {
	switch v.(type) {
	case nil, []any, map[string]any, Circular:
		return "object"
	case UndefinedType:
		return "undefined"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *big.Int:
		return "bigint"
	case *Function:
		return "function"
	case *Symbol:
		return "symbol"
	default:
		return "object"
	}
}
