package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
)

// SpecialKey tags objects that carry a value JSON cannot represent.
const SpecialKey = "$js"

// Normalize converts decoder output into the value model: every integer and
// float kind becomes float64, maps with non-string keys are stringified, and
// {"$js": ...} objects become the special values they describe.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case UndefinedType, bool, string, float64, *big.Int, *Function, *Symbol, Circular:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return string(x)
		}
		return f
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		if special, ok := decodeSpecial(x); ok {
			return special
		}
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return Normalize(m)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func decodeSpecial(m map[string]any) (any, bool) {
	tag, ok := m[SpecialKey].(string)
	if !ok {
		return nil, false
	}
	switch tag {
	case "undefined":
		return Undefined, true
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	case "-0":
		return math.Copysign(0, -1), true
	case "circular":
		return Circular{}, true
	case "bigint":
		s, _ := m["value"].(string)
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, false
		}
		return n, true
	case "function":
		name, _ := m["name"].(string)
		return &Function{Name: name}, true
	case "symbol":
		desc, _ := m["description"].(string)
		return &Symbol{Description: desc}, true
	}
	return nil, false
}

// Encode converts v into a tree encoding/json can marshal losslessly.
func Encode(v any) any {
	switch x := v.(type) {
	case UndefinedType:
		return special("undefined")
	case float64:
		switch {
		case math.IsNaN(x):
			return special("NaN")
		case math.IsInf(x, 1):
			return special("Infinity")
		case math.IsInf(x, -1):
			return special("-Infinity")
		case x == 0 && math.Signbit(x):
			return special("-0")
		}
		return x
	case *big.Int:
		m := special("bigint")
		m["value"] = x.String()
		return m
	case *Function:
		m := special("function")
		m["name"] = x.Name
		return m
	case *Symbol:
		m := special("symbol")
		m["description"] = x.Description
		return m
	case Circular:
		return special("circular")
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Encode(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Encode(item)
		}
		return out
	}
	return v
}

func special(tag string) map[string]any {
	return map[string]any{SpecialKey: tag}
}
