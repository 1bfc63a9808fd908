package value

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

const maxInspectDepth = 5

// Inspect renders v as a readable structural dump, similar to what a
// browser console prints: { a: 1, b: [ 'x', null ] }.
func Inspect(v any) string {
	var sb strings.Builder
	inspect(&sb, v, 0)
	return sb.String()
}

// String renders v the way String(v) would in JavaScript for primitives and
// falls back to Inspect for everything else. Top-level strings are not quoted.
func String(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Inspect(v)
}

// FormatNumber formats f the way Number.prototype.toString does.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0 && math.Signbit(f):
		return "-0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func inspect(sb *strings.Builder, v any, depth int) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("null")
	case UndefinedType:
		sb.WriteString("undefined")
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	case float64:
		sb.WriteString(FormatNumber(x))
	case string:
		sb.WriteString(quote(x))
	case *big.Int:
		sb.WriteString(x.String())
		sb.WriteByte('n')
	case *Function:
		if x.Name == "" {
			sb.WriteString("[Function (anonymous)]")
		} else {
			sb.WriteString("[Function: " + x.Name + "]")
		}
	case *Symbol:
		sb.WriteString("Symbol(" + x.Description + ")")
	case Circular:
		sb.WriteString("[Circular]")
	case []any:
		if len(x) == 0 {
			sb.WriteString("[]")
			return
		}
		if depth >= maxInspectDepth {
			sb.WriteString("[Array]")
			return
		}
		sb.WriteString("[ ")
		for i, item := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			inspect(sb, item, depth+1)
		}
		sb.WriteString(" ]")
	case map[string]any:
		if len(x) == 0 {
			sb.WriteString("{}")
			return
		}
		if depth >= maxInspectDepth {
			sb.WriteString("[Object]")
			return
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("{ ")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(propertyKey(k))
			sb.WriteString(": ")
			inspect(sb, x[k], depth+1)
		}
		sb.WriteString(" }")
	default:
		sb.WriteString("[object]")
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

// propertyKey prints identifier-like keys bare and quotes the rest.
func propertyKey(k string) string {
	if k == "" {
		return "''"
	}
	for i, c := range k {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return quote(k)
		}
	}
	return k
}
