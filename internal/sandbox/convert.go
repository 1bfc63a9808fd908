package sandbox

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/codejudge/internal/value"
)

// maxExportLength bounds the arrays copied out of the VM.
const maxExportLength = 1 << 20

// importValue builds a native JS value from the value model. Arrays and
// objects are created inside the VM so Array.isArray and prototype checks
// behave as they would for literals.
func (r *Runtime) importValue(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case value.UndefinedType:
		return goja.Undefined()
	case bool, string, float64, *big.Int:
		return r.vm.ToValue(x)
	case []any:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = r.importValue(item)
		}
		return r.vm.NewArray(items...)
	case map[string]any:
		obj := r.vm.NewObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = obj.Set(k, r.importValue(x[k]))
		}
		return obj
	case *value.Function, *value.Symbol, value.Circular:
		return goja.Undefined()
	}
	return r.importValue(value.Normalize(v))
}

// exportValue converts a JS value into the value model.
func (r *Runtime) exportValue(v goja.Value) any {
	return r.export(v, map[*goja.Object]bool{})
}

func (r *Runtime) export(v goja.Value, active map[*goja.Object]bool) any {
	if v == nil || goja.IsUndefined(v) {
		return value.Undefined
	}
	if goja.IsNull(v) {
		return nil
	}

	switch x := v.(type) {
	case *goja.Object:
		return r.exportObject(x, active)
	case *goja.Symbol:
		desc := strings.TrimSuffix(strings.TrimPrefix(x.String(), "Symbol("), ")")
		return &value.Symbol{Description: desc}
	}

	switch x := v.Export().(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case bool:
		return x
	case string:
		return x
	case *big.Int:
		return x
	}
	return v.String()
}

func (r *Runtime) exportObject(obj *goja.Object, active map[*goja.Object]bool) any {
	if active[obj] {
		return value.Circular{}
	}

	if _, ok := goja.AssertFunction(obj); ok {
		if fn, seen := r.functions[obj]; seen {
			return fn
		}
		name := ""
		if n := obj.Get("name"); n != nil && !goja.IsUndefined(n) {
			name = n.String()
		}
		fn := &value.Function{Name: name}
		r.functions[obj] = fn
		return fn
	}

	active[obj] = true
	defer delete(active, obj)

	if obj.ClassName() == "Array" {
		length := obj.Get("length").ToInteger()
		if length > maxExportLength {
			return "Array(" + strconv.FormatInt(length, 10) + ")"
		}
		out := make([]any, length)
		for i := int64(0); i < length; i++ {
			out[i] = r.export(obj.Get(strconv.FormatInt(i, 10)), active)
		}
		return out
	}

	keys := obj.Keys()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		out[k] = r.export(obj.Get(k), active)
	}
	return out
}
