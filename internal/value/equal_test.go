package value

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepEqual(t *testing.T) {
	fn := &Function{Name: "f"}
	negZero := math.Copysign(0, -1)

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"NaN equals NaN", math.NaN(), math.NaN(), true},
		{"NaN differs from number", math.NaN(), 1.0, false},
		{"number differs from NaN", 1.0, math.NaN(), false},
		{"null differs from undefined", nil, Undefined, false},
		{"undefined differs from null", Undefined, nil, false},
		{"null equals null", nil, nil, true},
		{"undefined equals undefined", Undefined, Undefined, true},
		{"null differs from object", nil, map[string]any{}, false},
		{"zero differs from null", 0.0, nil, false},
		{"number differs from string", 1.0, "1", false},
		{"boolean differs from number", true, 1.0, false},
		{"negative zero equals zero", negZero, 0.0, true},
		{"strings", "abc", "abc", true},
		{"different strings", "abc", "abd", false},
		{"array differs from array-like object", []any{1.0, 2.0, 3.0}, map[string]any{"0": 1.0, "1": 2.0, "2": 3.0}, false},
		{"object differs from array", map[string]any{}, []any{}, false},
		{"key order ignored", map[string]any{"a": 1.0, "b": 2.0}, map[string]any{"b": 2.0, "a": 1.0}, true},
		{"extra key", map[string]any{"a": 1.0}, map[string]any{"a": 1.0, "b": 2.0}, false},
		{"same key count different keys", map[string]any{"a": 1.0}, map[string]any{"b": 1.0}, false},
		{"missing key vs undefined value", map[string]any{"a": Undefined}, map[string]any{"b": Undefined}, false},
		{"nested arrays", []any{[]any{1.0}, []any{2.0, 3.0}}, []any{[]any{1.0}, []any{2.0, 3.0}}, true},
		{"nested mismatch", []any{[]any{1.0}, []any{2.0, 3.0}}, []any{[]any{1.0}, []any{3.0, 2.0}}, false},
		{"different lengths", []any{1.0}, []any{1.0, 2.0}, false},
		{"NaN inside array", []any{math.NaN()}, []any{math.NaN()}, true},
		{"hole reads as undefined", []any{1.0, Undefined}, []any{1.0, Undefined}, true},
		{"same function", fn, fn, true},
		{"different functions", fn, &Function{Name: "f"}, false},
		{"bigints", big.NewInt(10), big.NewInt(10), true},
		{"bigint differs from number", big.NewInt(10), 10.0, false},
		{"circular markers", Circular{}, Circular{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeepEqual(tt.a, tt.b))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "object", TypeOf(nil))
	assert.Equal(t, "undefined", TypeOf(Undefined))
	assert.Equal(t, "number", TypeOf(math.NaN()))
	assert.Equal(t, "object", TypeOf([]any{}))
	assert.Equal(t, "function", TypeOf(&Function{}))
	assert.Equal(t, "bigint", TypeOf(big.NewInt(1)))
}
