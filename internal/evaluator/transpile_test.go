package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspile(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		contains   []string
		excludes   []string
		candidates []string
	}{
		{
			name:       "type annotations",
			source:     "function add(a: number, b: number): number { return a + b; }",
			excludes:   []string{": number"},
			candidates: []string{"add"},
		},
		{
			name:       "interfaces and aliases",
			source:     "interface P { x: number }\ntype Q = P | null;\nconst norm = (p: P): number => p.x;",
			excludes:   []string{"interface", "type Q"},
			candidates: []string{"norm"},
		},
		{
			name:       "enums keep runtime values",
			source:     "enum Dir { Up = 1, Down }\nenum Name { A = 'a' }\nfunction f() { return Dir.Down; }",
			contains:   []string{"Dir", `"a"`},
			candidates: []string{"f"},
		},
		{
			name:       "exports are stripped",
			source:     "export default function main() {}\nexport const helper = () => 1;\nexport { main as entry };",
			excludes:   []string{"export"},
			candidates: []string{"main", "helper"},
		},
		{
			name:       "anonymous default function is bound",
			source:     "export default function () { return 1 }\nfunction g() { return 2 }",
			excludes:   []string{"export"},
			contains:   []string{"var " + DefaultExportName + " = function"},
			candidates: []string{DefaultExportName, "g"},
		},
		{
			name:       "default arrow is bound",
			source:     "export default (a: number) => a * 2;",
			excludes:   []string{"export"},
			candidates: []string{DefaultExportName},
		},
		{
			name:       "default anonymous class is bound",
			source:     "export default class extends Array {}\nfunction h() { return 3 }",
			excludes:   []string{"export"},
			contains:   []string{"var " + DefaultExportName + " = class extends Array"},
			candidates: []string{"h"},
		},
		{
			name:       "generics",
			source:     "function first<T>(xs: T[]): T | undefined { return xs[0]; }",
			excludes:   []string{"<T>"},
			candidates: []string{"first"},
		},
		{
			name:       "async generators are lowered",
			source:     "async function* ticks() { yield 1; }\nasync function consume() { for await (const t of ticks()) { return t; } }",
			excludes:   []string{"async function*", "for await"},
			candidates: []string{"ticks", "consume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, err := Transpile(tt.source)
			require.Nil(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, code, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, code, s)
			}
			assert.Equal(t, tt.candidates, Candidates(code))
		})
	}
}

func TestTranspileErrors(t *testing.T) {
	_, _, err := Transpile("const = 5;")
	require.NotNil(t, err)
	assert.Equal(t, KindCompilation, err.Kind)
	assert.Contains(t, err.Message, "Compilation error:")
	assert.Contains(t, err.Message, "line 1")

	_, _, err = Transpile("import { readFile } from 'fs';\nexport function f() { return readFile; }")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "import statements are not supported")
}

func TestTranspileDropsTypeOnlyImports(t *testing.T) {
	code, _, err := Transpile("import { Thing } from './types';\nfunction f(t: Thing) { return t; }")
	require.Nil(t, err)
	assert.NotContains(t, code, "import")
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate("function f() {}", 100))

	err := Validate("  \n ", 100)
	require.NotNil(t, err)
	assert.Equal(t, "No code provided", err.Message)

	err = Validate("function f() {}", 10)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "Code is too large (15 bytes). Maximum allowed size is 10 bytes.", err.Message)
}
