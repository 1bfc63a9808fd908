package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/value"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const yamlProblem = `
id: add
title: Add
category: math
difficulty: easy
functionName: add
solution: "function add(a, b) { return a + b; }"
testCases:
  - input: [1, 2]
    expectedOutput: 3
  - input: [0.5, {"$js": "NaN"}]
    expectedOutput: {"$js": "NaN"}
    description: NaN propagates
`

const tomlProblem = `
id = "upper"
title = "Upper"
category = "strings"
functionName = "upper"
solution = "const upper = (s) => s.toUpperCase();"

[[testCases]]
input = "abc"
expectedOutput = "ABC"
`

const jsonProblems = `{
  "problems": [
    {"id": "first", "title": "First", "category": "arrays", "solution": "function first(xs) { return xs[0]; }",
     "testCases": [{"input": [[7, 8]], "expectedOutput": 7}]},
    {"id": "keys", "title": "Keys", "category": "arrays", "solution": "function keys(o) { return Object.keys(o).sort(); }",
     "testCases": [{"input": {"b": 1, "a": {"nested": true}}, "expectedOutput": ["a", "b"]}]}
  ]
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math/add.yaml", yamlProblem)
	writeFile(t, dir, "strings/upper.toml", tomlProblem)
	writeFile(t, dir, "arrays.json", jsonProblems)
	writeFile(t, dir, "README.md", "# not a problem")

	c, err := Load(context.Background(), dir, "")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	var ids []string
	for _, s := range c.List("") {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"first", "keys", "add", "upper"}, ids)
	assert.Len(t, c.List("ARRAYS"), 2)

	add, err := c.Get("add")
	require.NoError(t, err)
	require.Len(t, add.TestCases, 2)
	assert.Equal(t, []any{1.0, 2.0}, add.TestCases[0].Input)
	assert.Equal(t, 3.0, add.TestCases[0].ExpectedOutput)
	assert.True(t, value.IsNaN(add.TestCases[1].ExpectedOutput))
	assert.Equal(t, "NaN propagates", add.TestCases[1].Description)
	assert.Equal(t, filepath.Join(dir, "math/add.yaml"), add.Source)

	keys, err := c.Get("keys")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 1.0, "a": map[string]any{"nested": true}}, keys.TestCases[0].Input)

	_, err = c.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math/add.yaml", yamlProblem)
	writeFile(t, dir, "strings/upper.toml", tomlProblem)

	c, err := Load(context.Background(), dir, "math/**/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(context.Background(), dir, "[")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "duplicate ids",
			files: map[string]string{"a.yaml": yamlProblem, "b.yaml": yamlProblem},
			want:  `duplicate problem id "add"`,
		},
		{
			name:  "missing id",
			files: map[string]string{"a.yaml": "title: nothing\ntestCases:\n  - input: 1\n    expectedOutput: 1\n"},
			want:  "problem without id",
		},
		{
			name:  "no test cases",
			files: map[string]string{"a.toml": "id = \"x\"\n"},
			want:  `problem "x" has no test cases`,
		},
		{
			name:  "malformed json",
			files: map[string]string{"a.json": "{"},
			want:  "a.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}
			_, err := Load(context.Background(), dir, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math/add.yaml", yamlProblem)
	writeFile(t, dir, "strings/upper.toml", tomlProblem)
	writeFile(t, dir, "arrays.json", jsonProblems)

	c, err := Load(context.Background(), dir, "")
	require.NoError(t, err)

	results := c.Verify(context.Background(), evaluator.New(evaluator.DefaultConfig()))
	require.Len(t, results, 4)
	for _, v := range results {
		assert.True(t, v.Passed(), "%s: %s", v.Problem.ID, v.Report.Error)
	}
}

func TestBundledProblems(t *testing.T) {
	c, err := Load(context.Background(), filepath.Join("..", "..", "problems"), "")
	require.NoError(t, err)
	require.NotZero(t, c.Len())

	for _, v := range c.Verify(context.Background(), evaluator.New(evaluator.DefaultConfig())) {
		assert.True(t, v.Passed(), "%s: %s", v.Problem.ID, v.Report.Error)
	}
}

func TestLoadTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "list.json", `[{"input": [1, 2], "expectedOutput": 3}, {"input": 5, "expectedOutput": {"$js": "undefined"}}]`)
	writeFile(t, dir, "wrapped.yaml", "testCases:\n  - input: abc\n    expectedOutput: cba\n    description: reverses\n")
	writeFile(t, dir, "cases.toml", "[[testCases]]\ninput = [2, 3]\nexpectedOutput = 6\n")
	writeFile(t, dir, "empty.yaml", "testCases: []\n")
	writeFile(t, dir, "empty.json", `{"testCases": []}`)
	writeFile(t, dir, "bare.json", `[]`)
	writeFile(t, dir, "cases.txt", "1")

	cases, err := LoadTests(filepath.Join(dir, "list.json"))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, []any{1.0, 2.0}, cases[0].Input)
	assert.True(t, value.IsUndefined(cases[1].ExpectedOutput))

	cases, err = LoadTests(filepath.Join(dir, "wrapped.yaml"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "reverses", cases[0].Description)

	cases, err = LoadTests(filepath.Join(dir, "cases.toml"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, 6.0, cases[0].ExpectedOutput)

	for _, name := range []string{"empty.yaml", "empty.json", "bare.json"} {
		_, err = LoadTests(filepath.Join(dir, name))
		assert.ErrorContains(t, err, "no test cases", name)
	}

	_, err = LoadTests(filepath.Join(dir, "cases.txt"))
	assert.ErrorContains(t, err, "unsupported file format")
}
