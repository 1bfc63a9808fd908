package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/GriffinCanCode/codejudge/internal/api/http"
	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

const catalogFile = `problems:
  - id: triple
    title: Triple
    category: math
    functionName: triple
    solution: "const triple = (n) => n * 3;"
    testCases:
      - input: 2
        expectedOutput: 6
      - input: 0
        expectedOutput: 0
  - id: yell
    title: Yell
    category: strings
    functionName: yell
    solution: "function yell(s) { return s + '!'; }"
    testCases:
      - input: hey
        expectedOutput: hey!
`

type fixture struct {
	dir     string
	catalog string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "problems")
	require.NoError(t, os.MkdirAll(catalogDir, 0o755))
	f := fixture{dir: dir, catalog: catalogDir}
	f.write(t, "problems/all.yaml", catalogFile)
	return f
}

func (f fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWithTestsFile(t *testing.T) {
	f := newFixture(t)
	source := f.write(t, "sum.ts", "export function sum(a: number, b: number): number { return a + b }")
	tests := f.write(t, "tests.json", `[
		{"input": [1, 2], "expectedOutput": 3, "description": "small"},
		{"input": [-1, 1], "expectedOutput": 0}
	]`)

	out, err := execute(t, "run", source, "--tests", tests)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2/2 PASSED")
	assert.Contains(t, out, "small")
	assert.Contains(t, out, "function: sum")
}

func TestRunFailureExitsWithError(t *testing.T) {
	f := newFixture(t)
	source := f.write(t, "triple.js", "function triple(n) { return n * 2 }")

	out, err := execute(t, "run", source, "--problem", "triple", "--catalog", f.catalog)
	assert.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "1/2 PASSED")
	assert.Contains(t, out, "FAIL")
}

func TestRunJSON(t *testing.T) {
	f := newFixture(t)
	source := f.write(t, "yell.js", "const helper = 1; function yell(s) { return s.toUpperCase() + '!' }")

	out, err := execute(t, "run", source, "-p", "yell", "--catalog", f.catalog, "--json")
	assert.ErrorIs(t, err, ErrTestsFailed)

	var report evaluator.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "yell", report.Function)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "HEY!", report.Results[0].ActualOutput)
}

func TestRunArguments(t *testing.T) {
	f := newFixture(t)
	source := f.write(t, "x.js", "function x() {}")

	_, err := execute(t, "run", source)
	assert.ErrorContains(t, err, "exactly one of --problem or --tests")

	_, err = execute(t, "run", source, "--problem", "triple", "--tests", "t.json")
	assert.ErrorContains(t, err, "exactly one of --problem or --tests")

	_, err = execute(t, "run", filepath.Join(f.dir, "missing.js"), "--problem", "triple", "--catalog", f.catalog)
	assert.Error(t, err)

	_, err = execute(t, "run", source, "--problem", "nope", "--catalog", f.catalog)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRunRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	problems, err := catalog.Load(t.Context(), f.catalog, "")
	require.NoError(t, err)

	router := gin.New()
	apihttp.NewHandlers(evaluator.New(evaluator.DefaultConfig()), problems).Register(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	source := f.write(t, "triple.js", "function triple(n) { return n * 3 }")
	out, err := execute(t, "run", source, "--problem", "triple", "--server", srv.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2/2 PASSED")

	out, err = execute(t, "list", "--server", srv.URL, "--category", "strings")
	require.NoError(t, err)
	assert.Contains(t, out, "yell")
	assert.NotContains(t, out, "triple")
}

func TestVerify(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "verify", "--catalog", f.catalog)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 PASSED")

	f.write(t, "problems/broken.yaml", `id: broken
title: Broken
functionName: broken
solution: "function broken() { return 1 }"
testCases:
  - input: 0
    expectedOutput: 2
`)
	out, err = execute(t, "verify", "--catalog", f.catalog, "--json")
	assert.ErrorIs(t, err, ErrTestsFailed)

	var rows []verification
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, row.ID != "broken", row.Passed, row.ID)
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)

	out, err := execute(t, "list", "--catalog", f.catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "triple")
	assert.Contains(t, out, "yell")
	assert.Contains(t, out, "2 PROBLEMS")

	out, err = execute(t, "list", "--catalog", f.catalog, "-c", "math", "--json")
	require.NoError(t, err)
	var summaries []catalog.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "triple", summaries[0].ID)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "[ 1, 2 ]", cell([]any{1.0, 2.0}))
	long := cell(strings.Repeat("a", 100))
	assert.Len(t, []rune(long), maxCell)
	assert.True(t, strings.HasSuffix(long, "..."))
}
