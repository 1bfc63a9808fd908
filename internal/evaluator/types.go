package evaluator

import (
	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

// Severity of a safety finding.
type Severity string

const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
)

// TestCase is one input/expected pair. Input that is an array is spread as
// positional arguments; anything else is passed as the only argument.
type TestCase struct {
	Input          any    `json:"input"`
	ExpectedOutput any    `json:"expectedOutput"`
	Description    string `json:"description,omitempty"`
}

// Args returns the call arguments for the test case.
func (tc TestCase) Args() []any {
	if items, ok := tc.Input.([]any); ok {
		return items
	}
	return []any{tc.Input}
}

// SafetyFinding is a pattern matched by the safety scanner.
type SafetyFinding struct {
	Pattern  string   `json:"pattern"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Count    int      `json:"count,omitempty"`
}

// TestCaseResult is the outcome of running one test case. ActualOutput is
// only meaningful when Error is empty.
type TestCaseResult struct {
	Input          any
	ExpectedOutput any
	ActualOutput   any
	Passed         bool
	Error          string
	Description    string
	DurationMs     float64
}

// Report is the outcome of a whole evaluation. Error carries the abort
// reason when Stage is set, and otherwise any diagnostic text (console
// output, advisory warnings) worth showing next to the results.
type Report struct {
	ID         string             `json:"id"`
	AllPassed  bool               `json:"allPassed"`
	Results    []TestCaseResult   `json:"results"`
	Error      string             `json:"error,omitempty"`
	Function   string             `json:"function,omitempty"`
	Stage      Kind               `json:"stage,omitempty"`
	Console    []sandbox.LogEntry `json:"console,omitempty"`
	Warnings   []SafetyFinding    `json:"warnings,omitempty"`
	DurationMs float64            `json:"durationMs"`
}

// Aborted reports whether the run ended before every test case executed.
func (r *Report) Aborted() bool {
	return r.Stage != ""
}

// Passed counts passing results.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}
