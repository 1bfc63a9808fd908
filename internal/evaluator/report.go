package evaluator

import (
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

// abort ends the run with a run-level error. Results are dropped.
func abort(report *Report, err *Error) {
	report.Results = []TestCaseResult{}
	report.AllPassed = false
	report.Stage = err.Kind
	report.Error = err.Message
}

// allPassed is true when there is at least one result and all passed.
func allPassed(results []TestCaseResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func timeoutMessage(d time.Duration) string {
	secs := d.Seconds()
	unit := "seconds"
	if secs == 1 {
		unit = "second"
	}
	return "Execution timed out after " + strconv.FormatFloat(secs, 'f', -1, 64) + " " + unit
}

// diagnostics collects the extra text shown next to results: console
// output, advisory warnings and notes about the environment.
type diagnostics struct {
	lines []string
	notes []string
}

func newDiagnostics() *diagnostics {
	return &diagnostics{}
}

func (d *diagnostics) add(line string) {
	d.lines = append(d.lines, line)
}

func (d *diagnostics) note(line string) {
	d.notes = append(d.notes, line)
}

func (d *diagnostics) console(entries []sandbox.LogEntry) {
	for _, entry := range entries {
		switch entry.Level {
		case "warn":
			d.add("Warning: " + entry.Message)
		case "error":
			d.add("Error: " + entry.Message)
		default:
			d.add(entry.Message)
		}
	}
}

func (d *diagnostics) warnings(findings []SafetyFinding) {
	for _, f := range findings {
		d.add("Safety warning: " + f.Message)
	}
}

// compose appends the collected text to head, one item per line.
func (d *diagnostics) compose(head string) string {
	parts := make([]string, 0, 1+len(d.notes)+len(d.lines))
	if head != "" {
		parts = append(parts, head)
	}
	parts = append(parts, d.notes...)
	parts = append(parts, d.lines...)
	return strings.Join(parts, "\n")
}
