package sandbox

import (
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/codejudge/internal/value"
)

// makeConsoleFunc creates a console function
func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = renderArg(r.exportValue(arg))
		}
		r.record(level, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

// record appends a console entry, counting entries past the configured limit.
func (r *Runtime) record(level, msg string) {
	r.consoleMu.Lock()
	defer r.consoleMu.Unlock()

	if limit := r.config.MaxConsoleEntries; limit > 0 && len(r.console) >= limit {
		r.dropped++
		return
	}

	r.console = append(r.console, LogEntry{
		Level:   level,
		Message: msg,
		Time:    time.Now(),
	})
}

// renderArg prints strings as-is and everything else as a structural dump.
func renderArg(v any) string {
	return value.String(v)
}
