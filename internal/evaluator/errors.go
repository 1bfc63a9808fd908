package evaluator

import (
	"fmt"
	"strings"
)

// Kind classifies a run-level failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindCompilation Kind = "compilation"
	KindSafety      Kind = "safety"
	KindNoFunction  Kind = "no_function"
	KindNotCallable Kind = "not_callable"
	KindExecution   Kind = "execution"
	KindTimeout     Kind = "timeout"
	KindInternal    Kind = "internal"
)

// Error is a run-level failure. Its message is what the learner sees.
type Error struct {
	Kind     Kind
	Message  string
	Findings []SafetyFinding // Blocking findings for KindSafety
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func safetyError(blocking []SafetyFinding) *Error {
	var sb strings.Builder
	sb.WriteString("Code contains potentially unsafe patterns (safety check failed):")
	for _, f := range blocking {
		sb.WriteString("\n- ")
		sb.WriteString(f.Message)
	}
	return &Error{Kind: KindSafety, Message: sb.String(), Findings: blocking}
}
