package sandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned when the deadline watcher stopped the VM.
	ErrInterrupted = errors.New("execution interrupted")
	// ErrNeverSettled is returned when a returned promise stays pending and
	// no timer is left that could settle it.
	ErrNeverSettled = errors.New("returned promise never settled")
	// ErrNotCallable is returned by Lookup for bindings that are not functions.
	ErrNotCallable = errors.New("not a function")
	// ErrClosed is returned when a closed runtime is used.
	ErrClosed = errors.New("sandbox runtime is closed")
)

// ThrowError is a value thrown by learner code.
type ThrowError struct {
	Name    string // Error name when the thrown value is Error-like
	Message string
}

func (e *ThrowError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// RejectionError is a rejected promise returned by learner code.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "Promise rejected: " + e.Reason
}

// UnavailableError reports use of a browser-only global.
type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not available in this environment", e.Name)
}
