package evaluator

import (
	"strings"
)

// Validate rejects empty and oversized submissions.
func Validate(source string, maxSize int) *Error {
	if strings.TrimSpace(source) == "" {
		return newError(KindValidation, nil, "No code provided")
	}
	if size := len(source); maxSize > 0 && size > maxSize {
		return newError(KindValidation, nil,
			"Code is too large (%d bytes). Maximum allowed size is %d bytes.", size, maxSize)
	}
	return nil
}
