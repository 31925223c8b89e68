// internal/search/errors.go
package search

import (
	"errors"
	"fmt"
)

// ValidationError is a caller mistake detected before any backend access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RetrievalError means the record store could not be read. It is never
// converted into an empty result set.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("search retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the retrieval was cut off by the search deadline.
func (e *RetrievalError) Timeout() bool {
	return errors.Is(e.Err, errDeadline)
}

var errDeadline = errors.New("record store deadline exceeded")

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsRetrieval(err error) bool {
	var r *RetrievalError
	return errors.As(err, &r)
}
