package refdata

import (
	"errors"
	"fmt"
)

// ErrorCode classifies why a table failed to load.
type ErrorCode string

const (
	// ErrorCodeNotFound is returned when no backing file exists for the table.
	// Not an exceptional condition: callers treat it as "table unavailable".
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeDecode is returned when the file content is not a well-formed
	// array of flat records.
	ErrorCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrorCodeIO is returned for any underlying storage access failure.
	ErrorCodeIO ErrorCode = "IO_ERROR"
)

// LoadError reports a failed load or decode attempt for one table.
// Failures are never cached: a subsequent request retries the source.
type LoadError struct {
	Table string
	Code  ErrorCode
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("table %q: %s: %v", e.Table, e.Code, e.Err)
	}
	return fmt.Sprintf("table %q: %s", e.Table, e.Code)
}

// Unwrap returns the underlying error if any.
func (e *LoadError) Unwrap() error { return e.Err }

// CodeOf extracts the ErrorCode from err, or "" if err is not a LoadError.
func CodeOf(err error) ErrorCode {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
