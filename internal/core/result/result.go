// Package result carries the outcome of a service operation. Expected
// failure modes (not found, forbidden, conflict, validation) travel as
// data instead of errors; only unclassified storage faults use the error
// return alongside a Result.
package result

import "net/http"

// Result pairs either success data or a failure message with an HTTP
// status classification. The transport layer maps Status onto the
// response code; core code never touches the response writer.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Status  int
}

// Ok wraps data in a successful result (200).
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data, Status: http.StatusOK}
}

// Fail builds a failed result with an explicit status classification.
func Fail[T any](message string, status int) Result[T] {
	return Result[T]{Message: message, Status: status}
}

// Invalid marks malformed input (400).
func Invalid[T any](message string) Result[T] {
	return Fail[T](message, http.StatusBadRequest)
}

// Forbidden marks insufficient privilege or ownership (403).
func Forbidden[T any](message string) Result[T] {
	return Fail[T](message, http.StatusForbidden)
}

// NotFound marks an absent target (404).
func NotFound[T any](message string) Result[T] {
	return Fail[T](message, http.StatusNotFound)
}

// Conflict marks a uniqueness violation (409).
func Conflict[T any](message string) Result[T] {
	return Fail[T](message, http.StatusConflict)
}
