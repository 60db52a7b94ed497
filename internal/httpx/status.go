// Package httpx holds small HTTP helpers shared by the auth and gateway
// clients.
package httpx

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 8 * 1024

// StatusError reports a non-success HTTP response. It carries the status code
// and the (truncated) response body so callers can log and abort with full
// context.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ErrorFromResponse builds a StatusError from a non-success response,
// consuming the body.
func ErrorFromResponse(op string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
