package panelsdk

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Messages used when the backend gives none.
const (
	MessageRequestFailed = "Request failed"
	MessageNetworkError  = "Network error"
)

var (
	// ErrUnauthorized matches any *APIError with status 401.
	ErrUnauthorized = errors.New("panelsdk: unauthorized")

	// ErrNetwork matches any *APIError with status 0: the request never got
	// a usable response.
	ErrNetwork = errors.New("panelsdk: network error")
)

// APIError is returned for every failed call. StatusCode is 0 when the
// request did not reach the server or its response could not be read.
type APIError struct {
	StatusCode int
	Message    string

	// Body is the raw response body, kept for diagnostics.
	Body []byte

	// Err is the underlying transport or decode error for status 0.
	Err error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is lets callers write errors.Is(err, ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNetwork:
		return e.StatusCode == 0
	}
	return false
}

func networkError(cause error) *APIError {
	return &APIError{StatusCode: 0, Message: MessageNetworkError, Err: cause}
}

// ValidationError lists per-field problems found before a request is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator is implemented by every request type.
type Validator interface {
	Validate() map[string]string
}

// Check runs v.Validate and wraps any problems in a *ValidationError.
func Check(v Validator) error {
	if fields := v.Validate(); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
