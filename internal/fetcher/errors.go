package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of a failed quote or exchange-rate lookup
type ErrorType string

const (
	// ErrorTypeTransport indicates the outbound fetch failed (connectivity, non-2xx status)
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeThrottled indicates the provider answered with a rate-limit notice
	ErrorTypeThrottled ErrorType = "throttled"
	// ErrorTypeInformational indicates the provider answered with an informational message instead of data
	ErrorTypeInformational ErrorType = "informational"
	// ErrorTypeProvider indicates the provider answered with an explicit error or an unreadable payload
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeNotFound indicates the provider had no data for a syntactically valid request
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInvalidInput indicates the caller supplied a blank symbol or currency code
	ErrorTypeInvalidInput ErrorType = "invalid_input"
)

// FetchError represents a classified failure from a lookup.
// Message carries the provider's own text verbatim for provider-signaled conditions.
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a transport error for a request that never produced a response
func NewTransportError(cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeTransport,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewStatusError creates a transport error for a non-2xx upstream status
func NewStatusError(statusCode int) *FetchError {
	retryable := statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusRequestTimeout ||
		statusCode >= 500

	return &FetchError{
		Type:       ErrorTypeTransport,
		Retryable:  retryable,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("upstream returned HTTP %d", statusCode),
	}
}

// NewThrottledError creates a throttled error carrying the provider notice
func NewThrottledError(message string) *FetchError {
	return &FetchError{
		Type:      ErrorTypeThrottled,
		Retryable: true,
		Message:   message,
	}
}

// NewInformationalError creates an error for a provider informational message
func NewInformationalError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeInformational,
		Message: message,
	}
}

// NewProviderError creates an error for an explicit provider error message
func NewProviderError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeProvider,
		Message: message,
	}
}

// NewMalformedResponseError creates a provider error for a payload that could not be parsed
func NewMalformedResponseError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeProvider,
		Message: "malformed response",
		Cause:   cause,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string) *FetchError {
	return &FetchError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
	}
}

// TypeOf returns the ErrorType of err, or "" if err is not a FetchError
func TypeOf(err error) ErrorType {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ""
}

// IsType reports whether err is a FetchError of type t
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
