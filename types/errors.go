package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRetriesExhausted marks a transient upstream failure that survived the
// full retry budget. Check with errors.Is.
var ErrRetriesExhausted = errors.New("retries exhausted")

// ConfigError reports a required identifier or credential that is missing.
// It is raised before any network call and never retried.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// ServiceError is a failure reported by a remote service, carrying an
// HTTP-like status code that decides whether retrying can help.
type ServiceError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

// Transient reports whether the failure is retry-worthy. Server-side
// failures and rate limiting are; bad requests, auth and quota are not.
func (e *ServiceError) Transient() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsTransient reports whether err is a transient service failure.
func IsTransient(err error) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return false
}

// AlignmentError means an upstream response could not be normalized into
// exactly the expected number of items. It is always fatal for the call:
// a silently misaligned batch would attach vectors to the wrong chunks.
type AlignmentError struct {
	Want    int
	Got     int
	RawBody string
}

func (e *AlignmentError) Error() string {
	if e.RawBody == "" {
		return fmt.Sprintf("embedding response misaligned: want %d vectors, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("embedding response misaligned: want %d vectors, got %d: %s", e.Want, e.Got, TruncateString(e.RawBody, 256))
}

// OversizedDocumentError rejects a source document before any processing
// begins.
type OversizedDocumentError struct {
	Size  int64
	Limit int64
}

func (e *OversizedDocumentError) Error() string {
	return fmt.Sprintf("document too large: %d bytes exceeds limit of %d", e.Size, e.Limit)
}

// TruncateString shortens long strings for error messages and logs.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
