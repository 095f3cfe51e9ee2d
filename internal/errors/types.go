// Package errors defines the error taxonomy of the query pipeline.
//
// Retrieval failures are always recovered locally by the callers and never
// carry a type of their own. Only two conditions may fail a whole request,
// and both get a distinct type so the boundary layer can map them to a
// specific user-facing status: a failed language-model synthesis call, and a
// live lookup against an unsupported hospital.
package errors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// SynthesisError marks a failed language-model completion. Fatal for the
// current request.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("AI analysis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// NewSynthesisError wraps err as a synthesis failure.
func NewSynthesisError(err error) *SynthesisError {
	return &SynthesisError{Err: err}
}

// IsSynthesis reports whether err is a synthesis failure.
func IsSynthesis(err error) bool {
	var se *SynthesisError
	return errors.As(err, &se)
}

// UnsupportedHospitalError marks a live-status lookup against a hospital the
// extractor cannot serve. Distinct from a transient scrape failure so callers
// can message "not supported" rather than "try again".
type UnsupportedHospitalError struct {
	Hospital string
}

func (e *UnsupportedHospitalError) Error() string {
	return fmt.Sprintf("live queue lookup not supported for hospital %q", e.Hospital)
}

// NewUnsupportedHospitalError reports an unhandled live-status target.
func NewUnsupportedHospitalError(hospital string) *UnsupportedHospitalError {
	return &UnsupportedHospitalError{Hospital: hospital}
}

// IsUnsupportedHospital reports whether err is an unsupported-target error.
func IsUnsupportedHospital(err error) bool {
	var ue *UnsupportedHospitalError
	return errors.As(err, &ue)
}

// ConfigError marks a missing or invalid configuration value. Fatal at
// startup for required dependencies.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

// NewConfigError reports an invalid configuration value.
func NewConfigError(key, reason string) *ConfigError {
	return &ConfigError{Key: key, Reason: reason}
}

// IsTransient reports whether an external-call error looks retryable:
// network trouble or a 429/5xx class HTTP status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if code := statusFromError(err); code > 0 {
		switch code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "connection reset", "timeout", "deadline exceeded", "broken pipe"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// HTTPStatusError carries the status code of a failed external call.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// NewHTTPStatusError wraps a non-2xx response.
func NewHTTPStatusError(code int, body string) *HTTPStatusError {
	return &HTTPStatusError{StatusCode: code, Body: body}
}

func statusFromError(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
