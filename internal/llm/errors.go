package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
)

// ErrNotConfigured is matched by every ConfigurationError via errors.Is.
var ErrNotConfigured = errors.New("language model client is not configured")

// ConfigurationError reports that a component needed a configured model and none was available.
type ConfigurationError struct {
	Component string // what required the model
	Pending   int    // items still awaiting evaluation, when known
}

func (e *ConfigurationError) Error() string {
	if e.Pending > 0 {
		return fmt.Sprintf("configuration error: %s requires a configured language model (%d still need evaluation)", e.Component, e.Pending)
	}
	return fmt.Sprintf("configuration error: %s requires a configured language model", e.Component)
}

// Is makes errors.Is(err, ErrNotConfigured) true for any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrNotConfigured
}

// APICallError represents a transport failure talking to the provider.
type APICallError struct {
	Operation string
	Model     string
	Cause     error
}

func (e *APICallError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("API call failed: %s (%s): %v", e.Operation, e.Model, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s: %v", e.Operation, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure is transient: a timeout, rate limit,
// server error, connectivity failure or an open circuit breaker.
func (e *APICallError) Retryable() bool {
	err := e.Cause
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == 429 || gErr.Code >= 500
	}
	var coded interface{ HTTPCode() int }
	if errors.As(err, &coded) && coded.HTTPCode() > 0 {
		code := coded.HTTPCode()
		return code == 429 || code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	for _, marker := range []string{"RESOURCE_EXHAUSTED", "UNAVAILABLE", "DEADLINE_EXCEEDED"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether err wraps a retryable APICallError.
func IsRetryable(err error) bool {
	var apiErr *APICallError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}
