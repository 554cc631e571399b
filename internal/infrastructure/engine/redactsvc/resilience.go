package redactsvc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/resilience"
)

// HTTPStatusError carries a non-200 engine response.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Detail     string
}

func (e *HTTPStatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: engine returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: engine returned status %d: %s", e.Operation, e.StatusCode, e.Detail)
}

// classifyEngineError decides whether a failed call is worth retrying.
// 404 and 4xx responses are final; 408, 429, 5xx and transport-level
// failures are transient.
func classifyEngineError(err error) resilience.Classification {
	if err == nil {
		return resilience.Classification{}
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return resilience.Classification{Retryable: true, RecordFailure: true}
		default:
			return resilience.Classification{Retryable: false, RecordFailure: false}
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Classification{Retryable: false, RecordFailure: false}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classification{Retryable: true, RecordFailure: true}
}

// wrapTemporaryIfNeeded maps transient failures onto the shared error
// taxonomy so callers can distinguish retriable outages from bad input.
func wrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil {
		return nil
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return domain.WrapError(domain.ErrDocumentNotFound, operation, err)
		case statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != http.StatusRequestTimeout &&
			statusErr.StatusCode != http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrInvalidInput, operation, err)
		default:
			return domain.WrapError(domain.ErrTemporary, operation, err)
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.WrapError(domain.ErrTemporary, operation, err)
}
