package providers

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/gonyrida/sitedaily/internal/constants"
)

// ProviderError is the typed failure returned by the remote report store
// and document export clients.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrNotFound marks the expected "no report exists" outcome (HTTP 404).
// It is a normal empty result, not a failure: callers fall through to
// the next resolution step without logging an error.
var ErrNotFound = &ProviderError{
	Code:    constants.ErrCodeNotFound,
	Message: constants.GetErrorMessage(constants.ErrCodeNotFound),
}

// IsNotFound reports whether err represents the expected 404 outcome.
func IsNotFound(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code == constants.ErrCodeNotFound
	}
	return false
}

// IsTimeout reports whether err was caused by the request deadline.
func IsTimeout(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Code == constants.ErrCodeTimedOut {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// networkError wraps a transport-level failure, classifying timeouts
// separately so the caller can distinguish TimedOut from NetworkFailure.
func networkError(message string, err error) *ProviderError {
	code := constants.ErrCodeNetworkError
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		code = constants.ErrCodeTimedOut
	}
	return &ProviderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
