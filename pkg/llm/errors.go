package llm

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// IOErrorKind classifies a failed call to a generation service.
type IOErrorKind string

const (
	// Timeout means the service did not answer within the adapter's deadline.
	Timeout IOErrorKind = "timeout"
	// RateLimited means the service refused the call because of quota or rate limits.
	RateLimited IOErrorKind = "rate_limited"
	// ServiceError covers every other transport or service failure.
	ServiceError IOErrorKind = "service_error"
)

// IOError is the only error type a Generator returns.
type IOError struct {
	Kind       IOErrorKind
	Provider   string
	StatusCode int
	Cause      error
}

func (e *IOError) Error() (msg string) {
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s generation failed (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Cause)
		return msg
	}
	msg = fmt.Sprintf("%s generation failed (%s): %v", e.Provider, e.Kind, e.Cause)
	return msg
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() (err error) {
	err = e.Cause
	return err
}

// Temporary reports whether retrying later may succeed. Retries are left to the caller.
func (e *IOError) Temporary() (temporary bool) {
	temporary = e.Kind == Timeout || e.Kind == RateLimited
	return temporary
}

// kindForStatus maps an HTTP status code to an IOErrorKind.
func kindForStatus(status int) (kind IOErrorKind) {
	switch status {
	case http.StatusTooManyRequests:
		kind = RateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = Timeout
	default:
		kind = ServiceError
	}
	return kind
}

// transportError classifies an error raised before any HTTP status was received.
func transportError(provider string, cause error) (err error) {
	kind := ServiceError

	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		kind = Timeout
	}

	err = &IOError{Kind: kind, Provider: provider, Cause: cause}
	return err
}
