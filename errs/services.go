package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Third-Party Service Errors
var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrTimeout           = errors.New("timeout")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// NewServiceError wraps a failure reported by an external service. message is
// the service's own text and becomes the whole error string.
func NewServiceError(service string, statusCode int, message string, cause error) *ApiErr {
	if message == "" {
		message = fmt.Sprintf("%s request failed", service)
	}
	if statusCode < 400 {
		statusCode = http.StatusBadGateway
	}
	return &ApiErr{
		StatusCode: statusCode,
		Kind:       KindService,
		err:        errors.New(message),
		Field:      service,
		Cause:      cause,
	}
}

// NewUnexpectedError wraps anything not anticipated by the calling operation.
// A deadline is reported as a gateway timeout wrapping ErrTimeout.
func NewUnexpectedError(service string, cause error) *ApiErr {
	if errors.Is(cause, context.DeadlineExceeded) {
		return &ApiErr{
			StatusCode: http.StatusGatewayTimeout,
			Kind:       KindUnexpected,
			err:        fmt.Errorf("%w: %s", ErrTimeout, cause.Error()),
			Field:      service,
			Cause:      cause,
		}
	}

	message := "unexpected error"
	if cause != nil {
		message = cause.Error()
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnexpected,
		err:        errors.New(message),
		Field:      service,
		Cause:      cause,
	}
}

// NewMalformedResponseError is returned when a service reply does not have the expected shape
func NewMalformedResponseError(service string, cause error) *ApiErr {
	details := fmt.Sprintf("%s returned a response that could not be parsed", service)
	if cause != nil {
		details = fmt.Sprintf("%s: %v", details, cause)
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		Kind:       KindUnexpected,
		err:        ErrMalformedResponse,
		Details:    details,
		Field:      service,
		Cause:      cause,
	}
}

// Configuration & Environment Error Constructors

// NewConfigError wraps ErrConfigInvalid when cause says a value was present
// but unusable, and ErrConfigMissing otherwise.
func NewConfigError(configName string, cause error) *ApiErr {
	sentinel := ErrConfigMissing
	if errors.Is(cause, ErrConfigInvalid) {
		sentinel = ErrConfigInvalid
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnexpected,
		err:        sentinel,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
