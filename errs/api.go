package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("resource conflict")
)

// Kind classifies a failure by where it came from
type Kind int

const (
	// KindUnexpected covers anything not anticipated: network failures,
	// malformed responses, cancelled contexts.
	KindUnexpected Kind = iota
	// KindValidation is raised before any external call is attempted.
	KindValidation
	// KindService means the called service itself reported the failure.
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service_error"
	default:
		return "unexpected"
	}
}

type ApiErr struct {
	StatusCode int
	Kind       Kind
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Common error constructors with appropriate HTTP status codes
func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Kind: KindValidation, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, Kind: KindUnexpected, err: errors.New(message)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnexpected,
		err:        errors.New(message),
		Cause:      cause,
	}
}

// KindOf reports the kind of err. Errors that are not *ApiErr are unexpected.
func KindOf(err error) Kind {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// Message returns the human readable text of err, suitable for showing to the user
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

func IsService(err error) bool {
	return err != nil && KindOf(err) == KindService
}
