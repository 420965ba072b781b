package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = &ApiErr{StatusCode: http.StatusUnauthorized, Kind: KindValidation, err: ErrUnauthorized}
)

// Request & Input-Validation Errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNoEditingTarget      = errors.New("no post selected for editing")
	ErrNoFileSelected       = errors.New("no file selected")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
)

// NewValidationError is the generic pre-flight rejection; message is shown as is
func NewValidationError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		err:        errors.New(message),
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewNotAuthenticatedError(action string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindValidation,
		err:        ErrNotAuthenticated,
		Details:    fmt.Sprintf("You must be signed in to %s", action),
		Field:      "session",
	}
}

func NewNoEditingTargetError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		err:        ErrNoEditingTarget,
		Field:      "editing_id",
	}
}

func NewNoFileSelectedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidation,
		err:        ErrNoFileSelected,
		Details:    "Please select an image to upload",
		Field:      "file",
	}
}

func NewUnsupportedMediaTypeError(contentType string, allowedTypes []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		Kind:       KindValidation,
		err:        ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported media type: %s. Allowed types: %v", contentType, allowedTypes),
		Field:      "content_type",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		Kind:       KindValidation,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsNotAuthenticatedError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}
