package console

import (
	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/blog-admin-console/errs"
)

const fillAllFieldsMessage = "Please fill in all fields."

var validate = validator.New()

// Draft holds unsaved values for a post
type Draft struct {
	Image   string `json:"image" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (d Draft) IsZero() bool {
	return d == Draft{}
}

type credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func validateDraft(d Draft) error {
	if err := validate.Struct(d); err != nil {
		return errs.NewValidationError(fillAllFieldsMessage)
	}
	return nil
}

func validateCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return errs.NewMissingRequiredFieldError(fieldErrs[0].Field())
	}
	return errs.NewValidationError(err.Error())
}
