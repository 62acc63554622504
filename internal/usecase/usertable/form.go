package usertable

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"usertable/internal/i18n"
)

// EditForm holds the modal's editable fields.
type EditForm struct {
	FirstName string `form:"first_name" json:"first_name" validate:"required"`
	LastName  string `form:"last_name" json:"last_name" validate:"required"`
}

var requiredMessages = map[string]string{
	"first_name": i18n.FirstNameRequired,
	"last_name":  i18n.LastNameRequired,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// formatValidationError converts validator.ValidationErrors into inline
// messages keyed by form field.
func formatValidationError(err error, tr *i18n.Translator) FieldErrors {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			if key, ok := requiredMessages[e.Field()]; ok {
				out[e.Field()] = tr.T(key)
				continue
			}
			out[e.Field()] = e.Field() + " is required"
		default:
			out[e.Field()] = e.Field() + " is invalid"
		}
	}
	return out
}
