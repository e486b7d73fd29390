package apperror

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks s against its `validate` tags and maps the first failure
// to an INVALID_INPUT error naming the JSON field.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ErrInvalidInput
	}
	e := errs[0]
	if e.Tag() == "required" {
		return RequiredField(e.Field())
	}
	return InvalidField(e.Field())
}
