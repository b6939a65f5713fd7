package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var commonTags = []string{
	"json",
	"form",
	"param",
	"query",
	"header",
}

// NewValidate returns the validator shared by the HTTP layer and the use cases. Field errors are
// reported with the name the caller used on the wire rather than the Go field name.
func NewValidate() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return validate
}

// Validator adapts validator.Validate to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(validate *validator.Validate) *Validator {
	return &Validator{validate: validate}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
