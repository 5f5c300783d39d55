package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// fieldMessages renders a failed tag for a field, keyed by tag name.
var fieldMessages = map[string]func(field, param string) string{
	"required": func(f, _ string) string { return f + " is required" },
	"email":    func(f, _ string) string { return f + " must be a valid email" },
	"max":      func(f, p string) string { return f + " must be at most " + p + " characters" },
}

// RequestValidator adapts go-playground/validator to echo.Validator. Failures
// come back as domain validation errors naming the first offending field by
// its json name.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	msg := fe.Field() + " is invalid"
	if render, ok := fieldMessages[fe.Tag()]; ok {
		msg = render(fe.Field(), fe.Param())
	}
	return domain.NewError(domain.ErrValidation, msg)
}
