package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError описывает ошибку валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: field + " " + fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, the HTTP clients never see Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalidField(fe.Field(), "is required")
	case "gte":
		return invalidField(fe.Field(), "must be >= %s", fe.Param())
	case "gt":
		return invalidField(fe.Field(), "must be > %s", fe.Param())
	case "max":
		return invalidField(fe.Field(), "must be at most %s characters", fe.Param())
	case "oneof":
		return invalidField(fe.Field(), "must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return invalidField(fe.Field(), "must be a valid URL")
	default:
		return invalidField(fe.Field(), "failed on %s", fe.Tag())
	}
}

type money struct {
	field string
	value decimal.Decimal
}

func nonNegative(values ...money) error {
	for _, m := range values {
		if m.value.IsNegative() {
			return invalidField(m.field, "must be >= 0")
		}
	}
	return nil
}
