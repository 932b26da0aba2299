package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	errors "github.com/frahmantamala/training-management/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]*FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case *int64:
			missing = v == nil
		case []int64:
			missing = len(v) == 0
		case nil:
			missing = true
		}
		if missing {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && len([]rune(v)) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && len([]rune(v)) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		if addr, err := mail.ParseAddress(v); err != nil || addr.Address != v {
			return fv.fail(fmt.Sprintf("%s must be a valid email address", fv.FieldName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %s", fv.FieldName, strings.Join(allowed, ", ")))
	})
	return fv
}

func (fv *FieldValidator) Prefix(prefix string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" && !strings.HasPrefix(v, prefix) {
			return fv.fail(fmt.Sprintf("%s must start with %q", fv.FieldName, prefix))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Positive() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case int64:
			if v < 0 {
				return fv.fail(fmt.Sprintf("%s must be positive", fv.FieldName))
			}
		case *int64:
			if v != nil && *v <= 0 {
				return fv.fail(fmt.Sprintf("%s must be positive", fv.FieldName))
			}
		case []int64:
			for _, id := range v {
				if id <= 0 {
					return fv.fail(fmt.Sprintf("%s must contain positive ids", fv.FieldName))
				}
			}
		}
		return nil
	})
	return fv
}

// NotBefore checks a *time.Time against another optional bound.
func (fv *FieldValidator) NotBefore(bound *time.Time, boundName string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(*time.Time)
		if !ok || v == nil || bound == nil {
			return nil
		}
		if v.Before(*bound) {
			return fv.fail(fmt.Sprintf("%s cannot be before %s", fv.FieldName, boundName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field rule and folds failures into one 422 error.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{Path: field.FieldName, Message: err.Message})
			}
			// first failure per field is enough
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

// NonNegative accepts a nil *int and rejects values below zero.
func (fv *FieldValidator) NonNegative() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(*int); ok && v != nil && *v < 0 {
			return fv.fail(fmt.Sprintf("%s must not be negative", fv.FieldName))
		}
		return nil
	})
	return fv
}
