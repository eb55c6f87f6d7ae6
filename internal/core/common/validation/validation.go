package validation

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/payroll-bridge/internal"
)

// DateLayout is the calendar date format exchanged with both upstream APIs.
const DateLayout = "2006-01-02"

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

// Field registers a field; the returned pointer is only valid until the next Field call.
func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeValidationFailed)
			}
		case int:
			if v == 0 {
				return errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || *v == "" {
				return errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int, code errors.ErrorCode) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok && v < min {
			return errors.NewValidationFieldError(name, fmt.Sprintf("%s must be at least %d", name, min), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxInt(max int, code errors.ErrorCode) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok && v > max {
			return errors.NewValidationFieldError(name, fmt.Sprintf("%s must not exceed %d", name, max), code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			message := fmt.Sprintf("%s must not exceed %d characters", name, max)
			return errors.NewValidationFieldError(name, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Date accepts an empty string or a YYYY-MM-DD date.
func (fv *FieldValidator) Date() *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if _, err := time.Parse(DateLayout, v); err != nil {
				message := fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name)
				return errors.NewValidationFieldError(name, message, errors.ErrCodeInvalidDate)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		message := fmt.Sprintf("%s must be one of %v", name, allowed)
		return errors.NewValidationFieldError(name, message, errors.ErrCodeValidationFailed)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ValidatePeriod checks both bounds are dates and that start is not after end.
func ValidatePeriod(startField, start, endField, end string) *errors.AppError {
	validator := NewValidator()
	validator.Field(startField, start).Date()
	validator.Field(endField, end).Date()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if start != "" && end != "" {
		s, _ := time.Parse(DateLayout, start)
		e, _ := time.Parse(DateLayout, end)
		if s.After(e) {
			return errors.NewValidationFieldError(startField,
				fmt.Sprintf("%s must not be after %s", startField, endField),
				errors.ErrCodeInvalidPeriod)
		}
	}
	return nil
}
