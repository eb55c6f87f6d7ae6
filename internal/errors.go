package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal      ErrorType = "EXTERNAL_ERROR"
	ErrorTypeConfiguration ErrorType = "CONFIGURATION_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"
	ErrCodeEmptyBatch       ErrorCode = "EMPTY_BATCH"

	ErrCodeCompanyNotFound  ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeEventNotFound    ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeNoUsableValue    ErrorCode = "NO_USABLE_VALUE"

	ErrCodeMissingToken   ErrorCode = "MISSING_TOKEN"
	ErrCodeMissingBaseURL ErrorCode = "MISSING_BASE_URL"
	ErrCodeUpstreamFailed ErrorCode = "UPSTREAM_FAILED"
	ErrCodeAuditDisabled  ErrorCode = "AUDIT_DISABLED"
)

// maxUpstreamBody caps how much of an upstream error body is echoed back.
const maxUpstreamBody = 500

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// UpstreamDetails is attached to EXTERNAL_ERROR responses.
type UpstreamDetails struct {
	Service string `json:"service"`
	Status  int    `json:"status"`
	Body    string `json:"body,omitempty"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewConfigurationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConfiguration,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewUpstreamError keeps the upstream status so callers see what the remote API answered.
func NewUpstreamError(service string, status int, body string) *AppError {
	statusCode := status
	if statusCode < 400 || statusCode > 599 {
		statusCode = http.StatusBadGateway
	}
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeUpstreamFailed,
		Message:    fmt.Sprintf("%s API returned status %d", service, status),
		StatusCode: statusCode,
		Details: UpstreamDetails{
			Service: service,
			Status:  status,
			Body:    Truncate(body, maxUpstreamBody),
		},
	}
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
