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
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeBadRequest   ErrorType = "BAD_REQUEST"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"

	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"

	ErrCodeAlreadyDisabled ErrorCode = "ALREADY_DISABLED"
	ErrCodeAlreadyEnabled  ErrorCode = "ALREADY_ENABLED"
	ErrCodeSelfTarget      ErrorCode = "SELF_TARGET_NOT_ALLOWED"

	ErrCodeRoleNotFound      ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRoleExists        ErrorCode = "ROLE_ALREADY_EXISTS"
	ErrCodeRoleInUse         ErrorCode = "ROLE_IN_USE"
	ErrCodeRoleInactive      ErrorCode = "ROLE_INACTIVE"
	ErrCodeUnsupportedRole   ErrorCode = "UNSUPPORTED_ROLE"
	ErrCodePermissionMissing ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodePermissionExists  ErrorCode = "PERMISSION_ALREADY_EXISTS"

	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailExists       ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrCodeWrongPassword     ErrorCode = "WRONG_PASSWORD"
	ErrCodeDepartmentMissing ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentExists  ErrorCode = "DEPARTMENT_ALREADY_EXISTS"
	ErrCodeCourseNotFound    ErrorCode = "COURSE_NOT_FOUND"
	ErrCodeCourseExists      ErrorCode = "COURSE_ALREADY_EXISTS"
	ErrCodeSubjectNotFound   ErrorCode = "SUBJECT_NOT_FOUND"
	ErrCodeReportNotFound    ErrorCode = "REPORT_NOT_FOUND"
	ErrCodeRequestNotFound   ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_REQUEST_STATUS"

	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrCodeStorageFailed    ErrorCode = "STORAGE_FAILED"
)

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
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying cause, so package-level sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches on error code so that copies made by WithCause/WithDetails
// still satisfy errors.Is against their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.StatusCode == t.StatusCode
}

type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationError is a 422 for request payloads that fail schema or field rules.
func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationFieldError(path, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{{Path: path, Message: message}},
		},
	}
}

// NewBadRequestError covers malformed input and invalid state transitions.
func NewBadRequestError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeBadRequest,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
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

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictError reports a uniqueness violation on path as a 422 with errors[].
func NewConflictError(path, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{{Path: path, Message: message}},
		},
	}
}

var (
	ErrUnauthenticated    = NewUnauthorizedError("Authentication required", ErrCodeUnauthenticated)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrForbidden          = NewForbiddenError("You do not have permission to access this resource", ErrCodeForbidden)
	ErrInvalidBody        = NewBadRequestError("Invalid request body", ErrCodeInvalidRequest)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	ErrorCode  ErrorCode         `json:"errorCode"`
	Message    string            `json:"message"`
	Errors     []ValidationError `json:"errors,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	resp := Response{
		StatusCode: e.StatusCode,
		Error:      http.StatusText(e.StatusCode),
		ErrorCode:  e.Code,
		Message:    e.Message,
	}
	if details, ok := e.Details.(ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	_, body := e.ToHTTPResponse()
	return json.Marshal(body)
}
