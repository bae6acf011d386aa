package services

import (
	"errors"

	"github.com/aptihub/aptitude-service/internal/validator"
)

// ErrorCode classifies service failures; handlers map codes to HTTP status.
type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "validation"      // 400
	ErrCodeUnauthenticated ErrorCode = "unauthenticated" // 401
	ErrCodeForbidden       ErrorCode = "forbidden"       // 403
	ErrCodeNotFound        ErrorCode = "not_found"       // 404
	ErrCodeConflict        ErrorCode = "conflict"        // 409
	ErrCodeInternal        ErrorCode = "internal"        // 500
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeValidation, Message: message}
}

func NewAuthenticationError(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeUnauthenticated, Message: message}
}

func NewAuthorizationError(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeForbidden, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Code: ErrCodeConflict, Message: message}
}

// CodeOf extracts the error code for status mapping. Validation errors from
// the validator package classify as validation; everything unrecognized is
// internal.
func CodeOf(err error) ErrorCode {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrCodeValidation
	}
	return ErrCodeInternal
}

// MessageOf returns the client-facing message string for an error. Internal
// failures are collapsed to a generic message; the detail stays in logs.
func MessageOf(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Message
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs.First()
	}
	return "Server error"
}
