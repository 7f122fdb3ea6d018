package models

import (
	"errors"
	"fmt"
)

// Outcome codes for AppError. Service calls produce exactly one of these
// besides success; the HTTP layer maps them onto status codes.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeBadCredentials        = "BAD_CREDENTIALS"
	CodeNotActive             = "NOT_ACTIVE"
	CodeNotApproved           = "NOT_APPROVED"
	CodeRegistrationsDisabled = "REGISTRATIONS_DISABLED"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeStorageFailure        = "STORAGE_FAILURE"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Fields maps field names to validation messages, set for VALIDATION_FAILED.
	Fields map[string][]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is, or wraps, an *AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Predefined error constructors

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidationFailed, Message: message}
}

// NewFieldValidationError builds a VALIDATION_FAILED error carrying
// per-field messages.
func NewFieldValidationError(fields map[string][]string) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}
}

func NewBadCredentialsError() *AppError {
	return &AppError{Code: CodeBadCredentials, Message: "invalid email or password"}
}

func NewNotActiveError() *AppError {
	return &AppError{Code: CodeNotActive, Message: "account is not active"}
}

func NewNotApprovedError() *AppError {
	return &AppError{Code: CodeNotApproved, Message: "account is awaiting approval"}
}

func NewRegistrationsDisabledError() *AppError {
	return &AppError{Code: CodeRegistrationsDisabled, Message: "registrations are currently disabled"}
}

func NewInvalidTokenError() *AppError {
	return &AppError{Code: CodeInvalidToken, Message: "token is invalid or expired"}
}

// NewStorageFailureError wraps an infrastructure error with the operation
// that hit it.
func NewStorageFailureError(op string, err error) *AppError {
	return &AppError{Code: CodeStorageFailure, Message: op + " failed", Err: err}
}
