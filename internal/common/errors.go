package common

import (
	"errors"
	"fmt"
)

// Error codes returned to API callers. Each failure category gets its own code.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeUpstream     = "UPSTREAM_ERROR"
	CodeParse        = "PARSE_ERROR"
	CodeStorage      = "STORAGE_ERROR"
	CodeConfig       = "CONFIG_ERROR"
	CodeInternal     = "INTERNAL"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
	ErrParse        = errors.New("parse failure")
	ErrDatabase     = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return NewAppError(CodeInvalidInput, message, ErrInvalidInput)
}

func Upstream(message string, cause error) *AppError {
	return NewAppError(CodeUpstream, message, errors.Join(ErrUpstream, cause))
}

func Parse(message string, cause error) *AppError {
	return NewAppError(CodeParse, message, errors.Join(ErrParse, cause))
}

func Storage(message string, cause error) *AppError {
	return NewAppError(CodeStorage, message, errors.Join(ErrDatabase, cause))
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message for err. Causes are never exposed.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
