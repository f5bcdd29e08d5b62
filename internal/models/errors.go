package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error kind codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewConflictError reports a unique-key violation (duplicate slug or username).
func NewConflictError(field string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("%s already exists", field),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsConflict reports whether err is a unique-key conflict AppError.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// IsValidation reports whether err is a validation AppError.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		// Internal detail stays out of client responses.
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithStoreError maps a repository error to the right HTTP status:
// not-found -> 404, conflict -> 400, anything else -> 500.
func RespondWithStoreError(c *fiber.Ctx, err error) error {
	switch {
	case IsNotFound(err):
		return RespondWithError(c, fiber.StatusNotFound, err)
	case IsConflict(err):
		return RespondWithError(c, fiber.StatusBadRequest, err)
	default:
		return RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}
