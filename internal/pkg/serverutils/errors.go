package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is the error type services return across the operation boundary.
// The error-handler middleware maps it onto the HTTP envelope.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *AppError {
	if message == "" {
		message = "resource not found"
	}
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

func NewValidationError(message string) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}
