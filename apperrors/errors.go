package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError is an application error carrying the HTTP status it maps to.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation reports missing or malformed input fields.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports an absent resource or one not owned by the caller.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// InvalidState reports an illegal lifecycle transition.
func InvalidState(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Auth reports a missing or invalid credential.
func Auth(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}

// Respond writes err as the conventional JSON error shape. Errors that are
// not AppErrors are reported as a 500 without leaking the cause.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal("Server error", err)
	}
	c.JSON(appErr.Code, gin.H{"message": appErr.Message})
}
