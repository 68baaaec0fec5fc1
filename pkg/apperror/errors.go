package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error that knows its HTTP status.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Prompt is the question a client must confirm before retrying.
	Prompt string `json:"prompt,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches a sentinel by status and message, so copies that only add
// detail (prompt, field errors) still match.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Common errors
var (
	ErrNotFound             = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrConfirmationRequired = &AppError{Code: http.StatusPreconditionRequired, Message: "Confirmation required"}
	ErrExportInProgress     = &AppError{Code: http.StatusConflict, Message: "An export is already in progress"}
	ErrUnsupportedFormat    = &AppError{Code: http.StatusBadRequest, Message: "Unsupported export format"}
	ErrUnsupportedImage     = &AppError{Code: http.StatusBadRequest, Message: "Logo must be a PNG, JPEG or GIF image"}
	ErrTooManySessions      = &AppError{Code: http.StatusServiceUnavailable, Message: "Too many active sessions, try again later"}
	ErrLogoTooLarge         = &AppError{Code: http.StatusBadRequest, Message: "Logo must be at most 4096x4096 pixels"}
)

// ErrHistoryNotPersisted accompanies a history entry that was kept in
// memory but could not be written to storage.
var ErrHistoryNotPersisted = errors.New("history could not be saved to storage")

func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewUnknownFieldError rejects a field name the draft does not have.
func NewUnknownFieldError(field string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Unknown field: " + field,
		Errors:  []FieldError{{Field: field, Message: "not a receipt field"}},
	}
}

// NewConfirmationError asks the caller to confirm prompt and retry.
func NewConfirmationError(prompt string) *AppError {
	return &AppError{
		Code:    http.StatusPreconditionRequired,
		Message: "Confirmation required",
		Prompt:  prompt,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
