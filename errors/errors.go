package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified library error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// InvalidConfiguration creates a new AppError for invalid construction options.
func InvalidConfiguration(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfiguration, Message: reason,
		Retryable: false,
	}
}

// EngineClosed creates a new AppError for an operation on an inactive engine.
func EngineClosed() *AppError {
	return &AppError{
		Code: ErrCodeEngineClosed, Message: "The engine is closed. Activate it before calling.",
		Retryable: false,
	}
}

// WorkerFailure creates a new AppError for a failed worker hook.
func WorkerFailure(role, device string, cause error) *AppError {
	details := map[string]any{"role": role}
	if device != "" {
		details["device"] = device
	}
	return &AppError{
		Code: ErrCodeWorkerFailure, Message: fmt.Sprintf("The %s worker failed.", role),
		Retryable: false, Details: details, Cause: cause,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, name string) *AppError {
	details := map[string]any{"resource": resource}
	if name != "" {
		details["name"] = name
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource, name string) *AppError {
	details := map[string]any{"resource": resource}
	if name != "" {
		details["name"] = name
	}
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with this name already exists.", resource),
		Retryable: false, Details: details,
	}
}

// Unsupported creates a new AppError for an operation a handler cannot perform.
func Unsupported(operation, handler string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupported, Message: fmt.Sprintf("Operation %s is not supported by %s.", operation, handler),
		Retryable: false,
		Details:   map[string]any{"operation": operation, "handler": handler},
	}
}

// DownloadFailed creates a new AppError for a failed remote fetch.
func DownloadFailed(url string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDownloadFailed, Message: "The remote resource could not be downloaded. Please try again.",
		Retryable: true,
		Details:   map[string]any{"url": url}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Inspection Helpers ---

// AsAppError extracts an *AppError from err's chain, or nil.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetCode returns the error code of err, or ErrCodeInternal for foreign errors.
func GetCode(err error) ErrorCode {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Retryable
	}
	return false
}
