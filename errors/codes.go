package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration and lifecycle errors
const (
	// ErrCodeInvalidConfiguration indicates construction-time options are invalid.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	// ErrCodeEngineClosed indicates an operation was attempted on an inactive engine.
	ErrCodeEngineClosed ErrorCode = "ENGINE_CLOSED"
	// ErrCodeWorkerFailure indicates a worker hook returned an error.
	ErrCodeWorkerFailure ErrorCode = "WORKER_FAILURE"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeUnsupported indicates the handler does not support the operation.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

// I/O errors
const (
	// ErrCodeDownloadFailed indicates a remote resource could not be fetched.
	ErrCodeDownloadFailed ErrorCode = "DOWNLOAD_FAILED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDownloadFailed: true,
	ErrCodeTimeout:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
