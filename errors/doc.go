// Package errors provides unified error handling for the runkit library.
// It implements structured error types with machine-readable error codes
// and retryable detection.
package errors
