// Package errors provides standardized error handling for the content pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transient / network class
	ErrCodeRegistryUnreachable ErrorCode = "REGISTRY_UNREACHABLE"
	ErrCodeSourceCheckFailed   ErrorCode = "SOURCE_CHECK_FAILED"
	ErrCodeStorageInsertFailed ErrorCode = "STORAGE_INSERT_FAILED"
	ErrCodeSearchIndexFailed   ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeNotificationFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeGenerationTimeout   ErrorCode = "GENERATION_TIMEOUT"

	// Malformed-response class: a generation call returned empty or
	// non-conforming JSON. Resolved to fallback values, never fatal.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// Fatal pipeline class: aborts one business's run.
	ErrCodeRecordNotFound   ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRegistryUnreachableError creates a retryable registry transport error.
func NewRegistryUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryUnreachable,
		Message:   "Business registry is unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(businessID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Business record not found in registry",
		Details:   fmt.Sprintf("businessId: %s", businessID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceCheckFailedError creates a retryable verification source error.
func NewSourceCheckFailedError(sourceID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceCheckFailed,
		Message:   "Verification source lookup failed",
		Details:   fmt.Sprintf("source: %s, error: %s", sourceID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable malformed generation
// response error. Callers resolve it with fallback values.
func NewMalformedResponseError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Generation service returned malformed content",
		Details:   fmt.Sprintf("stage: %s, error: %s", stage, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation service error.
func NewGenerationFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Content generation stage failed",
		Details:   fmt.Sprintf("stage: %s, error: %s", stage, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generation timeout error.
func NewGenerationTimeoutError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Content generation call timed out",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageInsertFailedError creates a retryable storage error.
func NewStorageInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageInsertFailed,
		Message:   "Content persistence failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable search indexing error.
func NewSearchIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Search index update failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Verification cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandard extracts a *StandardError from err's chain, if any.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsTransient reports whether err is a transient/network failure that a
// retry wrapper may reasonably re-attempt.
func IsTransient(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Retryable
	}
	return false
}

// IsMalformedResponse reports whether err marks an empty or non-conforming
// generation payload. These are resolved with fallbacks, never raised.
func IsMalformedResponse(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == ErrCodeMalformedResponse
}

// IsFatal reports whether err belongs to the fatal pipeline class: the only
// class allowed to abort an individual business's run.
func IsFatal(err error) bool {
	stdErr, ok := AsStandard(err)
	if !ok {
		return false
	}
	return stdErr.Code == ErrCodeRecordNotFound || stdErr.Code == ErrCodeGenerationFailed
}

// IsNotFound reports whether err marks a missing registry record.
func IsNotFound(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == ErrCodeRecordNotFound
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRegistryUnreachable,
		ErrCodeSourceCheckFailed,
		ErrCodeStorageInsertFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationFailed,
		ErrCodeGenerationFailed:
		return 3

	case ErrCodeGenerationTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0 // Not-found, malformed: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REGISTRY") || strings.Contains(codeStr, "SOURCE"):
		return "VERIFICATION"
	case strings.Contains(codeStr, "GENERATION") || strings.Contains(codeStr, "MALFORMED"):
		return "GENERATION"
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
