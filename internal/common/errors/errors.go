// Package errors provides standardized error handling for the LOS bridge.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeWebhookNotConfigured     ErrorCode = "WEBHOOK_NOT_CONFIGURED"
	ErrCodeDeliveryFailed           ErrorCode = "LOS_DELIVERY_FAILED"
	ErrCodeApplicationNotFound      ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeApplicationLookupFailed  ErrorCode = "APPLICATION_LOOKUP_FAILED"
	ErrCodeProfileLookupFailed      ErrorCode = "PROFILE_LOOKUP_FAILED"
	ErrCodeStatusUpdateFailed       ErrorCode = "STATUS_UPDATE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeInvalidPushRequest       ErrorCode = "INVALID_PUSH_REQUEST"
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

// NewWebhookNotConfiguredError marks a push that was short-circuited because
// no LOS webhook URL is configured. Not retryable: retrying without a config
// change cannot succeed.
func NewWebhookNotConfiguredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookNotConfigured,
		Message:   "LOS webhook URL is not configured",
		Details:   "integration disabled, no delivery attempted",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates a retryable delivery error. The HTTP status
// code and response body are logged at the call site, not carried here.
func NewDeliveryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "LOS webhook delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Loan application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationLookupFailedError creates a retryable database error.
func NewApplicationLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationLookupFailed,
		Message:   "Database error while loading loan application",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusUpdateFailedError creates a retryable persistence error.
func NewStatusUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatusUpdateFailed,
		Message:   "Failed to persist push status",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPushRequestError creates a non-retryable queue envelope error.
func NewInvalidPushRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPushRequest,
		Message:   "Invalid push request envelope",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandardError unwraps err into a *StandardError when possible.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or UNKNOWN_ERROR for plain errors.
func CodeOf(err error) string {
	if stdErr, ok := AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

// IsRetryable reports whether the caller may reasonably retry the operation.
func IsRetryable(err error) bool {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Retryable
	}
	return false
}
