// Package errors provides the standardized error taxonomy for the engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Surfaced to callers.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"

	// Recovered or swallowed internally.
	ErrCodeExtractionFailed       ErrorCode = "EXTRACTION_SERVICE_FAILED"
	ErrCodeSynthesisFailed        ErrorCode = "PROFILE_SYNTHESIS_FAILED"
	ErrCodeMatchingCandidate      ErrorCode = "MATCHING_CANDIDATE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCliperState            ErrorCode = "CLIPER_INVALID_STATE"
	ErrCodePersistenceFailed      ErrorCode = "PERSISTENCE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable bad-input error, surfaced to the caller.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable missing-entity error, surfaced to the caller.
func NewNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionError marks a failed external extraction call. The pipeline recovers
// via the fallback generator, so this never surfaces past it.
func NewExtractionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "profile extraction service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSynthesisError marks a profile merge failure; logged and swallowed by the pipeline.
func NewSynthesisError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSynthesisFailed,
		Message:   "ATS profile synthesis failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchingCandidateError marks a scoring failure for one candidate; the pool
// run logs it and continues.
func NewMatchingCandidateError(candidateID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchingCandidate,
		Message:   "scoring failed for candidate",
		Details:   fmt.Sprintf("candidateId: %s, error: %s", candidateID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationError marks a per-handler delivery failure; logged and swallowed.
func NewNotificationError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCliperStateError rejects an operation that is illegal in the Cliper's
// current status (e.g. retrying a DONE Cliper).
func NewCliperStateError(current, operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCliperState,
		Message:   fmt.Sprintf("cliper cannot be %s in its current status", operation),
		Details:   fmt.Sprintf("status: %s", current),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError wraps a storage failure.
func NewPersistenceError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "persistence operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func hasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsCliperState reports whether err is an illegal-state rejection.
func IsCliperState(err error) bool { return hasCode(err, ErrCodeCliperState) }
