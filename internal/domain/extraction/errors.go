package extraction

import (
	"errors"
	"fmt"
)

// ErrorCode classifies extraction failures.
type ErrorCode string

const (
	ErrInvalidDocument     ErrorCode = "INVALID_DOCUMENT"
	ErrModelUnavailable    ErrorCode = "MODEL_UNAVAILABLE"
	ErrModelRateLimited    ErrorCode = "MODEL_RATE_LIMITED"
	ErrEmptyResponse       ErrorCode = "EMPTY_RESPONSE"
	ErrMalformedJSON       ErrorCode = "MALFORMED_JSON"
	ErrNoStrategy          ErrorCode = "NO_STRATEGY"
	ErrAllStrategiesFailed ErrorCode = "ALL_STRATEGIES_FAILED"
)

// Error is a structured error for extraction failures.
type Error struct {
	Code      ErrorCode
	Message   string
	Strategy  string // e.g. "ai_vision"
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// HasCode reports whether err, or any *Error it wraps, carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

func newError(code ErrorCode, strategy, message string, cause error) *Error {
	return &Error{Code: code, Strategy: strategy, Message: message, Cause: cause}
}
