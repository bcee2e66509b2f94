package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Ingress errors
	ErrCodeMalformedMessage ErrorCode = "MALFORMED_MESSAGE"
	ErrCodeUnknownTool      ErrorCode = "UNKNOWN_TOOL"
	ErrCodeUnknownEvent     ErrorCode = "UNKNOWN_EVENT"

	// Daemon lifecycle errors
	ErrCodeAlreadyRunning    ErrorCode = "ALREADY_RUNNING"
	ErrCodeDaemonUnavailable ErrorCode = "DAEMON_UNAVAILABLE"

	// Collector and dispatcher errors
	ErrCodeSamplingFailed ErrorCode = "SAMPLING_FAILED"
	ErrCodeDispatchFailed ErrorCode = "DISPATCH_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// FocusError represents a structured error with context
type FocusError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *FocusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FocusError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *FocusError) WithDetail(key string, value interface{}) *FocusError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *FocusError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new FocusError
func New(code ErrorCode, message string) *FocusError {
	return &FocusError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a FocusError
func Wrap(err error, code ErrorCode, message string) *FocusError {
	return &FocusError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific FocusError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	focusErr, ok := err.(*FocusError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return focusErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	focusErr, ok := err.(*FocusError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return focusErr.Code
}
