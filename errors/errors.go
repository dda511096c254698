package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type returned by every request build operation.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
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

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
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

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidBaseURL reports a base URL that cannot be used to route requests.
func InvalidBaseURL(raw string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidBaseURL,
		Message: fmt.Sprintf("base URL %q is not a valid absolute URL", raw),
		Details: map[string]any{"base_url": raw},
		Cause:   cause,
	}
}

// MissingURL reports a query encoding attempted on a draft without a URL.
func MissingURL() *AppError {
	return &AppError{
		Code:    ErrCodeMissingURL,
		Message: "request has no URL to encode query parameters into",
	}
}

// EncodingFailed reports parameters that could not be serialized.
func EncodingFailed(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeEncodingFailed,
		Message: "parameters could not be encoded",
		Cause:   cause,
	}
}

// ParametersNil reports that parameters were required but none were supplied.
func ParametersNil() *AppError {
	return &AppError{
		Code:    ErrCodeParametersNil,
		Message: "parameters are required",
	}
}

// InvalidConfig reports a configuration value that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: message,
	}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// Is reports whether any AppError in err's chain carries code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
