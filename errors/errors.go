package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
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
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// HasCode reports whether err (or anything it wraps) is an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// --- Constructors ---

// NotIterable reports that the argument at position cannot produce a cursor.
// Position is zero-based and counts iterables only, not the callable.
func NotIterable(position int, typeName string) *AppError {
	return &AppError{
		Code: ErrCodeNotIterable, Message: fmt.Sprintf("'%s' object is not iterable", typeName),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"position": position, "type": typeName},
	}
}

// NotCallable reports that a value cannot be invoked.
func NotCallable(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeNotCallable, Message: fmt.Sprintf("'%s' object is not callable", typeName),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"type": typeName},
	}
}

// TypeNotFound creates a new AppError for an unknown type name.
func TypeNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeTypeNotFound, Message: fmt.Sprintf("type %q is not registered", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"type": name},
	}
}

// FunctionNotFound creates a new AppError for an unknown builtin function.
func FunctionNotFound(name string) *AppError {
	return &AppError{
		Code: ErrCodeFunctionNotFound, Message: fmt.Sprintf("function %q is not defined", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"function": name},
	}
}

// AlreadyExists creates a new AppError for a name that is already taken.
func AlreadyExists(resource, name string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s %q is already registered", resource, name),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource, "name": name},
	}
}

// UnsupportedSlot reports that a type has no implementation for slot.
func UnsupportedSlot(typeName, slot string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedSlot, Message: fmt.Sprintf("type %q does not support %s", typeName, slot),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"type": typeName, "slot": slot},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Timeout creates a new AppError for an operation that ran out of time.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for a rejected request over the rate limit.
func RateLimited(retryAfter time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"retry_after_ms": retryAfter.Milliseconds()},
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
