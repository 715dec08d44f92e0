package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors raised while binding a builtin's arguments.
const (
	// ErrCodeNotIterable indicates an argument does not support iteration.
	ErrCodeNotIterable ErrorCode = "NOT_ITERABLE"
	// ErrCodeNotCallable indicates an argument cannot be invoked.
	ErrCodeNotCallable ErrorCode = "NOT_CALLABLE"
)

// Registry errors
const (
	// ErrCodeTypeNotFound indicates no type is registered under the requested name.
	ErrCodeTypeNotFound ErrorCode = "TYPE_NOT_FOUND"
	// ErrCodeAlreadyExists indicates a type with the same name is already registered.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeUnsupportedSlot indicates the type does not implement the requested slot.
	ErrCodeUnsupportedSlot ErrorCode = "UNSUPPORTED_SLOT"
	// ErrCodeFunctionNotFound indicates no builtin function has the requested name.
	ErrCodeFunctionNotFound ErrorCode = "FUNCTION_NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeTimeout indicates the operation ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the caller exceeded the request rate.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeRateLimited: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
