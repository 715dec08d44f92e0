// Package errors provides the structured error type shared by lockstep
// packages. Construction failures (an argument that is not iterable or not
// callable), registry lookups and input validation all surface as *AppError
// carrying a machine-readable code, an HTTP status for the inspect surface,
// and optional details such as the offending argument position.
//
// Failures raised by user callables are never wrapped in AppError; they are
// returned to the caller unchanged.
package errors
