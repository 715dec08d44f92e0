// Package validation provides input validation for lockstep configuration,
// evaluation requests and CLI overrides.
//
// It supports struct tag validation (using go-playground/validator) and
// programmatic validation with error collection. Both report failures as a
// single *errors.AppError whose "fields" detail lists every FieldError.
//
// # Struct Tag Validation
//
//	type EvalRequest struct {
//	    Fn    string `json:"fn" validate:"required"`
//	    Limit int    `json:"limit" validate:"gte=0,lte=10000"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("inspect.host", cfg.Host).
//	    Range("inspect.port", cfg.Port, 0, 65535).
//	    Err()
package validation
