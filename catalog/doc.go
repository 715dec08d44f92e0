// Package catalog holds the named builtin functions that can be used as the
// mapper of a map when the caller cannot pass a Go value, such as the CLI and
// the inspect server.
//
// Arithmetic functions accept any Go numeric value. When every operand is an
// integer the result is an int64, otherwise it is a float64.
package catalog
