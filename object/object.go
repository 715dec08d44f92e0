package object

import (
	stderrors "errors"
	"reflect"
)

// Value is any host value.
type Value = any

// ErrStop signals that a sequence has no further values. It is a control
// signal, not a failure.
var ErrStop = stderrors.New("stop iteration")

// IsStop reports whether err is, or wraps, ErrStop.
func IsStop(err error) bool {
	return stderrors.Is(err, ErrStop)
}

// TypeName returns the name used for v in error messages.
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
