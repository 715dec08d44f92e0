// Package object defines the host-side capabilities the lockstep builtins
// are written against: a Value, a pull-based Cursor, the Iterable
// capability that produces cursors, and the Invocable capability that
// calls a value with an ordered argument list.
//
// GetIterator adapts arbitrary Go values into cursors (slices, arrays,
// strings, maps, channels, iter.Seq functions, and anything implementing
// Cursor or Iterable). AsInvocable adapts Go functions into invocables,
// using reflection for functions that do not already take []Value.
//
// ErrStop is the exhaustion signal. A cursor normally reports exhaustion by
// returning ok == false, but any cursor or invocable may instead return an
// error matching ErrStop; consumers treat both the same way and never as a
// failure.
package object
