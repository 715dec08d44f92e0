// Package runner evaluates a builtin type by name over plain data.
//
// It is the shared engine behind "lockstep run" and POST /eval: the mapper is
// looked up in the catalog, the instance is constructed through the registry,
// every step goes through an instrumented cursor, and the drain is bounded so
// that a map with no iterables cannot run forever.
package runner
