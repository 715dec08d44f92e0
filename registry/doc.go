// Package registry is the host type registry builtins plug into.
//
// A Type bundles a name, a documentation string and up to three entry
// points: New constructs an instance from an argument list, Next advances an
// instance, and Iter returns an instance's iterator handle. The registry
// dispatches by type name and is safe for concurrent use; the instances it
// creates are not.
//
//	r := registry.New()
//	_ = mapiter.Register(r)
//	m, err := r.Construct(ctx, "map", add, xs, ys)
//	v, ok, err := r.Next(ctx, "map", m)
package registry
