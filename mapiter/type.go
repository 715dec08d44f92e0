package mapiter

import (
	"context"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/object"
	"github.com/kbukum/lockstep/registry"
)

// TypeName is the name the map type is registered under.
const TypeName = "map"

// Doc describes the map type for introspection.
const Doc = "map(func, *iterables) --> map object\n\n" +
	"Make an iterator that computes the function using arguments from\n" +
	"each of the iterables.  Stops when the shortest iterable is exhausted."

// Iter returns m itself. Asking for the iterator of a Map never resets or
// duplicates its progress.
func (m *Map) Iter() *Map { return m }

// Register adds the map type to r.
func Register(r *registry.Registry) error {
	return r.Register(&registry.Type{
		Name: TypeName,
		Doc:  Doc,
		New:  newSlot,
		Next: nextSlot,
		Iter: iterSlot,
	})
}

func newSlot(ctx context.Context, args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return nil, errors.InvalidInput("func", "map() must have at least one argument")
	}
	m, err := New(ctx, args[0], args[1:]...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func nextSlot(ctx context.Context, self object.Value) (object.Value, bool, error) {
	m, err := receiver(self)
	if err != nil {
		return nil, false, err
	}
	return m.Next(ctx)
}

func iterSlot(_ context.Context, self object.Value) (object.Value, error) {
	m, err := receiver(self)
	if err != nil {
		return nil, err
	}
	return m.Iter(), nil
}

func receiver(self object.Value) (*Map, error) {
	m, ok := self.(*Map)
	if !ok {
		return nil, errors.InvalidInput("self", "descriptor requires a 'map' object but received '"+object.TypeName(self)+"'")
	}
	return m, nil
}
