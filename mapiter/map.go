package mapiter

import (
	"context"
	"fmt"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/object"
)

// Map applies a mapper to the lockstep values of its sources.
//
// The mapper is shared with the caller and only ever invoked. The sources
// are owned by the Map: their number and order are fixed by New, and Close
// releases them. A Map is single-pass and not safe for concurrent or
// reentrant use.
type Map struct {
	fn        object.Invocable
	mapperErr error
	sources   []object.Cursor
	closed    bool
}

// New builds a Map from a mapper and zero or more iterables.
//
// Iterables are adapted left to right with object.GetIterator. The first one
// with no iteration capability aborts construction with a NOT_ITERABLE
// *errors.AppError whose "position" detail is its zero-based index. An error
// raised by an Iterable's own Iter method is returned wrapped with its
// position, with its code and chain intact. Either way later iterables are
// never touched and cursors already obtained are closed.
//
// The mapper is not checked here. A value that cannot be invoked makes every
// step that gets past the sources fail with NOT_CALLABLE. With no iterables
// every step calls the mapper with no arguments.
func New(ctx context.Context, mapper object.Value, iterables ...object.Value) (*Map, error) {
	sources := make([]object.Cursor, 0, len(iterables))
	for i, iterable := range iterables {
		cursor, err := object.GetIterator(ctx, iterable)
		if err != nil {
			_ = closeAll(sources)
			return nil, constructionError(i, iterable, err)
		}
		sources = append(sources, cursor)
	}

	m := &Map{sources: sources}
	m.fn, m.mapperErr = object.AsInvocable(mapper)
	return m, nil
}

func constructionError(position int, iterable object.Value, cause error) error {
	if errors.HasCode(cause, errors.ErrCodeNotIterable) {
		return errors.NotIterable(position, object.TypeName(iterable))
	}
	return fmt.Errorf("map argument %d: %w", position, cause)
}

// Step advances every source once, in order, and applies the mapper.
//
// The first exhausted source ends the step without invoking the mapper.
// A mapper returning object.ErrStop also ends the step. Any other error is
// returned unchanged as a Failed result, as is the NOT_CALLABLE error of a
// mapper that cannot be invoked.
func (m *Map) Step(ctx context.Context) Result {
	args := make([]object.Value, len(m.sources))
	for i, src := range m.sources {
		v, ok, err := src.Next(ctx)
		if err != nil {
			if object.IsStop(err) {
				return ended()
			}
			return failed(err)
		}
		if !ok {
			return ended()
		}
		args[i] = v
	}

	if m.fn == nil {
		return failed(m.mapperErr)
	}
	out, err := m.fn.Call(ctx, args)
	if err != nil {
		if object.IsStop(err) {
			return ended()
		}
		return failed(err)
	}
	return produced(out)
}

// Next implements object.Cursor on top of Step.
func (m *Map) Next(ctx context.Context) (object.Value, bool, error) {
	r := m.Step(ctx)
	switch r.Kind {
	case Produced:
		return r.Value, true, nil
	case Failed:
		return nil, false, r.Err
	default:
		return nil, false, nil
	}
}

// Arity returns the number of sources.
func (m *Map) Arity() int { return len(m.sources) }

// Close releases the sources. It returns the first close error and is a
// no-op on subsequent calls.
func (m *Map) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return closeAll(m.sources)
}

func closeAll(cursors []object.Cursor) error {
	var firstErr error
	for _, c := range cursors {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
