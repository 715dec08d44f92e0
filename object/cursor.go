package object

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"reflect"
	"sort"
	"unicode/utf8"

	"github.com/kbukum/lockstep/errors"
)

// Cursor provides pull-based sequential access to the values of an iterable.
// Structurally compatible with pipeline.Iterator[any].
type Cursor interface {
	// Next returns the next value. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (Value, bool, error)
	// Close releases any resources held by the cursor.
	Close() error
}

// Iterable is implemented by values that can produce a fresh cursor.
type Iterable interface {
	Iter(ctx context.Context) (Cursor, error)
}

// GetIterator adapts v into a Cursor. Values that already are cursors are
// returned as-is, so a cursor's iterator is itself.
//
// The returned error is an *errors.AppError with code NOT_ITERABLE when v has
// no iteration capability. Errors from an Iterable's own Iter method are
// returned unchanged.
func GetIterator(ctx context.Context, v Value) (Cursor, error) {
	switch src := v.(type) {
	case nil:
		return nil, notIterable(v)
	case Cursor:
		return src, nil
	case Iterable:
		return src.Iter(ctx)
	case iter.Seq[Value]:
		return newSeqCursor(src), nil
	case func(yield func(Value) bool):
		return newSeqCursor(src), nil
	case string:
		return &runeCursor{s: src}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &indexCursor{v: rv}, nil
	case reflect.Map:
		return newKeyCursor(rv), nil
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, notIterable(v)
		}
		return &chanCursor{ch: rv}, nil
	case reflect.Func:
		if seq, ok := reflectSeq(rv); ok {
			return newSeqCursor(seq), nil
		}
	}
	return nil, notIterable(v)
}

func notIterable(v Value) *errors.AppError {
	name := TypeName(v)
	return errors.New(errors.ErrCodeNotIterable, fmt.Sprintf("'%s' object is not iterable", name), http.StatusBadRequest).
		WithDetail("type", name)
}

// --- Cursor implementations ---

type indexCursor struct {
	v     reflect.Value
	index int
}

func (c *indexCursor) Next(_ context.Context) (Value, bool, error) {
	if c.index >= c.v.Len() {
		return nil, false, nil
	}
	val := c.v.Index(c.index).Interface()
	c.index++
	return val, true, nil
}

func (c *indexCursor) Close() error { return nil }

// runeCursor yields the runes of a string as one-character strings.
type runeCursor struct {
	s   string
	pos int
}

func (c *runeCursor) Next(_ context.Context) (Value, bool, error) {
	if c.pos >= len(c.s) {
		return nil, false, nil
	}
	_, size := utf8.DecodeRuneInString(c.s[c.pos:])
	val := c.s[c.pos : c.pos+size]
	c.pos += size
	return val, true, nil
}

func (c *runeCursor) Close() error { return nil }

// newKeyCursor snapshots the keys of a map, ordered by their printed form.
func newKeyCursor(m reflect.Value) *indexCursor {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = k.Interface()
	}
	return &indexCursor{v: reflect.ValueOf(out)}
}

type chanCursor struct {
	ch reflect.Value
}

func (c *chanCursor) Next(ctx context.Context) (Value, bool, error) {
	chosen, recv, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: c.ch},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
	})
	if chosen == 1 {
		return nil, false, ctx.Err()
	}
	if !ok {
		return nil, false, nil
	}
	return recv.Interface(), true, nil
}

func (c *chanCursor) Close() error { return nil }

type seqCursor struct {
	next func() (Value, bool)
	stop func()
}

func newSeqCursor(seq iter.Seq[Value]) *seqCursor {
	next, stop := iter.Pull(seq)
	return &seqCursor{next: next, stop: stop}
}

func (c *seqCursor) Next(_ context.Context) (Value, bool, error) {
	v, ok := c.next()
	return v, ok, nil
}

func (c *seqCursor) Close() error {
	c.stop()
	return nil
}

// reflectSeq adapts a typed iter.Seq[T] (func(func(T) bool)) into an
// iter.Seq[Value].
func reflectSeq(fn reflect.Value) (iter.Seq[Value], bool) {
	ft := fn.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 0 {
		return nil, false
	}
	yt := ft.In(0)
	if yt.Kind() != reflect.Func || yt.NumIn() != 1 || yt.NumOut() != 1 || yt.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return func(yield func(Value) bool) {
		y := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(yield(args[0].Interface()))}
		})
		fn.Call([]reflect.Value{y})
	}, true
}
