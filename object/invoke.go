package object

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/kbukum/lockstep/errors"
)

// Invocable is implemented by values that can be called with an ordered
// argument list. Returning an error matching ErrStop ends the enclosing
// iteration instead of failing it.
type Invocable interface {
	Call(ctx context.Context, args []Value) (Value, error)
}

// Func adapts an ordinary function into an Invocable.
type Func func(ctx context.Context, args []Value) (Value, error)

// Call invokes f.
func (f Func) Call(ctx context.Context, args []Value) (Value, error) {
	return f(ctx, args)
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// AsInvocable adapts v into an Invocable.
//
// Besides Invocable and Func, any Go function is accepted. Reflected
// functions may take a leading context.Context, may be variadic, and may
// return (), (T), (error) or (T, error).
func AsInvocable(v Value) (Invocable, error) {
	switch fn := v.(type) {
	case nil:
		return nil, errors.NotCallable(TypeName(v))
	case Invocable:
		return fn, nil
	case func(context.Context, []Value) (Value, error):
		return Func(fn), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errors.NotCallable(TypeName(v))
	}
	ft := rv.Type()
	if ft.NumOut() > 2 || (ft.NumOut() == 2 && ft.Out(1) != errorType) {
		return nil, errors.NotCallable(TypeName(v))
	}
	return &reflectFunc{fn: rv, takesCtx: ft.NumIn() > 0 && ft.In(0) == contextType}, nil
}

// Invoke adapts v and calls it with args.
func Invoke(ctx context.Context, v Value, args []Value) (Value, error) {
	fn, err := AsInvocable(v)
	if err != nil {
		return nil, err
	}
	return fn.Call(ctx, args)
}

type reflectFunc struct {
	fn       reflect.Value
	takesCtx bool
}

func (f *reflectFunc) Call(ctx context.Context, args []Value) (Value, error) {
	in, err := f.bind(ctx, args)
	if err != nil {
		return nil, err
	}
	return unpackResults(f.fn.Call(in))
}

func (f *reflectFunc) bind(ctx context.Context, args []Value) ([]reflect.Value, error) {
	ft := f.fn.Type()
	offset := 0
	in := make([]reflect.Value, 0, len(args)+1)
	if f.takesCtx {
		in = append(in, reflect.ValueOf(&ctx).Elem())
		offset = 1
	}

	fixed := ft.NumIn() - offset
	if ft.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!ft.IsVariadic() && len(args) > fixed) {
		return nil, errors.InvalidInput("args", fmt.Sprintf("%s takes %d arguments (%d given)", ft, fixed, len(args)))
	}

	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i + offset)
		} else {
			pt = ft.In(ft.NumIn() - 1).Elem()
		}
		av, err := convertArg(arg, pt)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("args[%d]", i), err.Error())
		}
		in = append(in, av)
	}
	return in, nil
}

func convertArg(arg Value, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", pt)
	}
	av := reflect.ValueOf(arg)
	switch {
	case av.Type().AssignableTo(pt):
		return av, nil
	case isNumeric(av.Kind()) && isNumeric(pt.Kind()):
		if out, ok := convertNumber(av, pt); ok {
			return out, nil
		}
		return reflect.Value{}, fmt.Errorf("%v does not fit %s", arg, pt)
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", av.Type(), pt)
}

const (
	two63 = 1 << 63
	two64 = 1 << 64
)

// convertNumber converts av to pt only when the value survives unchanged.
// Floats convert to integers only when whole; integers convert to floats
// only when exactly representable; floats narrow to float32 when in range.
func convertNumber(av reflect.Value, pt reflect.Type) (reflect.Value, bool) {
	out := reflect.New(pt).Elem()
	switch {
	case isInt(pt.Kind()):
		n, ok := toInt64(av)
		if !ok || out.OverflowInt(n) {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case isUint(pt.Kind()):
		n, ok := toUint64(av)
		if !ok || out.OverflowUint(n) {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	default:
		f, ok := toFloat64(av)
		if !ok || out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
		if !isFloat(av.Kind()) && out.Float() != f {
			return reflect.Value{}, false
		}
	}
	return out, true
}

func toInt64(v reflect.Value) (int64, bool) {
	switch {
	case isInt(v.Kind()):
		return v.Int(), true
	case isUint(v.Kind()):
		u := v.Uint()
		return int64(u), u <= math.MaxInt64
	default:
		f := v.Float()
		if f != math.Trunc(f) || f < -two63 || f >= two63 {
			return 0, false
		}
		return int64(f), true
	}
}

func toUint64(v reflect.Value) (uint64, bool) {
	switch {
	case isInt(v.Kind()):
		n := v.Int()
		return uint64(n), n >= 0
	case isUint(v.Kind()):
		return v.Uint(), true
	default:
		f := v.Float()
		if f != math.Trunc(f) || f < 0 || f >= two64 {
			return 0, false
		}
		return uint64(f), true
	}
}

func toFloat64(v reflect.Value) (float64, bool) {
	switch {
	case isInt(v.Kind()):
		n := v.Int()
		f := float64(n)
		return f, f < two63 && int64(f) == n
	case isUint(v.Kind()):
		u := v.Uint()
		f := float64(u)
		return f, f < two64 && uint64(f) == u
	default:
		return v.Float(), true
	}
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func unpackResults(out []reflect.Value) (Value, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
