package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/mapiter"
	"github.com/kbukum/lockstep/object"
	"github.com/kbukum/lockstep/registry"
)

// Entry is a named builtin function.
type Entry struct {
	Name string      `json:"name"`
	Doc  string      `json:"doc"`
	Fn   object.Func `json:"-"`
}

var entries = map[string]Entry{
	"add":        {Name: "add", Doc: "add(*numbers) -> sum of the arguments", Fn: Add},
	"sub":        {Name: "sub", Doc: "sub(first, *numbers) -> first minus the remaining arguments", Fn: Sub},
	"mul":        {Name: "mul", Doc: "mul(*numbers) -> product of the arguments", Fn: Mul},
	"max":        {Name: "max", Doc: "max(first, *values) -> largest argument", Fn: Max},
	"min":        {Name: "min", Doc: "min(first, *values) -> smallest argument", Fn: Min},
	"concat":     {Name: "concat", Doc: "concat(*values) -> string form of the arguments joined together", Fn: Concat},
	"tuple":      {Name: "tuple", Doc: "tuple(*values) -> list of the arguments", Fn: Tuple},
	"count":      {Name: "count", Doc: "count(*values) -> number of arguments", Fn: Count},
	"until_zero": {Name: "until_zero", Doc: "until_zero(first, *values) -> first, ending the iteration when first is zero", Fn: UntilZero},
}

// Lookup returns the function registered under name.
func Lookup(name string) (object.Func, error) {
	e, ok := entries[name]
	if !ok {
		return nil, errors.FunctionNotFound(name)
	}
	return e.Fn, nil
}

// Names returns the sorted function names.
func Names() []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns every function sorted by name.
func Entries() []Entry {
	names := Names()
	out := make([]Entry, len(names))
	for i, name := range names {
		out[i] = entries[name]
	}
	return out
}

// NewRegistry returns a registry holding every builtin type.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New()
	if err := mapiter.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Add returns the sum of args. With no arguments it returns 0.
func Add(_ context.Context, args []object.Value) (object.Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	return fold(nums, number{},
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b }).value(), nil
}

// Sub subtracts every following argument from the first.
func Sub(_ context.Context, args []object.Value) (object.Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.InvalidInput("args", "sub expected at least 1 argument, got 0")
	}
	return fold(nums[1:], nums[0],
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b }).value(), nil
}

// Mul returns the product of args. With no arguments it returns 1.
func Mul(_ context.Context, args []object.Value) (object.Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	return fold(nums, number{i: 1},
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b }).value(), nil
}

// Max returns the largest argument unchanged.
func Max(_ context.Context, args []object.Value) (object.Value, error) {
	return pick("max", args, func(a, b float64) bool { return b > a })
}

// Min returns the smallest argument unchanged.
func Min(_ context.Context, args []object.Value) (object.Value, error) {
	return pick("min", args, func(a, b float64) bool { return b < a })
}

// pick returns the first argument for which no later argument is better.
func pick(name string, args []object.Value, better func(cur, cand float64) bool) (object.Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, errors.InvalidInput("args", name+" expected at least 1 argument, got 0")
	}
	best := 0
	for i := 1; i < len(nums); i++ {
		if better(nums[best].float(), nums[i].float()) {
			best = i
		}
	}
	return args[best], nil
}

// Concat joins the string form of every argument.
func Concat(_ context.Context, args []object.Value) (object.Value, error) {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprint(&b, a)
	}
	return b.String(), nil
}

// Tuple returns a copy of args.
func Tuple(_ context.Context, args []object.Value) (object.Value, error) {
	out := make([]object.Value, len(args))
	copy(out, args)
	return out, nil
}

// Count returns the number of arguments.
func Count(_ context.Context, args []object.Value) (object.Value, error) {
	return int64(len(args)), nil
}

// UntilZero returns its first argument, or object.ErrStop when that argument
// is numerically zero or missing.
func UntilZero(_ context.Context, args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return nil, object.ErrStop
	}
	n, err := toNumber(0, args[0])
	if err != nil {
		return nil, err
	}
	if n.float() == 0 {
		return nil, object.ErrStop
	}
	return args[0], nil
}
