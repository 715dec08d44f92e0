package catalog

import (
	"fmt"
	"math"
	"reflect"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/object"
)

// number is an operand normalized to int64 or float64.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) value() object.Value {
	if n.isFloat {
		return n.f
	}
	return n.i
}

func toNumber(pos int, v object.Value) (number, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{}, errors.InvalidInput(fmt.Sprintf("args[%d]", pos),
				fmt.Sprintf("operand %d overflows int64", u))
		}
		return number{i: int64(u)}, nil
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float(), isFloat: true}, nil
	default:
		return number{}, errors.InvalidInput(fmt.Sprintf("args[%d]", pos),
			fmt.Sprintf("unsupported operand type '%s'", object.TypeName(v)))
	}
}

func toNumbers(args []object.Value) ([]number, error) {
	nums := make([]number, len(args))
	for i, a := range args {
		n, err := toNumber(i, a)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

// fold combines nums left to right, promoting to float64 once any operand is a float.
func fold(nums []number, init number, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) number {
	acc := init
	for _, n := range nums {
		if acc.isFloat || n.isFloat {
			acc = number{f: floatOp(acc.float(), n.float()), isFloat: true}
			continue
		}
		acc = number{i: intOp(acc.i, n.i)}
	}
	return acc
}
