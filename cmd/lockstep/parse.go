package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/lockstep/pipeline"
)

// listSource returns a lazy source over the comma-separated values of arg.
// Integers and floats become numbers, anything else stays a string. Blank
// fields are skipped, so "" is an empty list.
func listSource(ctx context.Context, arg string) pipeline.Iterator[any] {
	fields := pipeline.Filter(pipeline.FromSlice(strings.Split(arg, ",")), func(f string) bool {
		return strings.TrimSpace(f) != ""
	})
	return pipeline.Map(fields, parseField).Iter(ctx)
}

// charSource returns a lazy source over the characters of arg.
func charSource(ctx context.Context, arg string) pipeline.Iterator[any] {
	return pipeline.Erase(pipeline.FromSlice(strings.Split(arg, ""))).Iter(ctx)
}

func parseField(_ context.Context, f string) (any, error) {
	f = strings.TrimSpace(f)
	if n, err := strconv.ParseInt(f, 10, 64); err == nil {
		return n, nil
	}
	if x, err := strconv.ParseFloat(f, 64); err == nil {
		return x, nil
	}
	return f, nil
}

// formatValue renders v for line output. Lists print like [1 2].
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
