// Package pipeline provides composable, pull-based stream operators.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand, and
// everything runs on the caller's goroutine.
//
// Iterator[any] is structurally identical to object.Cursor, so a *mapiter.Map
// can be the source of a pipeline and an erased pipeline can be an argument
// of map.
//
// # Operators
//
//   - Map: transform each value
//   - Filter: keep values matching a predicate
//   - Tap: side-effect without altering the value (logging, printing)
//   - Take: stop after n values without pulling the source again
//   - Erase: convert Pipeline[T] to Pipeline[any]
//
// # Usage
//
//	m, _ := mapiter.New(ctx, catalog.Add, []int{1, 2, 3}, []int{10, 20})
//	first := pipeline.Take(pipeline.From[any](m), 10)
//	values, err := pipeline.Collect(ctx, first)
package pipeline
