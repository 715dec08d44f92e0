// Package mapiter implements the map builtin: a lazy iterator that applies a
// callable to the simultaneous next values of one or more sources and stops
// as soon as any source, or the callable itself, signals exhaustion.
//
// Each step advances the sources strictly left to right. When a source is
// exhausted the step ends immediately; sources to its left have already been
// advanced in that step and are not rolled back. The callable is invoked
// only when every source produced a value, and at most once per step.
//
// # Usage
//
//	m, err := mapiter.New(ctx, func(a, b int) int { return a + b },
//	    []int{1, 2, 3}, []int{10, 20})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	for {
//	    r := m.Step(ctx)
//	    if r.Kind != mapiter.Produced {
//	        return r.Err // nil when Ended
//	    }
//	    fmt.Println(r.Value) // 11, 22
//	}
//
// A *Map is also a pipeline.Iterator[any], so it can be drained with
// pipeline.Collect or fed into another Map as a source.
package mapiter
