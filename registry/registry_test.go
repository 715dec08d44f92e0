package registry

import (
	"context"
	"slices"
	"testing"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/object"
)

type counter struct{ n, limit int }

func counterType() *Type {
	return &Type{
		Name: "counter",
		Doc:  "counter(limit) --> counter object",
		New: func(_ context.Context, args []object.Value) (object.Value, error) {
			limit, _ := args[0].(int)
			return &counter{limit: limit}, nil
		},
		Next: func(_ context.Context, self object.Value) (object.Value, bool, error) {
			c := self.(*counter)
			if c.n >= c.limit {
				return nil, false, nil
			}
			c.n++
			return c.n, true, nil
		},
		Iter: func(_ context.Context, self object.Value) (object.Value, error) {
			return self, nil
		},
	}
}

func TestRegistry_RegisterAndDispatch(t *testing.T) {
	r := New()
	if err := r.Register(counterType()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	inst, err := r.Construct(ctx, "counter", 2)
	if err != nil {
		t.Fatal(err)
	}
	var got []object.Value
	for {
		v, ok, err := r.Next(ctx, "counter", inst)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	if !slices.Equal(got, []object.Value{1, 2}) {
		t.Errorf("got %v, want [1 2]", got)
	}

	self, err := r.Iter(ctx, "counter", inst)
	if err != nil {
		t.Fatal(err)
	}
	if self != inst {
		t.Error("iter should return the instance itself")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := New()
	if err := r.Register(counterType()); err != nil {
		t.Fatal(err)
	}
	err := r.Register(counterType())
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestRegistry_MissingName(t *testing.T) {
	r := New()
	if err := r.Register(&Type{}); !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
	if err := r.Register(nil); !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD for nil type, got %v", err)
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	r := New()
	ctx := context.Background()
	if _, err := r.Construct(ctx, "zip"); !errors.HasCode(err, errors.ErrCodeTypeNotFound) {
		t.Errorf("Construct: expected TYPE_NOT_FOUND, got %v", err)
	}
	if _, _, err := r.Next(ctx, "zip", nil); !errors.HasCode(err, errors.ErrCodeTypeNotFound) {
		t.Errorf("Next: expected TYPE_NOT_FOUND, got %v", err)
	}
	if _, err := r.Doc("zip"); !errors.HasCode(err, errors.ErrCodeTypeNotFound) {
		t.Errorf("Doc: expected TYPE_NOT_FOUND, got %v", err)
	}
}

func TestRegistry_UnsupportedSlot(t *testing.T) {
	r := New()
	_ = r.Register(&Type{Name: "opaque", Doc: "no slots"})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{SlotNew, func() error { _, err := r.Construct(ctx, "opaque"); return err }},
		{SlotNext, func() error { _, _, err := r.Next(ctx, "opaque", nil); return err }},
		{SlotIter, func() error { _, err := r.Iter(ctx, "opaque", nil); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.HasCode(err, errors.ErrCodeUnsupportedSlot) {
				t.Errorf("expected UNSUPPORTED_SLOT, got %v", err)
			}
		})
	}
}

func TestRegistry_ListAndInfos(t *testing.T) {
	r := New()
	_ = r.Register(counterType())
	_ = r.Register(&Type{Name: "alpha", Doc: "a"})

	if got := r.List(); !slices.Equal(got, []string{"alpha", "counter"}) {
		t.Errorf("got %v, want [alpha counter]", got)
	}

	infos := r.Infos()
	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %d", len(infos))
	}
	if infos[0].Name != "alpha" || len(infos[0].Slots) != 0 {
		t.Errorf("unexpected alpha info %+v", infos[0])
	}
	if !slices.Equal(infos[1].Slots, []string{SlotNew, SlotNext, SlotIter}) {
		t.Errorf("unexpected counter slots %v", infos[1].Slots)
	}

	doc, err := r.Doc("counter")
	if err != nil || doc != "counter(limit) --> counter object" {
		t.Errorf("got %q, %v", doc, err)
	}
}
