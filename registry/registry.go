package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/kbukum/lockstep/errors"
	"github.com/kbukum/lockstep/logger"
	"github.com/kbukum/lockstep/object"
)

// Slot names reported by Info.
const (
	SlotNew  = "new"
	SlotNext = "next"
	SlotIter = "iter"
)

// NewFunc constructs an instance from positional arguments.
type NewFunc func(ctx context.Context, args []object.Value) (object.Value, error)

// NextFunc advances self. It returns (nil, false, nil) when exhausted.
type NextFunc func(ctx context.Context, self object.Value) (object.Value, bool, error)

// IterFunc returns the iterator handle of self.
type IterFunc func(ctx context.Context, self object.Value) (object.Value, error)

// Type describes a builtin type. Nil entry points are unsupported.
type Type struct {
	Name string
	Doc  string
	New  NewFunc
	Next NextFunc
	Iter IterFunc
}

// Info is the introspection view of a Type.
type Info struct {
	Name  string   `json:"name"`
	Doc   string   `json:"doc"`
	Slots []string `json:"slots"`
}

// Info returns the introspection view of t.
func (t *Type) Info() Info {
	slots := make([]string, 0, 3)
	if t.New != nil {
		slots = append(slots, SlotNew)
	}
	if t.Next != nil {
		slots = append(slots, SlotNext)
	}
	if t.Iter != nil {
		slots = append(slots, SlotIter)
	}
	return Info{Name: t.Name, Doc: t.Doc, Slots: slots}
}

// Registry manages named builtin types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	log   *logger.Logger
}

// New creates a new empty Registry.
func New() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		log:   logger.WithComponent("registry"),
	}
}

// Register adds t. Names must be unique.
func (r *Registry) Register(t *Type) error {
	if t == nil || t.Name == "" {
		return errors.MissingField("name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name]; exists {
		return errors.AlreadyExists("type", t.Name)
	}
	r.types[t.Name] = t

	r.log.Debug("Type registered", logger.Fields(
		"type", t.Name,
		"slots", t.Info().Slots,
	))
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, errors.TypeNotFound(name)
	}
	return t, nil
}

// Construct calls the New entry point of the named type.
func (r *Registry) Construct(ctx context.Context, name string, args ...object.Value) (object.Value, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if t.New == nil {
		return nil, errors.UnsupportedSlot(name, SlotNew)
	}
	return t.New(ctx, args)
}

// Next calls the Next entry point of the named type on self.
func (r *Registry) Next(ctx context.Context, name string, self object.Value) (object.Value, bool, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, false, err
	}
	if t.Next == nil {
		return nil, false, errors.UnsupportedSlot(name, SlotNext)
	}
	return t.Next(ctx, self)
}

// Iter calls the Iter entry point of the named type on self.
func (r *Registry) Iter(ctx context.Context, name string, self object.Value) (object.Value, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if t.Iter == nil {
		return nil, errors.UnsupportedSlot(name, SlotIter)
	}
	return t.Iter(ctx, self)
}

// Doc returns the documentation string of the named type.
func (r *Registry) Doc(name string) (string, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return t.Doc, nil
}

// List returns sorted names of all registered types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos returns the introspection view of every type, sorted by name.
func (r *Registry) Infos() []Info {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if t, ok := r.types[name]; ok {
			infos = append(infos, t.Info())
		}
	}
	return infos
}
