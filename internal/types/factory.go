package types

import (
	"fmt"
	"sync"
)

// Factory owns an append-only sequence of type nodes and hands out References
// into it. Every Create call allocates a new slot; structurally equal nodes
// are not merged, so reference numbering is exactly creation order.
//
// Builders passed to Create may call back into the factory to create child
// nodes first. The lock only guards the append, so a factory should still be
// driven by a single producer; concurrent producers would interleave numbering.
type Factory struct {
	mu      sync.RWMutex
	types   []Type
	indexes map[Type]int
}

// NewFactory creates a factory seeded with initial nodes, which keep their positions.
func NewFactory(initial []Type) *Factory {
	f := &Factory{
		types:   make([]Type, 0, len(initial)),
		indexes: make(map[Type]int, len(initial)),
	}
	for _, t := range initial {
		f.add(t)
	}
	return f
}

// Create runs build and appends the node it returns.
// It panics if build returns nil or a node this factory already owns.
func (f *Factory) Create(build func() Type) Reference {
	t := build()
	return f.add(t)
}

func (f *Factory) add(t Type) Reference {
	if t == nil {
		panic("types: factory builder returned a nil type")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if idx, ok := f.indexes[t]; ok {
		panic(fmt.Sprintf("types: %s node already registered at #/%d", t.Kind(), idx))
	}

	idx := len(f.types)
	f.types = append(f.types, t)
	f.indexes[t] = idx
	return Reference(idx)
}

// GetReference returns the Reference of a node created by this factory.
func (f *Factory) GetReference(t Type) (Reference, error) {
	idx, err := f.GetIndex(t)
	if err != nil {
		return 0, err
	}
	return Reference(idx), nil
}

// GetIndex returns the raw position of a node created by this factory.
func (f *Factory) GetIndex(t Type) (int, error) {
	if t == nil {
		return 0, &UnknownNodeError{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	idx, ok := f.indexes[t]
	if !ok {
		return 0, &UnknownNodeError{Kind: t.Kind()}
	}
	return idx, nil
}

// Type returns the node at ref.
func (f *Factory) Type(ref Reference) (Type, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := Resolve(f.types, ref)
	if !ok {
		return nil, &ReferenceOutOfRangeError{Ref: ref, Len: len(f.types)}
	}
	return t, nil
}

// Types returns a snapshot of all nodes in creation order.
func (f *Factory) Types() []Type {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Type, len(f.types))
	copy(out, f.types)
	return out
}

// Len returns the number of nodes created so far.
func (f *Factory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.types)
}
