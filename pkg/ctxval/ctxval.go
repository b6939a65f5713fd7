// Package ctxval lets code deep in a call chain report values back to an outer layer
// (for example request logging) through a mutable bag attached to the context.
package ctxval

import (
	"context"
	"sync"
)

// Key is a typed slot in the bag. Keys compare by identity, so declare them once as package vars.
type Key[V any] struct {
	name string
}

func NewKey[V any](name string) *Key[V] {
	return &Key[V]{name: name}
}

func (k *Key[V]) String() string {
	return k.name
}

type bagKey struct{}

type bag struct {
	m      sync.Mutex
	values map[any]any
	order  []any
}

// Wrap attaches an empty bag to ctx. Wrapping an already wrapped context is a no-op.
func Wrap(ctx context.Context) context.Context {
	if _, ok := getBag(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, bagKey{}, &bag{values: make(map[any]any)})
}

// Set stores v under k. It silently does nothing when ctx was never wrapped.
func Set[V any](ctx context.Context, k *Key[V], v V) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.m.Lock()
	defer b.m.Unlock()
	if _, exists := b.values[k]; !exists {
		b.order = append(b.order, k)
	}
	b.values[k] = v
}

func Get[V any](ctx context.Context, k *Key[V]) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	b.m.Lock()
	defer b.m.Unlock()
	v, ok := b.values[k].(V)
	return v, ok
}

// KeyValues flattens the bag into name/value pairs in insertion order, ready for a sugared logger.
func KeyValues(ctx context.Context) []any {
	b, ok := getBag(ctx)
	if !ok {
		return nil
	}
	b.m.Lock()
	defer b.m.Unlock()
	out := make([]any, 0, len(b.order)*2)
	for _, k := range b.order {
		if s, ok := k.(interface{ String() string }); ok {
			out = append(out, s.String(), b.values[k])
		}
	}
	return out
}

func getBag(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(bagKey{}).(*bag)
	return b, ok
}
