// Package inherited provides the deferred-value plumbing that layers
// inherited attributes on top of the synthesized-only parse driver: a value
// that is set exactly once and triggers registered continuations. The only
// guarantee it needs from the driver is that semantic actions run in the
// canonical bottom-up reduce order.
//
// Values are single-threaded, like the parser that owns them.
package inherited

import "fmt"

type state[T any] struct {
	value     *T
	callbacks []func()
}

// Value is a set-once cell. The zero Value is not usable; create cells
// with New.
type Value[T any] struct {
	state *state[T]
}

func New[T any]() Value[T] {
	return Value[T]{
		state: &state[T]{},
	}
}

// Set resolves the cell and fires every registered continuation. Resolving
// a cell twice is a programming error.
func (v Value[T]) Set(val T) {
	if v.state.value != nil {
		panic("inherited: value resolved twice")
	}
	v.state.value = &val

	callbacks := v.state.callbacks
	v.state.callbacks = nil
	for _, cb := range callbacks {
		cb()
	}
}

// Take consumes the resolved value. It panics when the cell is unresolved
// or already consumed.
func (v Value[T]) Take() T {
	if v.state.value == nil {
		panic("inherited: value not resolved or already consumed")
	}
	val := *v.state.value
	v.state.value = nil
	return val
}

// onReady runs cb immediately when the cell is already resolved, otherwise
// registers it.
func (v Value[T]) onReady(cb func()) {
	if v.state.value != nil {
		cb()
		return
	}
	v.state.callbacks = append(v.state.callbacks, cb)
}

// Map derives a new cell that resolves with f applied to this cell's
// value. The source value is consumed when the derived cell resolves.
func Map[T, U any](v Value[T], f func(T) U) Value[U] {
	derived := New[U]()
	v.onReady(func() {
		derived.Set(f(v.Take()))
	})
	return derived
}

// Inherit creates a cell that forwards its value into dst once resolved.
// It models an inherited attribute flowing down the derivation.
func Inherit[T any](dst Value[T]) Value[T] {
	src := New[T]()
	src.onReady(func() {
		dst.Set(src.Take())
	})
	return src
}

// InheritMap is Inherit with a transformation applied on the way down.
func InheritMap[T, U any](dst Value[U], f func(T) U) Value[T] {
	src := New[T]()
	src.onReady(func() {
		dst.Set(f(src.Take()))
	})
	return src
}

// String implements fmt.Stringer for diagnostics; it never consumes the
// value.
func (v Value[T]) String() string {
	if v.state == nil || v.state.value == nil {
		return "<unresolved>"
	}
	return fmt.Sprintf("%v", *v.state.value)
}
