// Package store holds application state in named stores and mutates it
// through transactions (actions) that commit once and notify subscribers once.
//
// Stores and dispatchers have a single owner: all reads, actions and
// subscriptions happen on one goroutine. Other goroutines hand work to the
// owner by message (for the TUI that is a Bubble Tea Msg).
package store

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
)

var (
	ErrNilInitial = errors.New("store: nil initial value")
	ErrTxDone     = errors.New("store: transaction already finished")
)

var lastID atomic.Uint64

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClone sets the deep copy used for snapshots and drafts.
// Without it a plain value copy is used, which is fine for values that
// hold no slices, maps or pointers.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Store[T]) { s.clone = clone }
}

// WithEqual lets a commit detect that a draft did not actually change the
// value. Unchanged stores are not notified.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(s *Store[T]) { s.equal = equal }
}

// Store is a named container of a single value.
type Store[T any] struct {
	name    string
	id      uint64
	value   T
	version uint64
	clone   func(T) T
	equal   func(a, b T) bool
	subs    []*subscriber
}

type subscriber struct {
	fn     func()
	active bool
}

// New creates a store. Nil pointers, maps, funcs, chans and interfaces are
// rejected; a nil slice is a valid empty list.
func New[T any](name string, initial T, opts ...Option[T]) (*Store[T], error) {
	if isNil(initial) {
		return nil, ErrNilInitial
	}
	s := &Store[T]{
		name:  name,
		id:    lastID.Add(1),
		value: initial,
		clone: func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNew is New for package-level and startup wiring; it panics on error.
func MustNew[T any](name string, initial T, opts ...Option[T]) *Store[T] {
	s, err := New(name, initial, opts...)
	if err != nil {
		panic(fmt.Errorf("%w for store %s", err, name))
	}
	return s
}

func (s *Store[T]) Name() string    { return s.name }
func (s *Store[T]) ID() uint64      { return s.id }
func (s *Store[T]) Version() uint64 { return s.version }

// Snapshot returns a copy of the latest committed value.
func (s *Store[T]) Snapshot() T {
	return s.clone(s.value)
}

// Subscribe registers fn to run after every commit that changed the store.
// Listeners run in registration order. The returned func unsubscribes and
// may be called more than once.
func (s *Store[T]) Subscribe(fn func()) func() {
	sub := &subscriber{fn: fn, active: true}
	s.subs = append(s.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, x := range s.subs {
			if x == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Subscribers reports the number of registered listeners.
func (s *Store[T]) Subscribers() int { return len(s.subs) }

func (s *Store[T]) notify() {
	// listeners may unsubscribe while we iterate
	round := append([]*subscriber(nil), s.subs...)
	for _, sub := range round {
		if sub.active {
			sub.fn()
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Comparable is WithEqual using ==.
func Comparable[T comparable]() Option[T] {
	return WithEqual(func(a, b T) bool { return a == b })
}
