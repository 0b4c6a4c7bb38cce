package store

import (
	"errors"
	"fmt"
)

var ErrDuplicateName = errors.New("store: duplicate name")

// Named is the type-erased view of a Store used by the registry.
type Named interface {
	Name() string
	ID() uint64
	Version() uint64
	Subscribe(fn func()) func()
}

// Registry is the explicit set of stores handed to a view.
type Registry struct {
	byName map[string]Named
	order  []Named
}

func NewRegistry(stores ...Named) (*Registry, error) {
	r := &Registry{byName: make(map[string]Named)}
	for _, s := range stores {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(s Named) error {
	if _, ok := r.byName[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, s.Name())
	}
	r.byName[s.Name()] = s
	r.order = append(r.order, s)
	return nil
}

func (r *Registry) Lookup(name string) (Named, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Stores returns the registered stores in registration order.
func (r *Registry) Stores() []Named {
	return append([]Named(nil), r.order...)
}

// SubscribeAll registers fn on every store. An action that changes several
// stores calls fn once per changed store.
func (r *Registry) SubscribeAll(fn func(s Named)) func() {
	unsubs := make([]func(), 0, len(r.order))
	for _, s := range r.order {
		s := s
		unsubs = append(unsubs, s.Subscribe(func() { fn(s) }))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
