package store

import (
	"fmt"
)

// Change describes one store replaced by a commit.
type Change struct {
	Store string
	From  uint64
	To    uint64
}

// Tracer observes commits and rollbacks. It is only installed in
// development mode.
type Tracer interface {
	Commit(action string, changes []Change)
	Rollback(action string, err error)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTracer installs a mutation tracer.
func WithTracer(t Tracer) DispatcherOption {
	return func(d *Dispatcher) { d.tracer = t }
}

// Dispatcher runs actions one at a time. An action started while another
// one is running on the same dispatcher joins the running transaction.
type Dispatcher struct {
	tracer Tracer
	active *Tx
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InAction reports whether a transaction is open.
func (d *Dispatcher) InAction() bool { return d.active != nil }

// Tx collects the drafts of one action. It is only valid inside the action
// body that received it.
type Tx struct {
	action string
	drafts map[uint64]entry
	order  []entry
	done   bool
}

type entry interface {
	commit() (Change, bool)
	notify()
}

type draft[T any] struct {
	s *Store[T]
	v *T
}

func (e *draft[T]) commit() (Change, bool) {
	s := e.s
	if s.equal != nil && s.equal(s.value, *e.v) {
		return Change{}, false
	}
	c := Change{Store: s.name, From: s.version}
	s.value = *e.v
	s.version++
	c.To = s.version
	return c, true
}

func (e *draft[T]) notify() { e.s.notify() }

// Action returns the name of the outermost action.
func (tx *Tx) Action() string { return tx.action }

func (tx *Tx) check() {
	if tx.done {
		panic(ErrTxDone)
	}
}

// Draft returns the working copy of s for this transaction. The first call
// clones the committed value; later calls in the same transaction, nested
// actions included, return the same pointer.
func Draft[T any](tx *Tx, s *Store[T]) *T {
	tx.check()
	if e, ok := tx.drafts[s.id]; ok {
		return e.(*draft[T]).v
	}
	v := s.clone(s.value)
	e := &draft[T]{s: s, v: &v}
	tx.drafts[s.id] = e
	tx.order = append(tx.order, e)
	return e.v
}

// Peek reads s as this transaction sees it without drafting it.
func Peek[T any](tx *Tx, s *Store[T]) T {
	tx.check()
	if e, ok := tx.drafts[s.id]; ok {
		return s.clone(*e.(*draft[T]).v)
	}
	return s.Snapshot()
}

// Wrap turns fn into an event handler. Calling the handler runs fn in a
// transaction: a nil error commits every draft and notifies each changed
// store once; an error or panic discards the drafts.
func Wrap[A any](d *Dispatcher, name string, fn func(tx *Tx, arg A) error) func(A) error {
	return func(arg A) error {
		return d.run(name, func(tx *Tx) error { return fn(tx, arg) })
	}
}

// Do runs fn as an action that takes no argument.
func (d *Dispatcher) Do(name string, fn func(tx *Tx) error) error {
	return d.run(name, fn)
}

func (d *Dispatcher) run(name string, fn func(tx *Tx) error) error {
	if d.active != nil {
		return fn(d.active)
	}
	tx := &Tx{action: name, drafts: make(map[uint64]entry)}
	d.active = tx
	finished := false
	defer func() {
		if finished {
			return
		}
		tx.done = true
		d.active = nil
		if r := recover(); r != nil {
			d.rollback(name, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		finished = true
		tx.done = true
		d.active = nil
		d.rollback(name, err)
		return err
	}

	var changes []Change
	var changed []entry
	for _, e := range tx.order {
		if c, ok := e.commit(); ok {
			changes = append(changes, c)
			changed = append(changed, e)
		}
	}
	finished = true
	tx.done = true
	d.active = nil

	if d.tracer != nil && len(changes) > 0 {
		d.tracer.Commit(name, changes)
	}
	// listeners run outside the transaction so they can start new actions
	for _, e := range changed {
		e.notify()
	}
	return nil
}

func (d *Dispatcher) rollback(name string, err error) {
	if d.tracer != nil {
		d.tracer.Rollback(name, err)
	}
}
