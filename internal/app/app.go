// Package app wires the TodoMVC stores and exposes every user operation as
// an action.
package app

import (
	"errors"
	"math"
	"slices"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store"
)

var (
	ErrEmptyContent = errors.New("todo content is empty")
	ErrNotFound     = errors.New("todo not found")
	ErrIDsExhausted = errors.New("todo ids exhausted")
)

// Store names, as seen by tracers and the registry.
const (
	TodosStore  = "todos"
	FilterStore = "filter"
	HeaderStore = "header"
	EditStore   = "edit"
)

type options struct {
	seed   model.Todos
	filter model.Filter
	tracer store.Tracer
}

type Option func(*options)

// WithSeed sets the initial todo list. The id sequence resumes after the
// highest seeded id.
func WithSeed(todos model.Todos) Option {
	return func(o *options) { o.seed = todos }
}

func WithFilter(f model.Filter) Option {
	return func(o *options) { o.filter = f }
}

func WithTracer(t store.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// App owns the stores and the dispatcher every action runs on.
type App struct {
	Todos  *store.Store[model.Todos]
	Filter *store.Store[model.FilterState]
	Header *store.Store[model.Header]

	Registry *store.Registry
	dispatch *store.Dispatcher
	lastID   int64

	setHeaderText  func(string) error
	submitHeader   func(struct{}) error
	add            func(string) error
	toggle         func(int64) error
	remove         func(int64) error
	toggleAll      func(struct{}) error
	clearCompleted func(struct{}) error
	setFilter      func(model.Filter) error
}

func New(opts ...Option) (*App, error) {
	o := options{filter: model.FilterAll}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Todos: store.MustNew(TodosStore, o.seed.Clone(),
			store.WithClone(model.Todos.Clone),
			store.WithEqual(slices.Equal[model.Todos]),
		),
		Filter: store.MustNew(FilterStore, model.FilterState{Value: o.filter}, store.Comparable[model.FilterState]()),
		Header: store.MustNew(HeaderStore, model.Header{}, store.Comparable[model.Header]()),
	}
	var dopts []store.DispatcherOption
	if o.tracer != nil {
		dopts = append(dopts, store.WithTracer(o.tracer))
	}
	a.dispatch = store.NewDispatcher(dopts...)
	for _, t := range o.seed {
		a.lastID = max(a.lastID, t.ID)
	}

	reg, err := store.NewRegistry(a.Todos, a.Filter, a.Header)
	if err != nil {
		return nil, err
	}
	a.Registry = reg
	a.bind()
	return a, nil
}

// Dispatcher is the dispatcher shared by every action of this app,
// including view-local edit sessions.
func (a *App) Dispatcher() *store.Dispatcher { return a.dispatch }

func (a *App) bind() {
	d := a.dispatch

	a.setHeaderText = store.Wrap(d, "header/change", func(tx *store.Tx, text string) error {
		store.Draft(tx, a.Header).Text = text
		return nil
	})

	a.submitHeader = store.Wrap(d, "header/submit", func(tx *store.Tx, _ struct{}) error {
		h := store.Draft(tx, a.Header)
		if h.Text == "" {
			return ErrEmptyContent
		}
		if a.lastID == math.MaxInt64 {
			return ErrIDsExhausted
		}
		a.lastID++
		todos := store.Draft(tx, a.Todos)
		*todos = append(*todos, model.Todo{ID: a.lastID, Content: h.Text})
		h.Text = ""
		return nil
	})

	a.add = store.Wrap(d, "todos/add", func(tx *store.Tx, text string) error {
		if err := a.setHeaderText(text); err != nil {
			return err
		}
		return a.submitHeader(struct{}{})
	})

	a.toggle = store.Wrap(d, "todos/toggle", func(tx *store.Tx, id int64) error {
		todos := store.Draft(tx, a.Todos)
		i := todos.Index(id)
		if i < 0 {
			return ErrNotFound
		}
		(*todos)[i].Completed = !(*todos)[i].Completed
		return nil
	})

	a.remove = store.Wrap(d, "todos/remove", func(tx *store.Tx, id int64) error {
		todos := store.Draft(tx, a.Todos)
		if i := todos.Index(id); i >= 0 {
			*todos = slices.Delete(*todos, i, i+1)
		}
		return nil
	})

	a.toggleAll = store.Wrap(d, "todos/toggle-all", func(tx *store.Tx, _ struct{}) error {
		todos := store.Draft(tx, a.Todos)
		target := !model.AllCompleted(*todos)
		for i := range *todos {
			(*todos)[i].Completed = target
		}
		return nil
	})

	a.clearCompleted = store.Wrap(d, "todos/clear-completed", func(tx *store.Tx, _ struct{}) error {
		active := model.Visible(store.Peek(tx, a.Todos), model.FilterActive)
		*store.Draft(tx, a.Todos) = active
		return nil
	})

	a.setFilter = store.Wrap(d, "filter/select", func(tx *store.Tx, f model.Filter) error {
		store.Draft(tx, a.Filter).Value = f
		return nil
	})
}

// SetHeaderText replaces the new-todo draft.
func (a *App) SetHeaderText(text string) error { return a.setHeaderText(text) }

// SubmitHeader appends the header draft as a new active todo and clears
// the draft. An empty draft is rejected with ErrEmptyContent.
func (a *App) SubmitHeader() error { return a.submitHeader(struct{}{}) }

// Add types text into the header and submits it in one action.
func (a *App) Add(text string) error { return a.add(text) }

func (a *App) Toggle(id int64) error { return a.toggle(id) }

// Remove deletes the todo with id. Removing a missing todo does nothing.
func (a *App) Remove(id int64) error { return a.remove(id) }

// ToggleAll completes every todo unless all are already completed, in
// which case it reactivates them all.
func (a *App) ToggleAll() error { return a.toggleAll(struct{}{}) }

func (a *App) ClearCompleted() error { return a.clearCompleted(struct{}{}) }

func (a *App) SetFilter(f model.Filter) error { return a.setFilter(f) }

// Visible derives the displayed todos from the latest snapshots.
func (a *App) Visible() model.Todos {
	return model.Visible(a.Todos.Snapshot(), a.Filter.Snapshot().Value)
}
