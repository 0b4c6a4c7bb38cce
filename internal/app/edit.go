package app

import (
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store"
)

// Editor is a view-local inline edit session. Its draft lives in its own
// store, outside the app registry, but its actions run on the app
// dispatcher so they batch with the todo actions they call.
type Editor struct {
	Draft *store.Store[model.EditDraft]

	start  func(int64) error
	change func(string) error
	cancel func(struct{}) error
	submit func(struct{}) error
}

func (a *App) NewEditor() *Editor {
	e := &Editor{
		Draft: store.MustNew(EditStore, model.EditDraft{}, store.Comparable[model.EditDraft]()),
	}
	d := a.dispatch

	e.start = store.Wrap(d, "edit/start", func(tx *store.Tx, id int64) error {
		todos := store.Peek(tx, a.Todos)
		i := todos.Index(id)
		if i < 0 {
			return ErrNotFound
		}
		*store.Draft(tx, e.Draft) = model.EditDraft{Enable: true, ID: id, Content: todos[i].Content}
		return nil
	})

	e.change = store.Wrap(d, "edit/change", func(tx *store.Tx, text string) error {
		store.Draft(tx, e.Draft).Content = text
		return nil
	})

	e.cancel = store.Wrap(d, "edit/cancel", func(tx *store.Tx, _ struct{}) error {
		*store.Draft(tx, e.Draft) = model.EditDraft{}
		return nil
	})

	e.submit = store.Wrap(d, "edit/submit", func(tx *store.Tx, _ struct{}) error {
		draft := store.Peek(tx, e.Draft)
		if !draft.Enable {
			return nil
		}
		// an emptied edit deletes the todo
		if draft.Content == "" {
			if err := a.remove(draft.ID); err != nil {
				return err
			}
			return e.cancel(struct{}{})
		}
		todos := store.Draft(tx, a.Todos)
		if i := todos.Index(draft.ID); i >= 0 {
			(*todos)[i].Content = draft.Content
		}
		return e.cancel(struct{}{})
	})
	return e
}

// Start opens an edit session on the todo with id, seeded with its content.
func (e *Editor) Start(id int64) error { return e.start(id) }

func (e *Editor) SetContent(text string) error { return e.change(text) }

// Cancel closes the session without touching the todo.
func (e *Editor) Cancel() error { return e.cancel(struct{}{}) }

// Submit writes the draft back. Empty content removes the todo instead.
// Submitting a closed session does nothing.
func (e *Editor) Submit() error { return e.submit(struct{}{}) }

// Editing reports the id under edit, if any.
func (e *Editor) Editing() (int64, bool) {
	d := e.Draft.Snapshot()
	return d.ID, d.Enable
}
