package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Todo is the domain model for a todo entry.
type Todo struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// Todos is the authoritative list, in insertion order.
type Todos []Todo

// Clone copies the list; Todo holds no references so a shallow copy is deep.
func (l Todos) Clone() Todos { return slices.Clone(l) }

func (l Todos) Index(id int64) int {
	return slices.IndexFunc(l, func(t Todo) bool { return t.ID == id })
}

// Filter selects which todos are displayed.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var ErrUnknownFilter = errors.New("unknown filter")

// Filters lists the selectable filters in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Filters, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Label is the footer text for f.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	}
	return string(f)
}

// FilterState is the value of the filter store.
type FilterState struct {
	Value Filter
}

// Header is the new-todo input buffer.
type Header struct {
	Text string
}

// EditDraft is the state of one inline edit session.
type EditDraft struct {
	Enable  bool
	ID      int64
	Content string
}
