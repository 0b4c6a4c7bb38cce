package model

import "fmt"

// Visible derives the displayed subset of todos. It always returns a new
// slice and is recomputed on every render.
func Visible(todos Todos, f Filter) Todos {
	out := make(Todos, 0, len(todos))
	for _, t := range todos {
		switch f {
		case FilterAll:
			out = append(out, t)
		case FilterActive:
			if !t.Completed {
				out = append(out, t)
			}
		case FilterCompleted:
			if t.Completed {
				out = append(out, t)
			}
		}
	}
	return out
}

// Count splits todos into active and completed.
func Count(todos Todos) (active, completed int) {
	for _, t := range todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return
}

// AllCompleted is false for an empty list.
func AllCompleted(todos Todos) bool {
	if len(todos) == 0 {
		return false
	}
	for _, t := range todos {
		if !t.Completed {
			return false
		}
	}
	return true
}

// ItemsLeft renders the footer counter, e.g. "1 item left".
func ItemsLeft(active int) string {
	if active == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", active)
}
