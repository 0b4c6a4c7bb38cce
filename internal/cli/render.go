package cli

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/ui"
)

// renderLines draws the whole app from fresh snapshots.
func renderLines(todos model.Todos, filter model.Filter) []string {
	th := ui.Current()
	active, completed := model.Count(todos)

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, "todos"),
		ui.C(th.Success, "✔"), completed,
		ui.C(th.Pending, "•"), active,
		ui.C(th.Accent, "Total"), len(todos),
	)
	lines := []string{header, ui.C(th.Muted, ui.ProgressBar(completed, len(todos), 28)), ""}

	if len(todos) > 0 {
		sym, color := th.SymSome, th.Muted
		if model.AllCompleted(todos) {
			sym, color = th.SymAll, th.Success
		}
		lines = append(lines, ui.C(color, sym+" Mark all as complete"))
	}
	lines = append(lines, itemLines(model.Visible(todos, filter))...)

	if len(todos) > 0 {
		lines = append(lines, "", footer(active, completed, filter))
	}
	return lines
}

func itemLines(visible model.Todos) []string {
	if len(visible) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	th := ui.Current()
	out := make([]string, 0, len(visible))
	for i, it := range visible {
		idx := fmt.Sprintf("%2d.", i+1)
		box, content := ui.C(th.Muted, th.BoxUnchecked), it.Content
		if it.Completed {
			box, content = ui.C(th.Success, th.BoxChecked), ui.C(th.Done, it.Content)
		}
		out = append(out, fmt.Sprintf("%s %s %s", ui.C(th.Muted, idx), box, content))
	}
	return out
}

func footer(active, completed int, selected model.Filter) string {
	th := ui.Current()
	parts := []string{ui.C(th.Title, model.ItemsLeft(active))}

	var filters []string
	for _, f := range model.Filters {
		if f == selected {
			filters = append(filters, ui.C(th.Accent, "["+f.Label()+"]"))
		} else {
			filters = append(filters, f.Label())
		}
	}
	parts = append(parts, strings.Join(filters, " "))

	if completed > 0 {
		parts = append(parts, ui.C(th.Muted, "Clear completed"))
	}
	return strings.Join(parts, "   ")
}
