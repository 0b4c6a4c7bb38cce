package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/todomvc/internal/app"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/ui"
)

const maxScriptLine = 1 << 20

// runScript feeds one command per line through the same actions the TUI
// uses. A failing line is reported and the script goes on; the exit code
// is the worst one seen.
func runScript(a *app.App, in io.Reader, out, errw io.Writer) int {
	code, applied := 0, 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxScriptLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c := execLine(a, line, out); c != nil {
			ui.Fail(errw, fmt.Sprintf("line %d: %s", lineNo, c.msg))
			code = max(code, c.code)
			continue
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		ui.Fail(errw, fmt.Sprintf("line %d: read: %v (%d commands applied)", lineNo+1, err, applied))
		return 1
	}
	if code == 0 {
		ui.OK(errw, fmt.Sprintf("%d commands applied", applied))
	}
	return code
}

type lineErr struct {
	code int
	msg  string
}

func usage(msg string) *lineErr { return &lineErr{code: 2, msg: msg} }

func execLine(a *app.App, line string, out io.Writer) *lineErr {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "add":
		if err := a.Add(arg); err != nil {
			if errors.Is(err, app.ErrEmptyContent) {
				return usage(err.Error())
			}
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "toggle", "rm":
		todo, e := visibleAt(a, cmd, arg)
		if e != nil {
			return e
		}
		var err error
		if cmd == "toggle" {
			err = a.Toggle(todo.ID)
		} else {
			err = a.Remove(todo.ID)
		}
		if err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "edit":
		n, text, _ := strings.Cut(arg, " ")
		todo, e := visibleAt(a, cmd, n)
		if e != nil {
			return e
		}
		ed := a.NewEditor()
		if err := ed.Start(todo.ID); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}
		if err := ed.SetContent(strings.TrimSpace(text)); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}
		if err := ed.Submit(); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "toggle-all":
		if err := a.ToggleAll(); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "clear-completed":
		if err := a.ClearCompleted(); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "filter":
		f, err := model.ParseFilter(arg)
		if err != nil {
			return usage("filter: " + err.Error())
		}
		if err := a.SetFilter(f); err != nil {
			return &lineErr{code: 1, msg: err.Error()}
		}

	case "ls":
		ui.Panel(out, renderLines(a.Todos.Snapshot(), a.Filter.Snapshot().Value))

	default:
		return usage("unknown command: " + cmd)
	}
	return nil
}

// visibleAt resolves a 1-based index into the currently visible list.
func visibleAt(a *app.App, cmd, arg string) (model.Todo, *lineErr) {
	if arg == "" {
		return model.Todo{}, usage(fmt.Sprintf("usage: %s <index>", cmd))
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Todo{}, usage(cmd + ": not a number: " + arg)
	}
	visible := a.Visible()
	if n < 1 || n > len(visible) {
		return model.Todo{}, usage(fmt.Sprintf("index out of range: have %d, got %d", len(visible), n))
	}
	return visible[n-1], nil
}
