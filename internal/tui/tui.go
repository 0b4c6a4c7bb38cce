// Package tui is the interactive TodoMVC view. It renders store snapshots
// and turns key presses into app actions; it owns no authoritative state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/idilsaglam/todomvc/internal/app"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store"
)

// Options sets the program streams.
type Options struct {
	In  io.Reader
	Out io.Writer
}

type focus int

const (
	focusHeader focus = iota
	focusList
)

// listItem adapts a Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string { return i.todo.Content }

// Model is the Bubble Tea model. Its list items are rebuilt from fresh
// snapshots every time a store it watches commits.
type Model struct {
	app    *app.App
	editor *app.Editor
	keys   keyMap
	help   help.Model

	list   list.Model
	header textinput.Model
	edit   textinput.Model
	focus  focus
	alert  string

	width, height int
	unsubs        []func()
}

// itemDelegate renders one todo per line, or the edit input for the todo
// under edit.
type itemDelegate struct {
	m *Model
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() && d.m.focus == focusList {
		prefix = selectedStyle.Render(">") + " "
	}
	if id, editing := d.m.editor.Editing(); editing && id == it.todo.ID {
		fmt.Fprint(w, prefix+d.m.edit.View())
		return
	}
	box, text := mutedStyle.Render(boxUnchecked), it.todo.Content
	if it.todo.Completed {
		box, text = successStyle.Render(boxChecked), doneStyle.Render(text)
	}
	fmt.Fprint(w, prefix+box+" "+text)
}

// New builds the model and subscribes it to the app stores. Call Close to
// unsubscribe.
func New(a *app.App) *Model {
	m := &Model{
		app:    a,
		editor: a.NewEditor(),
		keys:   defaultKeyMap(),
		width:  80,
		height: 24,
	}

	l := list.New(nil, itemDelegate{m: m}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.Styles.PaginationStyle = helpStyle
	l.DisableQuitKeybindings()
	m.list = l

	m.help = help.New()
	m.help.Styles.ShortKey = helpStyle.Bold(true)
	m.help.Styles.ShortDesc = helpStyle
	m.help.Styles.ShortSeparator = helpStyle
	m.help.Styles.FullKey = helpStyle.Bold(true)
	m.help.Styles.FullDesc = helpStyle
	m.help.Styles.FullSeparator = helpStyle

	m.header = textinput.New()
	m.header.Prompt = "❯ "
	m.header.Placeholder = "What needs to be done?"
	m.header.CharLimit = 200
	m.header.Focus()

	m.edit = textinput.New()
	m.edit.Prompt = ""
	m.edit.CharLimit = 200

	m.unsubs = append(m.unsubs,
		a.Registry.SubscribeAll(func(store.Named) { m.refresh() }),
		m.editor.Draft.Subscribe(m.refresh),
	)
	m.refresh()
	m.resize()
	return m
}

// Close unsubscribes from the stores.
func (m *Model) Close() {
	for _, u := range m.unsubs {
		u()
	}
	m.unsubs = nil
}

// refresh pulls the latest snapshots into the widgets.
func (m *Model) refresh() {
	visible := m.app.Visible()
	items := make([]list.Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, listItem{todo: t})
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	if h := m.app.Header.Snapshot(); m.header.Value() != h.Text {
		m.header.SetValue(h.Text)
	}

	d := m.editor.Draft.Snapshot()
	switch {
	case d.Enable && !m.edit.Focused():
		m.edit.SetValue(d.Content)
		m.edit.CursorEnd()
		m.edit.Focus()
	case !d.Enable && m.edit.Focused():
		m.edit.Blur()
		m.edit.SetValue("")
	}
}

func (m *Model) resize() {
	// title, header box (3), toggle-all, blank, footer, help, border (2)
	chrome := 11
	m.list.SetSize(max(m.width-4, 10), max(m.height-chrome, 3))
	m.header.Width = max(m.width-10, 10)
	m.edit.Width = max(m.width-12, 10)
	m.help.Width = max(m.width-4, 10)
}

func (m *Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		// the alert blocks input until dismissed
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if _, editing := m.editor.Editing(); editing {
			return m.updateEdit(msg)
		}
		if m.focus == focusHeader {
			return m.updateHeader(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	if _, editing := m.editor.Editing(); editing {
		m.edit, cmd = m.edit.Update(msg)
	} else if m.focus == focusHeader {
		m.header, cmd = m.header.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateHeader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.report(m.app.SubmitHeader())
		return m, nil
	case key.Matches(msg, m.keys.SwitchFocus), key.Matches(msg, m.keys.Cancel):
		m.setFocus(focusList)
		return m, nil
	}
	var cmd tea.Cmd
	m.header, cmd = m.header.Update(msg)
	if v := m.header.Value(); v != m.app.Header.Snapshot().Text {
		m.report(m.app.SetHeaderText(v))
	}
	return m, cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.report(m.editor.Submit())
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.report(m.editor.Cancel())
		return m, nil
	case key.Matches(msg, m.keys.SwitchFocus):
		// leaving the field submits, like a blur
		m.report(m.editor.Submit())
		m.setFocus(focusHeader)
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	if v := m.edit.Value(); v != m.editor.Draft.Snapshot().Content {
		m.report(m.editor.SetContent(v))
	}
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchFocus):
		m.setFocus(focusHeader)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.report(m.app.Toggle(t.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.Remove):
		if t, ok := m.selected(); ok {
			m.report(m.app.Remove(t.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.report(m.editor.Start(t.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleAll):
		m.report(m.app.ToggleAll())
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.report(m.app.ClearCompleted())
		return m, nil
	case key.Matches(msg, m.keys.All):
		m.report(m.app.SetFilter(model.FilterAll))
		return m, nil
	case key.Matches(msg, m.keys.Active):
		m.report(m.app.SetFilter(model.FilterActive))
		return m, nil
	case key.Matches(msg, m.keys.Completed):
		m.report(m.app.SetFilter(model.FilterCompleted))
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusHeader {
		m.header.Focus()
	} else {
		m.header.Blur()
	}
}

func (m *Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

// report turns a rejected action into the blocking alert.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, app.ErrEmptyContent) {
		m.alert = err.Error()
		return
	}
	m.alert = "error: " + err.Error()
}

func (m *Model) View() string {
	todos := m.app.Todos.Snapshot()
	filter := m.app.Filter.Snapshot().Value
	active, completed := model.Count(todos)

	var b strings.Builder
	b.WriteString(titleStyle.Render("todos") + "\n")

	input := panelStyle()
	if m.focus == focusHeader {
		input = input.BorderForeground(lipgloss.Color("168"))
	}
	b.WriteString(input.Render(m.header.View()) + "\n")

	if len(todos) > 0 {
		mark := mutedStyle.Render("❯ Mark all as complete")
		if model.AllCompleted(todos) {
			mark = successStyle.Render("❯ Mark all as complete")
		}
		b.WriteString(mark + "\n")
	}
	if len(m.list.Items()) == 0 {
		b.WriteString(mutedStyle.Render("  no items") + "\n")
	} else {
		b.WriteString(m.list.View() + "\n")
	}

	if len(todos) > 0 {
		b.WriteString("\n" + renderFooter(active, completed, filter) + "\n")
	}

	b.WriteString(m.help.View(m.helpKeys()))

	content := panelStyle().Render(b.String())
	if m.alert != "" {
		box := alertStyle().Render(errorStyle.Render(m.alert) + "\n" + mutedStyle.Render("press any key"))
		return lipgloss.JoinVertical(lipgloss.Left, content, box)
	}
	return content
}

func (m *Model) helpKeys() modeHelp {
	switch {
	case m.editing():
		return m.keys.editHelp()
	case m.focus == focusHeader:
		return m.keys.headerHelp()
	}
	return m.keys.listHelp()
}

func (m *Model) editing() bool {
	_, ok := m.editor.Editing()
	return ok
}

func renderFooter(active, completed int, selected model.Filter) string {
	parts := []string{model.ItemsLeft(active)}
	var filters []string
	for _, f := range model.Filters {
		if f == selected {
			filters = append(filters, filterSelectedStyle.Render(f.Label()))
		} else {
			filters = append(filters, f.Label())
		}
	}
	parts = append(parts, strings.Join(filters, "  "))
	if completed > 0 {
		parts = append(parts, accentStyle.Render("Clear completed"))
	}
	return strings.Join(parts, "   ")
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, a *app.App, opts Options) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if !isTTY(opts.Out) {
		return fmt.Errorf("interactive mode requires a terminal; use `todomvc script`")
	}

	m := New(a)
	defer m.Close()
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
