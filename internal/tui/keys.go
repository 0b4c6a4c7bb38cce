package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle      key.Binding
	Remove      key.Binding
	Edit        key.Binding
	ToggleAll   key.Binding
	Clear       key.Binding
	All         key.Binding
	Active      key.Binding
	Completed   key.Binding
	SwitchFocus key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	Quit        key.Binding
	Help        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:      key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
		Remove:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit")),
		ToggleAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "mark all")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		All:         key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// modeHelp is the help.KeyMap shown for one focus mode.
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h modeHelp) ShortHelp() []key.Binding  { return h.short }
func (h modeHelp) FullHelp() [][]key.Binding { return h.full }

func (k keyMap) listHelp() modeHelp {
	return modeHelp{
		short: []key.Binding{k.Toggle, k.Edit, k.Remove, k.SwitchFocus, k.Quit, k.Help},
		full: [][]key.Binding{
			{k.Toggle, k.Edit, k.Remove},
			{k.ToggleAll, k.Clear},
			{k.All, k.Active, k.Completed},
			{k.SwitchFocus, k.Quit, k.Help},
		},
	}
}

func (k keyMap) headerHelp() modeHelp {
	b := []key.Binding{k.Submit, k.SwitchFocus, k.ForceQuit}
	return modeHelp{short: b, full: [][]key.Binding{b}}
}

func (k keyMap) editHelp() modeHelp {
	b := []key.Binding{k.Submit, k.Cancel, k.SwitchFocus}
	return modeHelp{short: b, full: [][]key.Binding{b}}
}
