package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// focus says which part of the screen receives key presses
type focus int

const (
	focusInput focus = iota
	focusResults
)

type keyMap struct {
	// input focus
	Submit  key.Binding
	Suggest key.Binding
	Accept  key.Binding
	Browse  key.Binding

	// results focus
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Edit     key.Binding
	Help     key.Binding
	Quit     key.Binding

	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Suggest: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "suggest")),
		Accept:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept suggestion")),
		Browse:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "browse results")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "first")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "last")),
		Open:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "open document")),
		Edit:     key.NewBinding(key.WithKeys("/", "i", "esc"), key.WithHelp("/", "edit query")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// bindings is a help.KeyMap for one focus mode
type bindings struct {
	short []key.Binding
	full  [][]key.Binding
}

func (b bindings) ShortHelp() []key.Binding  { return b.short }
func (b bindings) FullHelp() [][]key.Binding { return b.full }

// helpFor returns the bindings that apply in the given focus mode
func (k keyMap) helpFor(f focus) help.KeyMap {
	if f == focusResults {
		return bindings{
			short: []key.Binding{k.Up, k.Down, k.Open, k.Edit, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Up, k.Down, k.PageUp, k.PageDown},
				{k.Top, k.Bottom},
				{k.Open, k.Edit},
				{k.Help, k.Quit, k.ForceQuit},
			},
		}
	}
	return bindings{
		short: []key.Binding{k.Submit, k.Suggest, k.Accept, k.Browse, k.ForceQuit},
		full: [][]key.Binding{
			{k.Submit, k.Browse},
			{k.Suggest, k.Accept},
			{k.ForceQuit},
		},
	}
}
