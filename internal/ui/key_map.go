package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	toggle  key.Binding
	apply   key.Binding
	newTag  key.Binding
	remove  key.Binding
	history key.Binding
	tags    key.Binding
	open    key.Binding
	rescan  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "retag")),
		newTag:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new tag")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete tag")),
		history: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		tags:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open location")),
		rescan:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.apply, k.newTag, k.remove},
		{k.history, k.tags, k.open, k.rescan, k.quit},
	}
}
