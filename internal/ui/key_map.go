package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the decision prompt.
type keyMap struct {
	yes  key.Binding
	no   key.Binding
	skip key.Binding
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		yes:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "accept")),
		no:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		skip: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip recording")),
		quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.yes, k.no, k.skip, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.yes, k.no},
		{k.skip, k.quit},
	}
}
