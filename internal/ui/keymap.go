package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up          key.Binding
	down        key.Binding
	pageUp      key.Binding
	pageDown    key.Binding
	top         key.Binding
	bottom      key.Binding
	toggle      key.Binding
	expandAll   key.Binding
	collapseAll key.Binding
	full        key.Binding
	find        key.Binding
	nextMatch   key.Binding
	prevMatch   key.Binding
	quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k")),
		down:     key.NewBinding(key.WithKeys("down", "j")),
		pageUp:   key.NewBinding(key.WithKeys("pgup")),
		pageDown: key.NewBinding(key.WithKeys("pgdown")),
		top:      key.NewBinding(key.WithKeys("home", "g")),
		bottom:   key.NewBinding(key.WithKeys("end", "G")),
		toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "fold"),
		),
		expandAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "expand all"),
		),
		collapseAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse all"),
		),
		full: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "full values"),
		),
		find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find"),
		),
		nextMatch: key.NewBinding(key.WithKeys("n")),
		prevMatch: key.NewBinding(key.WithKeys("N")),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.toggle,
		k.expandAll,
		k.collapseAll,
		k.full,
		k.find,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{}, // only render short help
	}
}

// findKeyMap is active while the find prompt has focus.
type findKeyMap struct {
	accept key.Binding
	cancel key.Binding
}

func newFindKeyMap() findKeyMap {
	return findKeyMap{
		accept: key.NewBinding(key.WithKeys("enter")),
		cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}
