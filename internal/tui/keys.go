package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Dashboard  key.Binding
	Items      key.Binding
	Categories key.Binding
	Sidebar    key.Binding
	Logout     key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Dashboard:  key.NewBinding(key.WithKeys("1", "D"), key.WithHelp("1", "dashboard")),
	Items:      key.NewBinding(key.WithKeys("2", "I"), key.WithHelp("2", "items")),
	Categories: key.NewBinding(key.WithKeys("3", "C"), key.WithHelp("3", "categories")),
	Sidebar:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "sidebar")),
	Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
}
