package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the host screen bindings. They only apply while no overlay
// is open; ForceQuit works at any time.
type KeyMap struct {
	Dialog    key.Binding
	Drawer    key.Binding
	Confirm   key.Binding
	Pinned    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the host bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dialog:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dialog")),
		Drawer:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "note drawer")),
		Confirm:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "discard notes")),
		Pinned:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pinned dialog")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dialog, k.Drawer, k.Confirm, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dialog, k.Drawer, k.Confirm, k.Pinned},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
