package overlay

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the overlay layer reacts to
type KeyMap struct {
	Dismiss key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Accept  key.Binding
	Left    key.Binding
	Right   key.Binding
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "cancel button")),
		Right:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "confirm button")),
	}
}

// WithDismissKeys rebinds the dismiss trigger
func (k KeyMap) WithDismissKeys(keys ...string) KeyMap {
	if len(keys) == 0 {
		return k
	}
	k.Dismiss = key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], "close"))
	return k
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Accept, k.Dismiss}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}, k.ShortHelp()}
}
