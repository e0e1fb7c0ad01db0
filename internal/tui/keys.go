package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings of the chat screen
type KeyMap struct {
	Send     key.Binding
	Newline  key.Binding
	Cancel   key.Binding
	Quit     key.Binding
	Suggest  key.Binding
	Copy     key.Binding
	Health   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("Alt+Enter", "newline"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel/quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "suggestion"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy answer"),
		),
		Health: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "health"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Suggest, k.Copy, k.Cancel}
}

// LoadingHelp returns the bindings shown while a request is in flight
func (k KeyMap) LoadingHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}
