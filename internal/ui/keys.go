package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Dismiss    key.Binding
	Reconnect  key.Binding
	Disconnect key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss toast"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reconnect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "disconnect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "f5"),
			key.WithHelp("R", "refresh wallet"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.Reconnect, k.Disconnect, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
