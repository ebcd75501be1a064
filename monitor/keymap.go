package monitor

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	refresh key.Binding
	quit    key.Binding
}

var defaultKeymap = keymap{
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
