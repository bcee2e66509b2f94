package watch

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Reset        key.Binding
	TestReminder key.Binding
	NextInterval key.Binding
	Toggle       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset sitting time"),
		),
		TestReminder: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test reminder"),
		),
		NextInterval: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "next interval"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume reminders"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.NextInterval, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reset, k.TestReminder},
		{k.NextInterval, k.Toggle},
		{k.Help, k.Quit},
	}
}
