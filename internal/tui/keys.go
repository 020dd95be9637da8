package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the entire application
type KeyMap struct {
	Editor  EditorKeyMap
	HSL     HSLKeyMap
	Confirm ConfirmKeyMap
}

// EditorKeyMap defines keybindings for the swatch browser
type EditorKeyMap struct {
	PrevFamily key.Binding
	NextFamily key.Binding
	Up         key.Binding
	Down       key.Binding
	Mode       key.Binding
	Variant    key.Binding
	Fix        key.Binding
	FixAll     key.Binding
	EditHSL    key.Binding
	Paste      key.Binding
	ResetBase  key.Binding
	ResetAll   key.Binding
	CopyCSS    key.Binding
	CopyBase   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// HSLKeyMap defines keybindings for editing a base color
type HSLKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

// ConfirmKeyMap defines keybindings for confirmation prompts
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// Keys contains all the keybindings for the application
var Keys = KeyMap{
	Editor: EditorKeyMap{
		PrevFamily: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev family"),
		),
		NextFamily: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next family"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "light/dark"),
		),
		Variant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "on/alt"),
		),
		Fix: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fix contrast"),
		),
		FixAll: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "fix all"),
		),
		EditHSL: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit hsl"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste color"),
		),
		ResetBase: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset color"),
		),
		ResetAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset fixes"),
		),
		CopyCSS: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy css"),
		),
		CopyBase: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy hsl"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	},
	HSL: HSLKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Inc: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "increase"),
		),
		Dec: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "decrease"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	},
	Confirm: ConfirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
	},
}

// ShortHelp returns keybindings to show in the mini help view
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevFamily, k.NextFamily, k.Mode, k.Variant, k.Fix, k.EditHSL, k.CopyCSS, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevFamily, k.NextFamily, k.Up, k.Down},
		{k.Mode, k.Variant, k.Fix, k.FixAll},
		{k.EditHSL, k.Paste, k.ResetBase, k.ResetAll},
		{k.CopyCSS, k.CopyBase, k.Help, k.Quit},
	}
}

func (k HSLKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Inc, k.Dec, k.Apply, k.Cancel}
}

func (k HSLKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Inc, k.Dec, k.Apply, k.Cancel}}
}

func (k ConfirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k ConfirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
