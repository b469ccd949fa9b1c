package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// KeyMap holds the tree list key bindings.
type KeyMap struct {
	Prev     key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Click    key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns bindings whose pointer keys follow the scroll axis:
// ↑/↓ for a vertical list, ←/→ for a horizontal one.
func DefaultKeyMap(axis treelist.Axis) KeyMap {
	prev := key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev"))
	next := key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next"))
	if axis == treelist.Horizontal {
		prev = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev"))
		next = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next"))
	}
	return KeyMap{
		Prev:     prev,
		Next:     next,
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Click:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle/select")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:    key.NewBinding(key.WithKeys("esc", "?"), key.WithHelp("esc", "close help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Click, k.Help, k.Quit}
}

// FullHelp groups every binding for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Click, k.Copy, k.Reload, k.Help, k.Quit},
	}
}
