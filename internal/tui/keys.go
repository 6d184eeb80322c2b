package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add      key.Binding
	Focus    key.Binding
	Delete   key.Binding
	Edit     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "input/list")),
		Delete:   key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// listHelp returns the bindings shown under the list for a variant.
func (k keyMap) listHelp(editable bool) []key.Binding {
	b := []key.Binding{k.Focus, k.Delete}
	if editable {
		b = append(b, k.Edit, k.MoveUp, k.MoveDown)
	}
	return b
}
