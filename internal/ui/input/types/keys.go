package types

import (
	"github.com/charmbracelet/bubbles/key"

	"labbatch/internal/batch"
)

// KeyMap holds the list-view bindings. It also feeds the help footer.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	Clear       key.Binding
	Menu        key.Binding
	Delete      key.Binding
	Archive     key.Binding
	Tag         key.Binding
	Move        key.Binding
	Export      key.Binding
	Copy        key.Binding
	Share       key.Binding
	Undo        key.Binding
	History     key.Binding
	Preview     key.Binding
	ShowArchive key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// Keys is the default key map
var Keys = KeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "extend up")),
	ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "extend down")),
	Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelectAll:   key.NewBinding(key.WithKeys("a", "ctrl+a"), key.WithHelp("a", "select all")),
	Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	Menu:        key.NewBinding(key.WithKeys("b", "enter"), key.WithHelp("b", "batch actions")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Archive:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archive")),
	Tag:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add tags")),
	Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to")),
	Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Copy:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Share:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
	Undo:        key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
	History:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "undo history")),
	Preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	ShowArchive: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show archived")),
	Refresh:     key.NewBinding(key.WithKeys("r", "F5"), key.WithHelp("r", "refresh")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Shortcuts maps direct operation keys to operations
var Shortcuts = []struct {
	Binding *key.Binding
	Op      batch.OperationID
}{
	{&Keys.Copy, batch.OpCopy},
	{&Keys.Archive, batch.OpArchive},
	{&Keys.Tag, batch.OpTag},
	{&Keys.Move, batch.OpMove},
	{&Keys.Export, batch.OpExport},
	{&Keys.Share, batch.OpShare},
	{&Keys.Delete, batch.OpDelete},
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Menu, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Select, k.ExtendUp, k.ExtendDown, k.SelectAll, k.Clear, k.Menu},
		{k.Copy, k.Archive, k.Tag, k.Move, k.Export, k.Share, k.Delete},
		{k.Undo, k.History, k.Preview, k.ShowArchive, k.Refresh, k.Help, k.Quit},
	}
}
