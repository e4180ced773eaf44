package cli

import "github.com/charmbracelet/bubbles/key"

// gridKeyMap lists every interactive grid shortcut. It implements
// help.KeyMap so the help bar stays in sync with the bindings.
type gridKeyMap struct {
	Up, Down, Left, Right                         key.Binding
	ExtendUp, ExtendDown, ExtendLeft, ExtendRight key.Binding
	Assign                                        key.Binding
	Clear                                         key.Binding
	Paint                                         key.Binding
	PrevProject, NextProject                      key.Binding
	AllocUp, AllocDown                            key.Binding
	Copy, Cut, Paste                              key.Binding
	Undo, Redo                                    key.Binding
	SelectAll                                     key.Binding
	PrevQuarter, NextQuarter                      key.Binding
	Filter                                        key.Binding
	Escape                                        key.Binding
	Help                                          key.Binding
	Quit                                          key.Binding
}

func newGridKeyMap() gridKeyMap {
	return gridKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		ExtendLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "extend left")),
		ExtendRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "extend right")),
		Assign:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "assign")),
		Clear:       key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x/del", "clear")),
		Paint:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paint")),
		PrevProject: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev project")),
		NextProject: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next project")),
		AllocUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "alloc up")),
		AllocDown:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "alloc down")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Cut:         key.NewBinding(key.WithKeys("d", "ctrl+x"), key.WithHelp("d", "cut")),
		Paste:       key.NewBinding(key.WithKeys("v", "ctrl+v"), key.WithHelp("v", "paste")),
		Undo:        key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("ctrl+r", "ctrl+y"), key.WithHelp("ctrl+r", "redo")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		PrevQuarter: key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "prev quarter")),
		NextQuarter: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "next quarter")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter rows")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "collapse")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k gridKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Assign, k.Clear, k.Paint, k.NextProject, k.AllocUp, k.Undo, k.Filter, k.Help, k.Quit}
}

func (k gridKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.SelectAll, k.Escape},
		{k.ExtendUp, k.ExtendDown, k.ExtendLeft, k.ExtendRight},
		{k.Assign, k.Clear, k.Paint, k.PrevProject, k.NextProject, k.AllocUp, k.AllocDown},
		{k.Copy, k.Cut, k.Paste, k.Undo, k.Redo},
		{k.PrevQuarter, k.NextQuarter, k.Filter, k.Help, k.Quit},
	}
}
