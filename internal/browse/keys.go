package browse

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search      key.Binding
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Sort        key.Binding
	ClearSort   key.Binding
	ToggleCol   key.Binding
	ShowAll     key.Binding
	HideAll     key.Binding
	ToggleRow   key.Binding
	TogglePage  key.Binding
	ClearSelect key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	BiggerPage  key.Binding
	SmallerPage key.Binding
	Export      key.Binding
	ExportSel   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		ClearSort:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "clear sort")),
		ToggleCol:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide column")),
		ShowAll:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "show all columns")),
		HideAll:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide all columns")),
		ToggleRow:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		TogglePage:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		ClearSelect: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		NextPage:    key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		PrevPage:    key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		BiggerPage:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger pages")),
		SmallerPage: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller pages")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export all")),
		ExportSel:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export selected")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.ToggleRow, k.NextPage, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Left, k.Right, k.Up, k.Down},
		{k.Sort, k.ClearSort, k.ToggleCol, k.ShowAll, k.HideAll},
		{k.ToggleRow, k.TogglePage, k.ClearSelect},
		{k.NextPage, k.PrevPage, k.BiggerPage, k.SmallerPage},
		{k.Export, k.ExportSel, k.Help, k.Quit},
	}
}
