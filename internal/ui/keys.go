package ui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Search    key.Binding
	Escape    key.Binding
	Publisher key.Binding
	Tag       key.Binding
	Location  key.Binding
	Date      key.Binding
	Sort      key.Binding
	SortDir   key.Binding
	View      key.Binding
	PageSize  key.Binding
	Month     key.Binding
	Enter     key.Binding
	Mark      key.Binding
	Export    key.Binding
	Insights  key.Binding
	Ask       key.Binding
	Guided    key.Binding
	Refresh   key.Binding
	Clear     key.Binding
}{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Up:        key.NewBinding(key.WithKeys("k", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down")),
	PrevPage:  key.NewBinding(key.WithKeys("h", "left")),
	NextPage:  key.NewBinding(key.WithKeys("l", "right")),
	Search:    key.NewBinding(key.WithKeys("/")),
	Escape:    key.NewBinding(key.WithKeys("esc")),
	Publisher: key.NewBinding(key.WithKeys("p")),
	Tag:       key.NewBinding(key.WithKeys("t")),
	Location:  key.NewBinding(key.WithKeys("o")),
	Date:      key.NewBinding(key.WithKeys("d")),
	Sort:      key.NewBinding(key.WithKeys("s")),
	SortDir:   key.NewBinding(key.WithKeys("S")),
	View:      key.NewBinding(key.WithKeys("v")),
	PageSize:  key.NewBinding(key.WithKeys("n")),
	Month:     key.NewBinding(key.WithKeys("m")),
	Enter:     key.NewBinding(key.WithKeys("enter")),
	Mark:      key.NewBinding(key.WithKeys(" ")),
	Export:    key.NewBinding(key.WithKeys("x")),
	Insights:  key.NewBinding(key.WithKeys("i")),
	Ask:       key.NewBinding(key.WithKeys("?")),
	Guided:    key.NewBinding(key.WithKeys("G")),
	Refresh:   key.NewBinding(key.WithKeys("r")),
	Clear:     key.NewBinding(key.WithKeys("c")),
}
