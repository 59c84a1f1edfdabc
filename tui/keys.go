package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	Filter    key.Binding
	Done      key.Binding
	Limit     key.Binding
	Sort      key.Binding
	SortBack  key.Binding
	Reload    key.Binding
	ClearText key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Done:      key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "done")),
		Limit:     key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "limit")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s/S", "sort")),
		SortBack:  key.NewBinding(key.WithKeys("S")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		ClearText: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
	}
}

func (k keyMap) help(filtering bool) string {
	bindings := []key.Binding{k.Filter, k.Limit, k.Sort, k.Reload, k.Quit}
	if filtering {
		bindings = []key.Binding{k.Done, k.ClearText}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}
