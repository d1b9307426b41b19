package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	FarLeft   key.Binding
	FarRight  key.Binding
	Goto      key.Binding
	Sweep     key.Binding
	Swap      key.Binding
	Visualize key.Binding
	Mute      key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "drag back")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "drag on")),
		FarLeft:   key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "drag back ×5")),
		FarRight:  key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "drag on ×5")),
		Goto:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to offset")),
		Sweep:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto sweep")),
		Swap:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next preset")),
		Visualize: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "viz")),
		Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute cue")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Sweep, k.Swap, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.FarLeft, k.FarRight, k.Goto},
		{k.Sweep, k.Swap, k.Reset},
		{k.Visualize, k.Mute, k.Help, k.Quit},
	}
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}
