package internal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Start      key.Binding
	Stop       key.Binding
	Reset      key.Binding
	FireDown   key.Binding
	FireUp     key.Binding
	AddTick    key.Binding
	RemoveTick key.Binding
	NextTick   key.Binding
	PrevTick   key.Binding
	DragLeft   key.Binding
	DragRight  key.Binding
	Badges     key.Binding
	Silent     key.Binding
	Log        key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/stop/reset")),
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		FireDown:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "fire time")),
		FireUp:     key.NewBinding(key.WithKeys("right", "l")),
		AddTick:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "tick")),
		RemoveTick: key.NewBinding(key.WithKeys("-")),
		NextTick:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select tick")),
		PrevTick:   key.NewBinding(key.WithKeys("shift+tab")),
		DragLeft:   key.NewBinding(key.WithKeys("[", ","), key.WithHelp("[/]", "move tick")),
		DragRight:  key.NewBinding(key.WithKeys("]", ".")),
		Badges:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "badges")),
		Silent:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "silent")),
		Log:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "run log")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.FireDown, k.AddTick, k.NextTick, k.DragLeft, k.Badges, k.Silent, k.Log, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Start, k.Stop, k.Reset},
		{k.FireDown, k.AddTick, k.NextTick, k.DragLeft},
		{k.Badges, k.Silent, k.Log, k.Quit},
	}
}
