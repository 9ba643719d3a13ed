package tui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active outside overlays.
type GlobalKeys struct {
	Quit   key.Binding
	Help   key.Binding
	Tab    key.Binding
	Filter key.Binding
	Reload key.Binding
	Export key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch panel"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Export: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "export raw"),
	),
}

// NavKeys move through tasks and steps from any panel.
type NavKeys struct {
	PrevTask key.Binding
	NextTask key.Binding
	PrevStep key.Binding
	NextStep key.Binding
	Toggle   key.Binding
}

var navKeys = NavKeys{
	PrevTask: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev task"),
	),
	NextTask: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next task"),
	),
	PrevStep: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("h/←", "prev step"),
	),
	NextStep: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("l/→", "next step"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "full/single"),
	),
}

// ListKeys are active when a list (tasks or contents) is focused.
type ListKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Enter  key.Binding
}

var listKeys = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
}

// ScrollKeys scroll the right panel viewports.
type ScrollKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var scrollKeys = ScrollKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "scroll down"),
	),
}

// TabSwitchKeys switch panel tabs.
type TabSwitchKeys struct {
	Tasks    key.Binding
	Contents key.Binding
	Steps    key.Binding
	Summary  key.Binding
	Patch    key.Binding
}

var tabSwitchKeys = TabSwitchKeys{
	Tasks: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "Tasks"),
	),
	Contents: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "Contents"),
	),
	Steps: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "Steps"),
	),
	Summary: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "Summary"),
	),
	Patch: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "Patch"),
	),
}

// FilterKeys are active in the filter overlay.
type FilterKeys struct {
	Up     key.Binding
	Down   key.Binding
	Cycle  key.Binding
	Edit   key.Binding
	Apply  key.Binding
	Clear  key.Binding
	Cancel key.Binding
}

var filterKeys = FilterKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "shift+tab"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "tab"),
	),
	Cycle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "cycle status"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "edit"),
	),
	Apply: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "apply"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}
