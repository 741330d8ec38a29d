package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Picker is a multi-select component for editing the extension whitelist.
// It lists the extensions available in the share directory; entries already
// on the whitelist start checked.
type Picker struct {
	title     string
	items     []pgextgate.AvailableExtension
	checked   map[int]bool
	cursor    int
	width     int
	showHelp  bool
	keyMap    pickerKeyMap
	styles    pickerStyles
	submitted bool
	cancelled bool
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Accept key.Binding
	Quit   key.Binding
}

type pickerStyles struct {
	Title   lipgloss.Style
	Cursor  lipgloss.Style
	Checked lipgloss.Style
	Plain   lipgloss.Style
	Version lipgloss.Style
	Help    lipgloss.Style
}

func defaultPickerStyles() pickerStyles {
	return pickerStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Cursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Checked: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Plain:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Version: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(4),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
	}
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		None: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "none"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "cancel"),
		),
	}
}

// NewPicker creates a whitelist picker over the given available extensions.
// Extensions named in whitelisted start checked.
func NewPicker(title string, items []pgextgate.AvailableExtension, whitelisted []string) Picker {
	onList := make(map[string]bool, len(whitelisted))
	for _, name := range whitelisted {
		onList[name] = true
	}

	checked := make(map[int]bool, len(items))
	for i, item := range items {
		if onList[item.Name] {
			checked[i] = true
		}
	}

	return Picker{
		title:    title,
		items:    items,
		checked:  checked,
		cursor:   0,
		width:    60,
		showHelp: true,
		keyMap:   defaultPickerKeyMap(),
		styles:   defaultPickerStyles(),
	}
}

// WithShowHelp enables or disables the help text.
func (p Picker) WithShowHelp(show bool) Picker {
	p.showHelp = show
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keyMap.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, p.keyMap.Down):
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case key.Matches(msg, p.keyMap.Toggle):
			if len(p.items) > 0 {
				p.checked[p.cursor] = !p.checked[p.cursor]
			}
		case key.Matches(msg, p.keyMap.All):
			for i := range p.items {
				p.checked[i] = true
			}
		case key.Matches(msg, p.keyMap.None):
			for i := range p.items {
				p.checked[i] = false
			}
		case key.Matches(msg, p.keyMap.Accept):
			p.submitted = true
			return p, tea.Quit
		case key.Matches(msg, p.keyMap.Quit):
			p.cancelled = true
			return p, tea.Quit
		}
	case tea.WindowSizeMsg:
		p.width = msg.Width
	}
	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Title.Render(p.title))
	b.WriteString("\n\n")

	for i, item := range p.items {
		cursor := "  "
		if i == p.cursor {
			cursor = p.styles.Cursor.Render("> ")
		}

		box := "[ ]"
		style := p.styles.Plain
		if p.checked[i] {
			box = "[x]"
			style = p.styles.Checked
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(box + " " + item.Name))
		if item.DefaultVersion != "" {
			b.WriteString(p.styles.Version.Render("default " + item.DefaultVersion))
		}
		b.WriteString("\n")
	}

	if p.showHelp {
		b.WriteString(p.styles.Help.Render("\n↑/↓ navigate • space toggle • a all • n none • enter accept • q cancel"))
	}

	return b.String()
}

// Selected returns the names of the checked extensions, sorted.
func (p Picker) Selected() []string {
	var names []string
	for i, item := range p.items {
		if p.checked[i] {
			names = append(names, item.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Cancelled returns true if the user cancelled the picker.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Submitted returns true if the user accepted the selection.
func (p Picker) Submitted() bool {
	return p.submitted
}

// RunPicker runs the picker and returns the accepted selection.
// ok is false when the user cancelled.
func RunPicker(title string, items []pgextgate.AvailableExtension, whitelisted []string) (names []string, ok bool, err error) {
	model, err := tea.NewProgram(NewPicker(title, items, whitelisted)).Run()
	if err != nil {
		return nil, false, err
	}

	picker := model.(Picker)
	if !picker.Submitted() {
		return nil, false, nil
	}
	return picker.Selected(), true, nil
}
