package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/mechanics/internal/preset"
)

// PresetSelectedMsg is emitted when a preset is chosen in the picker.
type PresetSelectedMsg struct {
	Name string
	// CuePath is the sound file to play on segment changes, if one was set.
	CuePath string
}

// PickerCancelledMsg is emitted when the picker is dismissed.
type PickerCancelledMsg struct{}

type presetItem struct {
	name string
	desc string
}

func (i presetItem) Title() string       { return i.name }
func (i presetItem) Description() string { return i.desc }
func (i presetItem) FilterValue() string { return i.name }

type cueItem struct {
	path string
}

func (i cueItem) Title() string { return "Cue sound..." }
func (i cueItem) Description() string {
	if i.path == "" {
		return "built-in click"
	}
	return i.path
}
func (i cueItem) FilterValue() string { return "cue" }

// PickerModel lists the built-in presets.
type PickerModel struct {
	list     list.Model
	input    textinput.Model
	cueMode  bool
	cuePath  string
	errorMsg string
}

// NewPicker creates a picker over preset.Registry. cuePath preselects the
// cue sound.
func NewPicker(cuePath string) PickerModel {
	items := []list.Item{cueItem{path: cuePath}}
	for _, p := range preset.Registry {
		items = append(items, presetItem{name: p.Name, desc: p.Description})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#FF5F1F", Dark: "#FF8C00"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#FF5F1F", Dark: "#FF8C00"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "mechanics"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	if len(items) > 1 {
		l.Select(1)
	}

	ti := textinput.New()
	ti.Placeholder = "click.wav"
	ti.CharLimit = 1024
	ti.Width = 60

	return PickerModel{list: l, input: ti, cuePath: cuePath}
}

// CuePath returns the cue sound chosen so far.
func (m PickerModel) CuePath() string { return m.cuePath }

// SetError shows msg above the list until the next selection.
func (m *PickerModel) SetError(msg string) { m.errorMsg = msg }

func (m PickerModel) Init() tea.Cmd {
	return tea.SetWindowTitle("mechanics")
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.cueMode {
		return m.updateCueInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case cueItem:
				m.cueMode = true
				m.input.SetValue(m.cuePath)
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("mechanics · cue sound"))
			case presetItem:
				m.errorMsg = ""
				sel := PresetSelectedMsg{Name: item.name, CuePath: m.cuePath}
				return m, func() tea.Msg { return sel }
			}
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return PickerCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) updateCueInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			m.cuePath = strings.TrimSpace(m.input.Value())
			m.list.SetItem(0, cueItem{path: m.cuePath})
			m.closeCueInput()
			return m, tea.SetWindowTitle("mechanics")
		case "esc":
			m.closeCueInput()
			return m, tea.SetWindowTitle("mechanics")
		case "ctrl+c":
			return m, func() tea.Msg { return PickerCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PickerModel) closeCueInput() {
	m.cueMode = false
	m.input.Reset()
	m.input.Blur()
}

func (m PickerModel) View() string {
	if m.cueMode {
		s := "\n"
		s += "  " + headerStyle.Render("mechanics") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Cue sound (wav, mp3, flac, ogg; empty for the built-in click):") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	if m.errorMsg != "" {
		return fmt.Sprintf("\n  %s\n%s", errorStyle.Render(m.errorMsg), m.list.View())
	}
	return m.list.View()
}
