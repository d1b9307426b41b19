package main

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/mechanics/internal/ui"
)

type startupPhase uint8

const (
	phasePick startupPhase = iota
	phaseOpening
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupStatusMsg string

type startupModel struct {
	opts     options
	logger   *log.Logger
	picker   ui.PickerModel
	phase    startupPhase
	width    int
	height   int
	spinner  spinner.Model
	status   string
	statusCh chan string
}

func newStartupModel(opts options, logger *log.Logger) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return startupModel{
		opts:    opts,
		logger:  logger,
		picker:  ui.NewPicker(opts.cue),
		phase:   phasePick,
		spinner: s,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.phase == phasePick {
			return m.updatePicker(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.PickerCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.PresetSelectedMsg:
		m.phase = phaseOpening
		m.picker.SetError("")
		m.status = "Opening..."
		m.statusCh = make(chan string, 4)
		return m, tea.Batch(
			m.spinner.Tick,
			m.waitForStatus(),
			m.openSelectionCmd(msg),
		)

	case startupStatusMsg:
		m.status = string(msg)
		return m, m.waitForStatus()

	case startupResolvedMsg:
		if msg.err != nil {
			m.logger.Printf("open: %v", msg.err)
			m.phase = phasePick
			m.picker.SetError(msg.err.Error())
			m.statusCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phasePick {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m startupModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.picker.Update(msg)
	if picker, ok := model.(ui.PickerModel); ok {
		m.picker = picker
	}
	return m, cmd
}

func (m startupModel) openSelectionCmd(sel ui.PresetSelectedMsg) tea.Cmd {
	statusCh := m.statusCh
	opts, logger := m.opts, m.logger
	return func() tea.Msg {
		defer close(statusCh)
		model, err := buildPlayground(sel.Name, sel.CuePath, opts, logger, func(s string) {
			select {
			case statusCh <- s:
			default:
			}
		})
		return startupResolvedMsg{model: model, err: err}
	}
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupStatusMsg(status)
	}
}

func (m startupModel) View() string {
	if m.phase == phasePick {
		return m.picker.View()
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("mechanics"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render(m.status))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
