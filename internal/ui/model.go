package ui

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/mechanics/internal/gesture"
	"github.com/olivier-w/mechanics/internal/motion"
	"github.com/olivier-w/mechanics/internal/preset"
	"github.com/olivier-w/mechanics/internal/spec"
	"github.com/olivier-w/mechanics/internal/util"
	"github.com/olivier-w/mechanics/internal/visualizer"
)

// historyFrames is how many frames each value keeps for the visualizers.
const historyFrames = 240

// Cue is fired whenever a motion value changes segment.
type Cue interface {
	Play() error
	Muted() bool
	SetMuted(muted bool)
}

// Config holds the playground settings taken from the command line.
type Config struct {
	FPS  int
	Slop float64
	Step float64
	// Cue may be nil.
	Cue Cue
	// Log may be nil, in which case nothing is logged.
	Log *log.Logger
}

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Step <= 0 {
		c.Step = 1
	}
	if c.Slop == 0 {
		c.Slop = 2
	}
	if c.Log == nil {
		c.Log = log.New(io.Discard, "", 0)
	}
	return c
}

// Model is the Bubbletea model for the motion playground.
type Model struct {
	cfg     Config
	preset  preset.Preset
	gesture *gesture.DistanceGestureContext
	primary *motion.MotionValue
	derived *motion.MotionValue

	// Tick order: sources first.
	values   []*motion.MotionValue
	segments []spec.SegmentKey
	bars     []progress.Model

	start     time.Time
	lastFrame int64
	ticking   bool
	sweep     SweepMode
	sweepDir  float64

	entering bool
	input    textinput.Model

	modes   []visualizer.Visualizer
	modeIdx int

	keys     keyMap
	help     help.Model
	width    int
	height   int
	status   string
	err      error
	quitting bool
}

// New creates a playground for p.
func New(p preset.Preset, cfg Config) (Model, error) {
	cfg = cfg.withDefaults()

	gc, err := gesture.NewDistanceGestureContext(p.MinOffset, spec.Max, cfg.Slop)
	if err != nil {
		return Model{}, err
	}
	primary, err := motion.New(gc.DragOffset, gc, p.Spec,
		motion.WithLabel(p.Name),
		motion.WithDebugInspector(historyFrames))
	if err != nil {
		return Model{}, fmt.Errorf("creating %s: %w", p.Name, err)
	}
	derived, err := primary.Derive(derivedSpec(p),
		motion.WithLabel(p.Name+" ▸ derived"),
		motion.WithDebugInspector(historyFrames))
	if err != nil {
		return Model{}, fmt.Errorf("deriving %s: %w", p.Name, err)
	}

	ti := textinput.New()
	ti.Placeholder = "offset"
	ti.CharLimit = 16
	ti.Width = 12

	bars := []progress.Model{
		progress.New(progress.WithScaledGradient("#FF8C00", "#FF5F1F"), progress.WithoutPercentage()),
		progress.New(progress.WithScaledGradient("#5A56E0", "#EE6FF8"), progress.WithoutPercentage()),
	}

	m := Model{
		cfg:     cfg,
		preset:  p,
		gesture: gc,
		primary: primary,
		derived: derived,
		values:  motion.NewLoop(nil, derived).Values(),
		bars:    bars,
		input:   ti,
		modes:   visualizer.Modes(),
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.segments = make([]spec.SegmentKey, len(m.values))
	for i, v := range m.values {
		m.segments[i] = v.SegmentKey()
	}
	m.resize(80, 24)
	m.ticking = true
	return m, nil
}

func derivedSpec(p preset.Preset) *spec.MotionSpec {
	if p.Derived != nil {
		return p.Derived
	}
	return spec.EmptyMotionSpec
}

// Init schedules the first frame. New marks the model as ticking for it.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.interval()), tea.SetWindowTitle(windowTitle(m.preset.Name)))
}

// Preset returns the active preset.
func (m Model) Preset() preset.Preset { return m.preset }

// Values returns the motion values in tick order.
func (m Model) Values() []*motion.MotionValue { return m.values }

// Close releases the cue's audio resources.
func (m Model) Close() error {
	if c, ok := m.cfg.Cue.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Err returns the error that stopped the animation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.entering {
			return m.updateOffsetInput(msg)
		}
		return m.handleKey(msg)

	case frameMsg:
		return m.frame(time.Time(msg))

	case cuePlayedMsg:
		if msg.err != nil && m.cfg.Cue != nil {
			m.cfg.Log.Printf("cue: %v", msg.err)
			m.status = "cue disabled: " + msg.err.Error()
			m.cfg.Cue.SetMuted(true)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveBy(-m.cfg.Step)
	case key.Matches(msg, m.keys.Right):
		m.moveBy(m.cfg.Step)
	case key.Matches(msg, m.keys.FarLeft):
		m.moveBy(-5 * m.cfg.Step)
	case key.Matches(msg, m.keys.FarRight):
		m.moveBy(5 * m.cfg.Step)
	case key.Matches(msg, m.keys.Goto):
		m.entering = true
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Sweep):
		m.sweep = m.sweep.Next()
	case key.Matches(msg, m.keys.Swap):
		next := preset.Next(m.preset.Name)
		if err := m.swapPreset(next); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, tea.Batch(m.wake(), tea.SetWindowTitle(windowTitle(next.Name)))
	case key.Matches(msg, m.keys.Visualize):
		m.modeIdx = (m.modeIdx + 1) % len(m.modes)
		m.updateVisualizer()
		return m, nil
	case key.Matches(msg, m.keys.Mute):
		if m.cfg.Cue != nil {
			m.cfg.Cue.SetMuted(!m.cfg.Cue.Muted())
		}
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.sweep = SweepOff
		m.gesture.Reset(m.preset.MinOffset, spec.Max)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
	return m, m.wake()
}

func (m Model) updateOffsetInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			m.status = fmt.Sprintf("not an offset: %q", m.input.Value())
			return m, nil
		}
		m.closeOffsetInput()
		m.moveTo(v)
		return m, m.wake()
	case "esc":
		m.closeOffsetInput()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeOffsetInput() {
	m.entering = false
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) moveBy(delta float64) {
	m.moveTo(m.gesture.DragOffset() + delta)
}

func (m *Model) moveTo(offset float64) {
	lo, hi := m.preset.Range()
	m.gesture.SetDragOffset(math.Min(hi, math.Max(lo, offset)))
}

// swapPreset hands the values the specs of next. The values blend into
// them with the new spec's reset spring on the next frame.
func (m *Model) swapPreset(next preset.Preset) error {
	if err := m.primary.SetSpec(next.Spec); err != nil {
		return err
	}
	if err := m.derived.SetSpec(derivedSpec(next)); err != nil {
		return err
	}
	m.cfg.Log.Printf("preset %s -> %s", m.preset.Name, next.Name)
	m.preset = next
	m.moveBy(0)
	return nil
}

// wake schedules a frame unless one is already pending.
func (m *Model) wake() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return frameCmd(m.interval())
}

func (m Model) interval() time.Duration {
	return time.Second / time.Duration(m.cfg.FPS)
}

func (m Model) frame(t time.Time) (Model, tea.Cmd) {
	if m.err != nil {
		m.ticking = false
		return m, nil
	}
	if m.start.IsZero() {
		m.start = t
	}
	if m.sweep != SweepOff {
		lo, hi := m.preset.Range()
		step := (hi - lo) / (4 * float64(m.cfg.FPS))
		var offset float64
		offset, m.sweepDir = m.sweep.sweepStep(m.gesture.DragOffset(), m.sweepDir, step, lo, hi)
		m.gesture.SetDragOffset(offset)
	}

	nanos := max(m.lastFrame, t.Sub(m.start).Nanoseconds())
	m.lastFrame = nanos

	changed := false
	for i, v := range m.values {
		if _, err := v.Tick(nanos); err != nil {
			m.err = fmt.Errorf("%s: %w", v.Label(), err)
			m.cfg.Log.Printf("tick: %v", m.err)
			m.ticking = false
			return m, nil
		}
		if k := v.SegmentKey(); k != m.segments[i] {
			m.cfg.Log.Printf("%s: %s -> %s at %s", v.Label(), segmentLabel(m.segments[i]), segmentLabel(k), util.FormatValue(m.gesture.DragOffset()))
			m.segments[i] = k
			if v == m.primary || m.preset.Derived != nil {
				changed = true
			}
		}
	}
	m.updateVisualizer()

	var cmds []tea.Cmd
	if changed && m.cfg.Cue != nil {
		cmds = append(cmds, playCue(m.cfg.Cue))
	}
	if m.needsFrame() {
		m.ticking = true
		cmds = append(cmds, frameCmd(m.interval()))
	} else {
		m.ticking = false
	}
	return m, tea.Batch(cmds...)
}

func (m Model) needsFrame() bool {
	if m.sweep != SweepOff {
		return true
	}
	for _, v := range m.values {
		if v.NeedsTick() {
			return true
		}
	}
	return false
}

func playCue(c Cue) tea.Cmd {
	return func() tea.Msg {
		return cuePlayedMsg{err: c.Play()}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	barWidth := min(60, max(10, width-40))
	for i := range m.bars {
		m.bars[i].Width = barWidth
	}
	m.help.Width = width
	m.updateVisualizer()
}

func (m Model) vizSize() (int, int) {
	w := max(20, min(m.width-4, 100))
	h := 6
	if m.height > 0 && m.height < 28 {
		h = max(3, m.height-22)
	}
	return w, h
}

func (m Model) updateVisualizer() {
	if len(m.modes) == 0 {
		return
	}
	w, h := m.vizSize()
	frames := m.primary.Inspector().Frames(0)
	m.modes[m.modeIdx].Update(frames, visualizer.Scale{Min: m.preset.MinOutput, Max: m.preset.MaxOutput}, w, h)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("mechanics") + "  " + titleStyle.Render(m.preset.Name) + "\n")
	b.WriteString("  " + subtitleStyle.Render(m.preset.Description) + "\n\n")

	lo, hi := m.preset.Range()
	dir := m.gesture.Direction()
	ruler := renderRuler(m.gesture.DragOffset(), lo, hi, breakpointMarks(m.primary.Spec().Get(dir)), m.bars[0].Width+2)
	b.WriteString(fmt.Sprintf("  %s %s %s %s\n\n",
		statusStyle.Render("drag"),
		ruler,
		valueStyle.Render(util.FormatValue(m.gesture.DragOffset())),
		statusStyle.Render(directionArrow(dir))))

	b.WriteString(m.renderValue(m.primary, m.bars[0]))
	if m.preset.Derived != nil {
		b.WriteString(m.renderValue(m.derived, m.bars[1]))
	}
	b.WriteString("\n")

	mode := m.modes[m.modeIdx]
	b.WriteString("  " + headerStyle.Render(mode.Name()) + "\n")
	b.WriteString(indentBlock(mode.View(), "  ") + "\n\n")

	b.WriteString("  " + statusStyle.Render(m.statusLine()) + "\n")
	if m.err != nil {
		b.WriteString("  " + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("  " + errorStyle.Render(m.status) + "\n")
	}
	if m.entering {
		b.WriteString("  " + statusStyle.Render("go to offset:") + " " + m.input.View() + "\n")
	}
	b.WriteString("\n  " + helpStyle.Render(m.help.View(m.keys)) + "\n")
	return b.String()
}

func (m Model) renderValue(v *motion.MotionValue, bar progress.Model) string {
	state := restingStyle.Render("at rest")
	if !v.IsStable() {
		state = movingStyle.Render("moving " + util.FormatDelta(v.SpringState().Displacement))
	}
	line := fmt.Sprintf("  %-8s %s %s → %s  %s  %s",
		truncate(v.Label(), 8),
		bar.ViewAs(m.preset.Normalize(v.Output())),
		valueStyle.Render(util.FormatValue(v.Output())),
		valueStyle.Render(util.FormatValue(v.OutputTarget())),
		statusStyle.Render(segmentLabel(v.SegmentKey())),
		state)
	if expanded, ok := motion.Get(v, preset.Expanded); ok {
		if expanded {
			line += "  " + titleStyle.Render("expanded")
		} else {
			line += "  " + helpStyle.Render("collapsed")
		}
	}
	return line + "\n"
}

func (m Model) statusLine() string {
	parts := []string{fmt.Sprintf("%d fps", m.cfg.FPS)}
	if f, ok := m.primary.Inspector().Latest(); ok {
		parts = append(parts, f.SpringParameters.String())
		if f.GuaranteeFraction > 0 {
			parts = append(parts, fmt.Sprintf("guarantee %d%%", int(f.GuaranteeFraction*100)))
		}
		parts = append(parts, "t="+util.FormatDuration(time.Duration(f.FrameNanos)))
	}
	if icon := m.sweep.Icon(); icon != "" {
		parts = append(parts, icon)
	}
	if m.cfg.Cue != nil && m.cfg.Cue.Muted() {
		parts = append(parts, "[muted]")
	}
	return strings.Join(parts, "  ")
}

func windowTitle(name string) string {
	return name + " · mechanics"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
