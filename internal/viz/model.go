package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/interaction"
	"github.com/Fuatnow/planets-3d/internal/placing"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	historyCapacity = 300
	frameInterval   = time.Second / 60
	doubleClickTime = 400 * time.Millisecond

	// Cells taken by the canvas padding.
	padLeft, padTop = 2, 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

var keyActions = map[string]interaction.Action{
	"a":      interaction.ActionBeginFree,
	"o":      interaction.ActionBeginOrbital,
	"f":      interaction.ActionToggleFiring,
	"esc":    interaction.ActionCancel,
	"x":      interaction.ActionDeleteSelected,
	"delete": interaction.ActionDeleteSelected,
	"s":      interaction.ActionStopSelected,
	"c":      interaction.ActionCenterAll,
	"n":      interaction.ActionFollowNext,
	"p":      interaction.ActionFollowPrevious,
	"v":      interaction.ActionFollowAverage,
	"w":      interaction.ActionFollowWeighted,
	"u":      interaction.ActionClearFollow,
	"0":      interaction.ActionResetCamera,
	" ":      interaction.ActionTogglePause,
	"+":      interaction.ActionSpeedUp,
	"=":      interaction.ActionSpeedUp,
	"-":      interaction.ActionSlowDown,
	"r":      interaction.ActionRandom,
	"R":      interaction.ActionRandomOrbital,
	"C":      interaction.ActionClear,
}

// Model is the interactive viewer: it drives the controller from a frame
// tick and maps terminal input onto it.
type Model struct {
	ctl    *interaction.Controller
	clock  *sim.Clock
	canvas *Canvas
	theme  Theme
	st     styles
	title  string

	width, height int

	energy   []float64
	err      error
	showHelp bool

	held      interaction.Button
	lastPress time.Time
	lastBtn   interaction.Button
	now       func() time.Time
}

func NewModel(ctl *interaction.Controller, clock *sim.Clock, title string) Model {
	m := Model{
		ctl:    ctl,
		clock:  clock,
		canvas: NewCanvas(defaultWidth, defaultHeight),
		theme:  CurrentTheme,
		st:     newStyles(CurrentTheme),
		title:  title,
		energy: make([]float64, 0, historyCapacity),
		now:    time.Now,
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// WithTheme returns m drawing with t.
func (m Model) WithTheme(t Theme) Model {
	m.theme, m.st = t, newStyles(t)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = max(w, 10), max(h, 5)
	m.canvas.Resize(m.width, m.height)
	m.ctl.Camera.ResizeViewport(m.canvas.SubSize())
}

// subPixel maps a terminal cell to the centre of its sub-pixel block.
func subPixel(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{float64((x-padLeft)*2 + 1), float64((y-padTop)*4 + 2)}
}

func button(b tea.MouseButton) interaction.Button {
	switch b {
	case tea.MouseButtonLeft:
		return interaction.ButtonLeft
	case tea.MouseButtonMiddle:
		return interaction.ButtonMiddle
	case tea.MouseButtonRight:
		return interaction.ButtonRight
	}
	return interaction.ButtonNone
}

func (m *Model) mouse(msg tea.MouseMsg) {
	pos := subPixel(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctl.Wheel(1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctl.Wheel(-1)
	case msg.Action == tea.MouseActionPress:
		b := button(msg.Button)
		m.ctl.MouseMove(pos, interaction.ButtonNone)
		now := m.now()
		if b == m.lastBtn && now.Sub(m.lastPress) < doubleClickTime {
			m.ctl.DoubleClick(pos, b)
			m.lastPress = time.Time{}
		} else {
			m.ctl.Placing.Err = nil
			m.ctl.MouseClick(pos, b)
			if err := m.ctl.Placing.Err; err != nil {
				m.err = fmt.Errorf("place: %w", err)
			}
			m.lastPress = now
		}
		m.held, m.lastBtn = b, b
	case msg.Action == tea.MouseActionRelease:
		m.held = interaction.ButtonNone
	case msg.Action == tea.MouseActionMotion:
		m.ctl.MouseMove(pos, m.held)
	}
}

func (m *Model) key(k string) tea.Cmd {
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return nil
	case "t":
		m.theme = NextTheme(m.theme)
		m.st = newStyles(m.theme)
		return nil
	}
	a, ok := keyActions[k]
	if !ok {
		return nil
	}
	m.err = nil
	if err := m.ctl.Do(a); err != nil {
		m.err = fmt.Errorf("%s: %w", a, err)
	}
	return nil
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-sidebarWidth-padLeft*2-1, msg.Height-padTop*2)
	case tea.KeyMsg:
		return m, m.key(msg.String())
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(now time.Time) {
	delay := m.clock.Tick(now)
	if _, err := m.ctl.Frame(delay); err != nil {
		m.err = err
		if errors.Is(err, dynamo.ErrUnstable) {
			m.ctl.Speed.Pause()
		}
	}
	if len(m.energy) == historyCapacity {
		m.energy = append(m.energy[:0], m.energy[1:]...)
	}
	m.energy = append(m.energy, m.ctl.Universe.Energy())
	m.scene().Draw(m.canvas)
}

func (m *Model) scene() Scene {
	return Scene{
		Universe: m.ctl.Universe,
		Camera:   m.ctl.Camera,
		Placing:  m.ctl.Placing,
		Theme:    m.theme,
	}
}

func (m Model) statusLine() string {
	switch {
	case m.ctl.Placing.Active():
		return m.st.placing.Render("PLACING " + strings.ToUpper(m.ctl.Placing.Step.String()))
	case m.ctl.Speed.Paused():
		return m.st.paused.Render("PAUSED")
	case m.ctl.Placing.Mode() == placing.ModeFiring:
		return m.st.running.Render("FIRING")
	}
	return m.st.running.Render("RUNNING")
}

func (st styles) row(label, value string) string {
	return st.label.Render(label) + st.value.Render(value) + "\n"
}

func (m Model) View() string {
	u, st := m.ctl.Universe, m.st
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	speed := m.ctl.Speed.Speed()
	s.WriteString(st.label.Render("Speed") + st.value.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%.2fx", speed))) +
		st.bar(speed/universe.SpeedDialMax, 16) + "\n")
	s.WriteString(st.row("Time", fmt.Sprintf("%.1f", u.Time())))
	s.WriteString(st.row("Bodies", fmt.Sprintf("%d", u.Size())))
	s.WriteString(st.row("Follow", m.ctl.Camera.Mode.String()))
	if b, err := u.GetSelected(); err == nil {
		s.WriteString("\nSELECTED " + u.Selected.String() + "\n")
		s.WriteString(st.row("Mass", fmt.Sprintf("%.4g", b.Mass)))
		s.WriteString(st.row("Position", fmt.Sprintf("%.1f %.1f %.1f", b.Position.X(), b.Position.Y(), b.Position.Z())))
		s.WriteString(st.row("Speed", fmt.Sprintf("%.3g", b.Velocity.Len()/u.VelocityFactor)))
	}
	if m.ctl.Placing.Active() {
		s.WriteString("\nDRAFT\n")
		s.WriteString(st.row("Mass", fmt.Sprintf("%.4g", m.ctl.Placing.Planet.Mass)))
		s.WriteString(st.row("Speed", fmt.Sprintf("%.3g", m.ctl.Placing.Planet.Velocity.Len()/u.VelocityFactor)))
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(st.err.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nA:Place O:Orbit F:Fire Esc:Cancel\nR:Random SP:Pause +/-:Speed\nN/P:Follow X:Delete ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.Render()), st.sidebar.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════════╗
║            KEYBOARD SHORTCUTS            ║
╠══════════════════════════════════════════╣
║  A        - Place a body                 ║
║  O        - Place a body in orbit        ║
║  F        - Toggle firing mode           ║
║  Esc      - Cancel placement             ║
║  X / Del  - Delete selection             ║
║  S        - Stop selection               ║
║  C        - Centre all bodies            ║
║  N / P    - Follow next / previous       ║
║  V / W    - Follow average / weighted    ║
║  U        - Stop following               ║
║  0        - Reset camera                 ║
║  Space    - Pause/Resume                 ║
║  + / -    - Faster / slower              ║
║  R / ⇧R   - Random / random orbital      ║
║  ⇧C       - Remove every body            ║
║  T        - Cycle themes                 ║
║  Q        - Quit                         ║
╠══════════════════════════════════════════╣
║  Left click  - Select / place            ║
║  Right drag  - Rotate                    ║
║  Middle drag - Zoom                      ║
║  Wheel       - Zoom / draft mass         ║
║  Double click- Follow selection          ║
╚══════════════════════════════════════════╝`
