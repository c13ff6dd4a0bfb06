// Package tui hosts the engine in a terminal: a bubbletea program that
// drives animation from a frame tick, draws the cube with a half-block ray
// caster and maps mouse drags and keys onto engine moves.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/gesture"
)

const (
	headerLines = 2
	footerLines = 2
	netMinWidth = 70
	bannerTime  = 3 * time.Second
	recentMoves = 20
)

// Options configures the terminal host.
type Options struct {
	Title string
	// Gesture tunes mouse drags, in cell-sized pixels.
	Gesture gesture.Config
	// KeySpeed is the animation speed of keyboard moves in degrees per step.
	KeySpeed float64
	// OrbitScale multiplies pointer movement when orbiting the camera.
	OrbitScale    float64
	FrameInterval time.Duration
	// Status returns an extra status line, such as a smart cube connection.
	Status func() string
	// OnReset runs after the reset key puts the cube back home.
	OnReset func()
	// OnQuit runs when the program quits, with the final camera.
	OnQuit func(cam *camera.Camera)
	Log    *logrus.Entry
}

// DefaultOptions returns settings tuned for terminal cells.
func DefaultOptions() Options {
	g := gesture.DefaultConfig()
	g.Sensitivity = 2
	g.LockFactor = 1.5
	g.InertiaThreshold = 0.03
	return Options{
		Title:         "grubix",
		Gesture:       g,
		KeySpeed:      grubix.DefaultReleaseSpeed * 2,
		OrbitScale:    6,
		FrameInterval: 33 * time.Millisecond,
	}
}

// Messages
type tickMsg time.Time
type solvedMsg struct{}

// Model is the bubbletea model.
type Model struct {
	engine  *grubix.Engine
	cam     *camera.Camera
	raster  *Raster
	tracker *gesture.Tracker
	opts    Options
	log     *logrus.Entry
	events  chan tea.Msg

	lastTick    time.Time
	bannerUntil time.Time
	frame       int

	width  int
	height int
	err    error

	quitting bool
}

type scaledOrbit struct {
	cam   *camera.Camera
	scale float64
}

func (o scaledOrbit) Orbit(dx, dy float64) {
	o.cam.Orbit(dx*o.scale, dy*o.scale)
}

// New builds a model for engine seen through cam.
func New(engine *grubix.Engine, cam *camera.Camera, opts Options) *Model {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	if opts.OrbitScale <= 0 {
		opts.OrbitScale = 1
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultOptions().FrameInterval
	}

	m := &Model{
		engine: engine,
		cam:    cam,
		raster: NewRaster(engine.PieceBounds()),
		opts:   opts,
		log:    log,
		events: make(chan tea.Msg, 16),
		width:  80,
		height: 24,
	}
	m.tracker = gesture.NewTracker(engine, scaledOrbit{cam, opts.OrbitScale}, opts.Gesture, log)

	// Hooks run inside Advance, on the Update goroutine, so they must not block.
	engine.OnSolved(func() {
		select {
		case m.events <- solvedMsg{}:
		default:
		}
	})
	return m
}

// Run starts the program on the alternate screen with mouse tracking.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.listenForEvents())
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// viewSize returns the cube area in cells.
func (m *Model) viewSize() (cols, rows int) {
	cols = m.width
	if m.width >= netMinWidth {
		cols = m.width - lipgloss.Width(m.netPanel())
	}
	rows = m.height - headerLines - footerLines
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (m *Model) viewport() camera.Viewport {
	cols, rows := m.viewSize()
	return m.cam.Viewport(float64(cols), float64(2*rows))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case tea.MouseMsg:
		m.handleMouse(msg, time.Now())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.engine.Advance(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.frame++
		return m, m.tickCmd()

	case solvedMsg:
		m.bannerUntil = m.lastTick.Add(bannerTime)
		m.log.Info("cube solved")
		return m, m.listenForEvents()
	}

	return m, nil
}

var keyFaces = map[string]grubix.Face{
	"u": grubix.FaceU, "d": grubix.FaceD,
	"l": grubix.FaceL, "r": grubix.FaceR,
	"f": grubix.FaceF, "b": grubix.FaceB,
	"m": grubix.FaceM, "e": grubix.FaceE,
	"s": grubix.FaceS,
}

func (m *Model) handleKey(key string) tea.Cmd {
	m.err = nil
	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		if m.opts.OnQuit != nil {
			m.opts.OnQuit(m.cam)
		}
		return tea.Quit
	case "1":
		if m.dragging() {
			return nil
		}
		_, err := m.engine.Scramble()
		m.setErr(err)
	case "2":
		if m.dragging() {
			return nil
		}
		_, err := m.engine.Solve()
		m.setErr(err)
	case "0":
		m.tracker.Cancel()
		m.engine.Reset()
		m.bannerUntil = time.Time{}
		if m.opts.OnReset != nil {
			m.opts.OnReset()
		}
	case "left":
		m.cam.Orbit(-5*m.opts.OrbitScale, 0)
	case "right":
		m.cam.Orbit(5*m.opts.OrbitScale, 0)
	case "up":
		m.cam.Orbit(0, -5*m.opts.OrbitScale)
	case "down":
		m.cam.Orbit(0, 5*m.opts.OrbitScale)
	case "+", "=":
		m.cam.Zoom(-200)
	case "-":
		m.cam.Zoom(200)
	default:
		face, ok := keyFaces[strings.ToLower(key)]
		if !ok || len(key) != 1 || m.dragging() {
			return nil
		}
		turn := grubix.CW
		if key != strings.ToLower(key) {
			turn = grubix.CCW
		}
		move := grubix.Move{Face: face, Turn: turn}
		m.setErr(m.engine.Enqueue([]grubix.Move{move}, m.opts.KeySpeed, grubix.SourceKeyboard))
	}
	return nil
}

// dragging reports whether a pointer drag is in progress. Moves wait for
// the drag to end.
func (m *Model) dragging() bool {
	return m.tracker.Mode() != gesture.ModeIdle
}

// setErr records err unless it only says the cube is busy.
func (m *Model) setErr(err error) {
	if err != nil && !errors.Is(err, grubix.ErrTransitionInProgress) {
		m.err = err
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg, now time.Time) {
	pos := CellPixel(msg.X, msg.Y-headerLines)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cam.Zoom(-100)
	case msg.Button == tea.MouseButtonWheelDown:
		m.cam.Zoom(100)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.tracker.Down(m.viewport(), pos, now)
	case msg.Action == tea.MouseActionMotion:
		m.tracker.Move(pos, now)
	case msg.Action == tea.MouseActionRelease:
		_, err := m.tracker.Up(pos, now)
		m.setErr(err)
	}
}

func (m *Model) netPanel() string {
	return netStyle.Render(RenderNet(m.engine.State()))
}

func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render(m.opts.Title))
	status := m.statusLine()
	if m.opts.Status != nil {
		status += "  " + m.opts.Status()
	}
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.movesLine())
	b.WriteString("\n")

	// Cube
	cols, rows := m.viewSize()
	view := m.raster.Render(m.engine.Snapshot(), m.viewport(), cols, rows)
	if m.width >= netMinWidth {
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, m.netPanel())
	}
	b.WriteString(view)
	b.WriteString("\n")

	// Footer
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.lastTick.Before(m.bannerUntil):
		b.WriteString(m.banner())
	default:
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Keys: face letter=turn (shift=reverse)  1=scramble  2=solve  0=reset  arrows=orbit  +/-=zoom  q=quit"))

	return b.String()
}

func (m *Model) statusLine() string {
	snap := m.engine.Snapshot()
	state := "scrambled"
	switch {
	case snap.Busy:
		state = "turning"
	case snap.Solved:
		state = "solved"
	}
	if face, ok := m.tracker.LockedFace(); ok {
		state = fmt.Sprintf("dragging %s", face)
	}
	return fmt.Sprintf("%s | %d moves", state, len(m.engine.History()))
}

func (m *Model) movesLine() string {
	history := m.engine.History()
	if len(history) == 0 {
		return statusStyle.Render("no moves yet")
	}
	prefix := ""
	if len(history) > recentMoves {
		history = history[len(history)-recentMoves:]
		prefix = "... "
	}
	return prefix + moveStyle.Render(grubix.FormatMoves(history))
}

var confetti = []string{"*", "+", "o", "x", "~"}

func (m *Model) banner() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		c := palette[(i+m.frame)%len(palette)]
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).
			Render(confetti[(i+m.frame)%len(confetti)]))
	}
	trail := b.String()
	return trail + " " + bannerStyle.Render("SOLVED!") + " " + trail
}
