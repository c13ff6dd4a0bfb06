package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/gesture"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle feeds ticks until the engine is idle.
func settle(t *testing.T, m *Model, start time.Time) time.Time {
	t.Helper()
	now := start
	m.Update(tickMsg(now))
	for i := 0; i < 500 && m.engine.TransitionInProgress(); i++ {
		now = now.Add(100 * time.Millisecond)
		m.Update(tickMsg(now))
	}
	if m.engine.TransitionInProgress() {
		t.Fatal("engine still busy after ticks")
	}
	return now
}

func TestKeyboardMoves(t *testing.T) {
	e := newEngine(t)
	m := New(e, camera.New(), DefaultOptions())

	m.Update(key("r"))
	m.Update(key("U"))
	settle(t, m, time.Unix(0, 0))

	got := grubix.FormatMoves(e.History())
	if got != "R U'" {
		t.Errorf("history = %q, want \"R U'\"", got)
	}
	if !strings.Contains(m.View(), "R U'") {
		t.Error("view does not list the moves")
	}
}

func TestUnknownKeyIgnored(t *testing.T) {
	e := newEngine(t)
	m := New(e, camera.New(), DefaultOptions())
	m.Update(key("z"))
	m.Update(key("rr"))
	if e.TransitionInProgress() {
		t.Error("unknown keys queued a move")
	}
}

func TestScrambleSolveResetKeys(t *testing.T) {
	e := newEngine(t)
	m := New(e, camera.New(), DefaultOptions())

	m.Update(key("1"))
	if !e.TransitionInProgress() {
		t.Fatal("scramble did not queue moves")
	}
	// A second scramble while busy is ignored without an error.
	m.Update(key("1"))
	if m.err != nil {
		t.Errorf("busy scramble set error %v", m.err)
	}
	now := settle(t, m, time.Unix(0, 0))
	if e.IsSolved() {
		t.Fatal("cube solved after scramble")
	}

	m.Update(key("2"))
	now = settle(t, m, now)
	if !e.IsSolved() {
		t.Fatal("cube not solved after solve")
	}

	// The solved hook posts a message for the banner.
	select {
	case msg := <-m.events:
		m.Update(msg)
	default:
		t.Fatal("no solved message")
	}
	if !m.lastTick.Before(m.bannerUntil) {
		t.Error("banner not shown")
	}
	if !strings.Contains(m.View(), "SOLVED!") {
		t.Error("view has no banner")
	}

	m.Update(key("r"))
	settle(t, m, now)
	m.Update(key("0"))
	if len(e.History()) != 0 || !e.IsSolved() {
		t.Error("reset did not clear the cube")
	}
}

func TestOrbitAndZoomKeys(t *testing.T) {
	e := newEngine(t)
	cam := camera.New()
	m := New(e, cam, DefaultOptions())

	m.Update(key("left"))
	if cam.Angle >= 0 {
		t.Errorf("angle = %v after left, want negative", cam.Angle)
	}
	m.Update(key("+"))
	if cam.Radius >= camera.DefaultRadius {
		t.Errorf("radius = %v after zoom in", cam.Radius)
	}
	m.Update(key("-"))
	m.Update(key("-"))
	if cam.Radius <= camera.DefaultRadius {
		t.Errorf("radius = %v after zoom out", cam.Radius)
	}
}

func TestMouseDragTurnsFace(t *testing.T) {
	e := newEngine(t)
	m := New(e, camera.New(), DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})

	cols, rows := m.viewSize()
	cx, cy := cols/2, rows/2+headerLines
	now := time.Unix(0, 0)

	m.handleMouse(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, now)
	if m.tracker.Mode() != gesture.ModeArmed {
		t.Fatalf("mode = %v after press on the cube", m.tracker.Mode())
	}
	for i := 1; i <= 6; i++ {
		now = now.Add(40 * time.Millisecond)
		m.handleMouse(tea.MouseMsg{X: cx, Y: cy + i, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, now)
	}
	face, ok := m.tracker.LockedFace()
	if !ok {
		t.Fatal("vertical drag did not lock a face")
	}
	if face != grubix.FaceM {
		t.Errorf("locked %s, want M", face)
	}

	m.handleMouse(tea.MouseMsg{X: cx, Y: cy + 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, now.Add(time.Second))
	settle(t, m, now)
	if e.FaceAngle(grubix.FaceM) != 0 {
		t.Errorf("M left at %v degrees", e.FaceAngle(grubix.FaceM))
	}
}

func TestMouseOffCubeOrbits(t *testing.T) {
	e := newEngine(t)
	cam := camera.New()
	m := New(e, cam, DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})

	now := time.Unix(0, 0)
	m.handleMouse(tea.MouseMsg{X: 0, Y: headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, now)
	m.handleMouse(tea.MouseMsg{X: 4, Y: headerLines, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, now)
	m.handleMouse(tea.MouseMsg{X: 4, Y: headerLines, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, now)
	if cam.Angle <= 0 {
		t.Errorf("angle = %v after dragging right off the cube", cam.Angle)
	}
}

func TestQuit(t *testing.T) {
	e := newEngine(t)
	var saved *camera.Camera
	opts := DefaultOptions()
	opts.OnQuit = func(c *camera.Camera) { saved = c }
	m := New(e, camera.New(), opts)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not quit")
	}
	if saved == nil {
		t.Error("OnQuit not called")
	}
}

func TestMoveKeysWaitForDrag(t *testing.T) {
	e := newEngine(t)
	m := New(e, camera.New(), DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})

	cols, rows := m.viewSize()
	cx, cy := cols/2, rows/2+headerLines
	now := time.Unix(0, 0)

	m.handleMouse(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, now)
	for i := 1; i <= 6; i++ {
		now = now.Add(40 * time.Millisecond)
		m.handleMouse(tea.MouseMsg{X: cx, Y: cy + i, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, now)
	}
	if _, ok := m.tracker.LockedFace(); !ok {
		t.Fatal("drag did not lock a face")
	}
	if !e.TransitionInProgress() {
		t.Error("engine idle while a face is held")
	}

	m.Update(key("r"))
	m.Update(key("1"))
	m.Update(key("2"))
	if m.err != nil {
		t.Errorf("keys during a drag set error %v", m.err)
	}

	m.handleMouse(tea.MouseMsg{X: cx, Y: cy + 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, now.Add(time.Second))
	settle(t, m, now)
	for _, mv := range e.History() {
		if mv.Face != grubix.FaceM {
			t.Errorf("move %s committed during the drag", mv.Notation())
		}
	}
	if e.FaceAngle(grubix.FaceM) != 0 {
		t.Errorf("M left at %v degrees", e.FaceAngle(grubix.FaceM))
	}
}
