package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/puzzle"
)

type homeBounds struct{}

func (homeBounds) PieceBounds() ([puzzle.NumPieces]puzzle.Box, error) {
	return puzzle.DefaultBounds(), nil
}

func newEngine(t *testing.T) *grubix.Engine {
	t.Helper()
	e, err := grubix.New(grubix.WithBounds(homeBounds{}), grubix.WithSeed(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
}

func TestConnectSendsSnapshot(t *testing.T) {
	e := newEngine(t)
	conn := dial(t, NewHub(e, nil))

	var snap SnapshotMessage
	readJSON(t, conn, &snap)
	if snap.Type != TypeSnapshot || !snap.Solved || snap.Busy {
		t.Errorf("first message = %+v", snap)
	}
	for i, p := range snap.Slots {
		if p != i {
			t.Fatalf("slot %d holds piece %d", i, p)
		}
	}
}

func TestMoveCommandAnimatesAndBroadcasts(t *testing.T) {
	e := newEngine(t)
	h := NewHub(e, nil)
	conn := dial(t, h)

	var first SnapshotMessage
	readJSON(t, conn, &first)

	if err := conn.WriteJSON(Command{Type: CmdMove, ID: "1", Moves: "R U"}); err != nil {
		t.Fatal(err)
	}
	var res Result
	readJSON(t, conn, &res)
	if !res.OK || res.ID != "1" || res.Moves != "R U" {
		t.Fatalf("result = %+v", res)
	}
	if !e.TransitionInProgress() {
		t.Error("move command did not queue an animation")
	}

	e.Settle()
	if !h.Poll() {
		t.Fatal("Poll did not broadcast after a change")
	}
	var snap SnapshotMessage
	readJSON(t, conn, &snap)
	if snap.Version <= first.Version || snap.Solved || snap.Busy {
		t.Errorf("snapshot after moves = version %d solved %v busy %v", snap.Version, snap.Solved, snap.Busy)
	}
	if h.Poll() {
		t.Error("Poll broadcast an unchanged engine")
	}
}

func TestCommandErrors(t *testing.T) {
	e := newEngine(t)
	h := NewHub(e, nil)
	conn := dial(t, h)
	var snap SnapshotMessage
	readJSON(t, conn, &snap)

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	var res Result
	readJSON(t, conn, &res)
	if res.OK || !strings.Contains(res.Error, "bad command") {
		t.Errorf("bad json result = %+v", res)
	}

	conn.WriteJSON(Command{Type: "dance"})
	readJSON(t, conn, &res)
	if res.OK || res.Error == "" {
		t.Errorf("unknown command result = %+v", res)
	}

	conn.WriteJSON(Command{Type: CmdMove, Moves: "R X"})
	readJSON(t, conn, &res)
	if res.OK {
		t.Errorf("invalid notation accepted: %+v", res)
	}
}

func TestHandleScrambleSolveReset(t *testing.T) {
	e := newEngine(t)
	h := NewHub(e, nil)

	res := h.Handle(Command{Type: CmdScramble})
	if !res.OK || res.Moves == "" {
		t.Fatalf("scramble = %+v", res)
	}
	if busy := h.Handle(Command{Type: CmdSolve}); busy.OK {
		t.Error("solve accepted while the scramble is animating")
	}
	e.Settle()

	res = h.Handle(Command{Type: CmdSolve})
	if !res.OK {
		t.Fatalf("solve = %+v", res)
	}
	e.Settle()
	if !e.IsSolved() {
		t.Error("cube not solved after solve command")
	}

	e.Apply(grubix.R)
	if res := h.Handle(Command{Type: CmdReset}); !res.OK {
		t.Fatalf("reset = %+v", res)
	}
	if !e.IsSolved() || len(e.History()) != 0 {
		t.Error("reset did not restore the cube")
	}
}
