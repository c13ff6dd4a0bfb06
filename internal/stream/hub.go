// Package stream publishes engine snapshots over websockets and accepts
// remote commands.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix"
)

const (
	sendBuffer   = 64
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
	maxMessage   = 4096
)

// Controller is the engine surface the hub drives.
type Controller interface {
	Snapshot() grubix.Snapshot
	Enqueue(moves []grubix.Move, anglePerStep float64, src grubix.Source) error
	Scramble() ([]grubix.Move, error)
	Solve() ([]grubix.Move, error)
	Reset()
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans snapshots out to connected clients.
type Hub struct {
	ctrl     Controller
	log      *logrus.Entry
	upgrader websocket.Upgrader

	// MoveSpeed is the animation speed for remote moves in degrees per step.
	MoveSpeed float64

	mu          sync.Mutex
	clients     map[*client]bool
	lastVersion uint64
	published   bool
}

// NewHub creates a hub for ctrl. log may be nil.
func NewHub(ctrl Controller, log *logrus.Entry) *Hub {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Hub{
		ctrl:      ctrl,
		log:       log.WithField("component", "stream"),
		MoveSpeed: grubix.DefaultScrambleSpeed,
		clients:   make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), id: r.RemoteAddr}

	first, err := json.Marshal(newSnapshotMessage(h.ctrl.Snapshot()))
	if err != nil {
		conn.Close()
		return
	}
	c.send <- first

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.log.WithField("client", c.id).Info("client connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.drop(c)
		c.conn.Close()
		h.log.WithField("client", c.id).Info("client disconnected")
	}()
	c.conn.SetReadLimit(maxMessage)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("read error")
			}
			return
		}

		var cmd Command
		res := Result{Type: TypeResult}
		if err := json.Unmarshal(data, &cmd); err != nil {
			res.Error = fmt.Sprintf("bad command: %v", err)
		} else {
			res = h.Handle(cmd)
		}
		out, err := json.Marshal(res)
		if err != nil {
			continue
		}
		h.sendTo(c, out)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handle executes one command against the controller.
func (h *Hub) Handle(cmd Command) Result {
	res := Result{Type: TypeResult, ID: cmd.ID}

	var (
		moves []grubix.Move
		err   error
	)
	switch cmd.Type {
	case CmdMove:
		moves, err = grubix.ParseMoves(cmd.Moves)
		if err == nil {
			err = h.ctrl.Enqueue(moves, h.MoveSpeed, grubix.SourceRemote)
		}
	case CmdScramble:
		moves, err = h.ctrl.Scramble()
	case CmdSolve:
		moves, err = h.ctrl.Solve()
	case CmdReset:
		h.ctrl.Reset()
	default:
		err = fmt.Errorf("unknown command %q", cmd.Type)
	}

	if err != nil {
		res.Error = err.Error()
		h.log.WithError(err).WithField("command", cmd.Type).Debug("command failed")
		return res
	}
	res.OK = true
	res.Moves = grubix.FormatMoves(moves)
	h.log.WithFields(logrus.Fields{"command": cmd.Type, "moves": res.Moves}).Info("remote command")
	return res
}

// Poll broadcasts a snapshot if the engine changed since the last one.
// It reports whether a snapshot was sent.
func (h *Hub) Poll() bool {
	snap := h.ctrl.Snapshot()

	h.mu.Lock()
	if h.published && snap.Version == h.lastVersion {
		h.mu.Unlock()
		return false
	}
	h.lastVersion = snap.Version
	h.published = true
	h.mu.Unlock()

	msg, err := json.Marshal(newSnapshotMessage(snap))
	if err != nil {
		return false
	}
	h.broadcast(msg)
	return true
}

// Run polls every interval until ctx is done. step, if not nil, runs before
// each poll with the elapsed time since the previous tick.
func (h *Hub) Run(ctx context.Context, interval time.Duration, step func(time.Duration)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case now := <-ticker.C:
			if step != nil {
				step(now.Sub(last))
			}
			last = now
			h.Poll()
		}
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// slow client
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) sendTo(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
