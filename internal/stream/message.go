package stream

import (
	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeResult   = "result"

	CmdMove     = "move"
	CmdScramble = "scramble"
	CmdSolve    = "solve"
	CmdReset    = "reset"
)

// SnapshotMessage carries the renderable state. Transforms are row-major.
type SnapshotMessage struct {
	Type       string                      `json:"type"`
	Version    uint64                      `json:"version"`
	Transforms [puzzle.NumPieces]geom.Mat4 `json:"transforms"`
	Slots      [puzzle.NumPieces]int       `json:"slots"`
	Solved     bool                        `json:"solved"`
	Busy       bool                        `json:"busy"`
}

func newSnapshotMessage(s grubix.Snapshot) SnapshotMessage {
	return SnapshotMessage{
		Type:       TypeSnapshot,
		Version:    s.Version,
		Transforms: s.Transforms,
		Slots:      s.Slots,
		Solved:     s.Solved,
		Busy:       s.Busy,
	}
}

// Command is a request from a client.
type Command struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Moves string `json:"moves,omitempty"`
}

// Result answers a command.
type Result struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Moves string `json:"moves,omitempty"`
}
