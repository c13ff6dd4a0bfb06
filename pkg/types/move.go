package types

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	TurnCW  Turn = 1  // Clockwise quarter turn
	TurnCCW Turn = -1 // Counter-clockwise quarter turn
	Turn180 Turn = 2  // 180 degree turn (half turn)
)

// Suffix returns the notation suffix for the turn.
func (t Turn) Suffix() string {
	switch t {
	case TurnCCW:
		return "'"
	case Turn180:
		return "2"
	default:
		return ""
	}
}

// Degrees returns the signed commit angle of the turn: 90, -90 or 180.
func (t Turn) Degrees() float64 {
	switch t {
	case TurnCCW:
		return -90
	case Turn180:
		return 180
	default:
		return 90
	}
}

// Quarters returns the number of clockwise quarter turns, 1 to 3.
func (t Turn) Quarters() int {
	switch t {
	case TurnCCW:
		return 3
	case Turn180:
		return 2
	default:
		return 1
	}
}

// TurnFromQuarters maps a clockwise quarter count to a Turn.
// ok is false when q is a multiple of 4.
func TurnFromQuarters(q int) (Turn, bool) {
	switch ((q % 4) + 4) % 4 {
	case 1:
		return TurnCW, true
	case 2:
		return Turn180, true
	case 3:
		return TurnCCW, true
	default:
		return 0, false
	}
}

// Move represents a single cube move with face and turn direction.
type Move struct {
	Face      Face  `json:"face"`
	Turn      Turn  `json:"turn"`
	Timestamp int64 `json:"ts_ms,omitempty"` // Milliseconds since session start
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, M, E', S2
func (m Move) Notation() string {
	return string(m.Face) + m.Turn.Suffix()
}

// String implements fmt.Stringer.
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the inverse of this move.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
	}
	return inv
}

// IsCancellation returns true if the other move cancels this move.
func (m Move) IsCancellation(other Move) bool {
	if m.Face != other.Face {
		return false
	}
	return m.Turn == -other.Turn ||
		(m.Turn == Turn180 && other.Turn == Turn180)
}

// Merge combines two same-face moves into one.
// Returns nil if the faces differ or the moves cancel out.
func (m Move) Merge(other Move) *Move {
	if m.Face != other.Face {
		return nil
	}
	turn, ok := TurnFromQuarters(m.Turn.Quarters() + other.Turn.Quarters())
	if !ok {
		return nil
	}
	return &Move{
		Face:      m.Face,
		Turn:      turn,
		Timestamp: other.Timestamp,
	}
}
