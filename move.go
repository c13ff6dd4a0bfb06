package grubix

import "github.com/bebora/grubix/pkg/types"

// Face identifies a turnable layer.
type Face = types.Face

const (
	FaceU = types.FaceU // Up
	FaceD = types.FaceD // Down
	FaceL = types.FaceL // Left
	FaceR = types.FaceR // Right
	FaceF = types.FaceF // Front
	FaceB = types.FaceB // Back
	FaceM = types.FaceM // Middle slice
	FaceE = types.FaceE // Equator slice
	FaceS = types.FaceS // Standing slice
)

// Turn represents the direction and magnitude of a face turn.
type Turn = types.Turn

const (
	CW     = types.TurnCW  // Clockwise (90 degrees)
	CCW    = types.TurnCCW // Counter-clockwise (90 degrees)
	Double = types.Turn180 // Half turn (180 degrees)
)

// Move represents a single move with face and turn direction.
type Move = types.Move

// ParseMove parses a single move in standard notation.
// Valid formats: R, R', R2, M, E', S2, etc.
func ParseMove(s string) (Move, error) {
	return types.ParseMove(s)
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'" returns [R, U, R', U'].
func ParseMoves(s string) ([]Move, error) {
	return types.ParseMoves(s)
}

// FormatMoves converts moves to a space-separated notation string.
func FormatMoves(moves []Move) string {
	return types.FormatMoves(moves)
}
