package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNotation is returned when a move token cannot be parsed.
var ErrInvalidNotation = errors.New("grubix: invalid move notation")

// ParseMove parses a single move token such as R, U', F2 or M.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Move{}, fmt.Errorf("%w: empty token", ErrInvalidNotation)
	}

	face, ok := ParseFace(s[0])
	if !ok || (s[0] >= 'a' && s[0] <= 'z') {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	turn := TurnCW
	switch s[1:] {
	case "":
	case "'", "`":
		turn = TurnCCW
	case "2", "2'":
		turn = Turn180
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	return Move{Face: face, Turn: turn}, nil
}

// ParseMoves parses a whitespace-separated move sequence.
// The first invalid token aborts parsing.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))
	for _, p := range parts {
		m, err := ParseMove(p)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// FormatMoves converts a slice of moves to a space-separated notation string.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}
	return strings.Join(parts, " ")
}

// MergeMoves merges adjacent same-face moves.
// For example: R R becomes R2, R R R becomes R', R R R R cancels out.
func MergeMoves(moves []Move) []Move {
	result := make([]Move, 0, len(moves))
	for _, move := range moves {
		if len(result) == 0 || result[len(result)-1].Face != move.Face {
			result = append(result, move)
			continue
		}
		last := &result[len(result)-1]
		merged := last.Merge(move)
		if merged == nil {
			result = result[:len(result)-1]
		} else {
			*last = *merged
		}
	}
	return result
}

// InvertMoves returns the sequence that undoes moves.
func InvertMoves(moves []Move) []Move {
	inv := make([]Move, len(moves))
	for i, m := range moves {
		inv[len(moves)-1-i] = m.Inverse()
	}
	return inv
}
