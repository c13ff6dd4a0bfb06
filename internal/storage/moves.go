package storage

import (
	"database/sql"
	"fmt"

	"github.com/bebora/grubix/pkg/types"
)

// MoveRecord represents a committed move in the database.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Face      string
	Turn      int
	Notation  string
	Source    string
}

// Move converts the record back to a move.
func (m MoveRecord) Move() types.Move {
	return types.Move{Face: types.Face(m.Face), Turn: types.Turn(m.Turn), Timestamp: m.TsMs}
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, face, turn, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Create stores a move and returns its ID. tsMs is relative to session start.
func (r *MoveRepository) Create(sessionID string, moveIndex int, tsMs int64, move types.Move, source string) (int64, error) {
	result, err := r.db.Exec(insertMove,
		sessionID, moveIndex, tsMs, string(move.Face), int(move.Turn), move.Notation(), source)
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}
	return id, nil
}

// CreateBatch stores moves in a single transaction, using each move's
// Timestamp as its session-relative time.
func (r *MoveRepository) CreateBatch(sessionID string, moves []types.Move, startIndex int, source string) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(insertMove,
				sessionID, startIndex+i, move.Timestamp, string(move.Face), int(move.Turn), move.Notation(), source)
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, face, turn, notation, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Face, &m.Turn, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// Count returns the number of moves in a session from the given source.
// An empty source counts every move.
func (r *MoveRepository) Count(sessionID, source string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM moves
		WHERE session_id = ? AND (? = '' OR source = ?)
	`, sessionID, source, source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// GetNextIndex returns the index the next move of a session should use.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var next int
	err := r.db.QueryRow(
		"SELECT COALESCE(MAX(move_index) + 1, 0) FROM moves WHERE session_id = ?", sessionID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next move index: %w", err)
	}
	return next, nil
}
