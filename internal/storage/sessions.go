package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("grubix: session not found")

// Session is a stretch of play from a scramble (or first move) to a solve.
type Session struct {
	SessionID    string
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int64
	ScrambleText *string
	Source       string
	DeviceName   *string
	Solved       bool
	ReplayPath   *string
}

// Ended reports whether the session has been closed.
func (s *Session) Ended() bool {
	return s.EndedAt != nil
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

const sessionColumns = `session_id, started_at, ended_at, duration_ms, scramble_text,
	source, device_name, solved, replay_path`

// Create starts a new session and returns its ID.
func (r *SessionRepository) Create(startedAt time.Time, source, deviceName string) (string, error) {
	id := uuid.New().String()

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, source, device_name)
		VALUES (?, ?, ?, ?)
	`, id, startedAt.UTC().Format(timeLayout), source, nullString(deviceName))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// SetScramble records the scramble a session started from.
func (r *SessionRepository) SetScramble(sessionID, scramble string) error {
	return r.update(sessionID, "UPDATE sessions SET scramble_text = ? WHERE session_id = ?", nullString(scramble), sessionID)
}

// SetReplayPath records where the session's replay bundle was written.
func (r *SessionRepository) SetReplayPath(sessionID, path string) error {
	return r.update(sessionID, "UPDATE sessions SET replay_path = ? WHERE session_id = ?", nullString(path), sessionID)
}

// End closes a session at endedAt.
func (r *SessionRepository) End(sessionID string, endedAt time.Time, solved bool) error {
	s, err := r.Get(sessionID)
	if err != nil {
		return err
	}
	duration := endedAt.Sub(s.StartedAt).Milliseconds()

	return r.update(sessionID, `
		UPDATE sessions SET ended_at = ?, duration_ms = ?, solved = ?
		WHERE session_id = ?
	`, endedAt.UTC().Format(timeLayout), duration, solved, sessionID)
}

func (r *SessionRepository) update(sessionID, query string, args ...any) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE session_id = ?", sessionID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// List returns the most recent sessions first. limit <= 0 means no limit.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and its moves.
func (r *SessionRepository) Delete(sessionID string) error {
	return r.update(sessionID, "DELETE FROM sessions WHERE session_id = ?", sessionID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		s         Session
		startedAt string
		endedAt   sql.NullString
	)
	err := row.Scan(&s.SessionID, &startedAt, &endedAt, &s.DurationMs, &s.ScrambleText,
		&s.Source, &s.DeviceName, &s.Solved, &s.ReplayPath)
	if err != nil {
		return nil, err
	}

	if s.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if endedAt.Valid {
		t, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at: %w", err)
		}
		s.EndedAt = &t
	}
	return &s, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
