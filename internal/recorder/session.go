package recorder

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/storage"
)

var (
	ErrAlreadyRecording = errors.New("grubix: session already in progress")
	ErrNotRecording     = errors.New("grubix: no session in progress")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Summary describes a finished session.
type Summary struct {
	SessionID    string
	Scramble     []grubix.Move
	Moves        int // moves after the scramble
	Duration     time.Duration
	Solved       bool
	FirstSolveAt time.Time
	LastCommitAt time.Time
}

// Session records engine commits into the database.
//
// A session starts on the first commit while idle. Scramble moves are kept as
// the session's scramble text. The session ends when a non-scramble commit
// leaves the cube solved, or when a new scramble begins after solving moves.
type Session struct {
	stateFile *StateFile
	log       *logrus.Entry

	sessions *storage.SessionRepository
	moves    *storage.MoveRepository

	mu         sync.Mutex
	state      SessionState
	sessionID  string
	startTime  time.Time
	moveIndex  int
	scramble   []grubix.Move
	solving    int
	firstSolve time.Time
	lastCommit time.Time
	deviceName string

	onEnd []func(Summary)
}

// NewSession creates a session recorder. stateFile and log may be nil.
func NewSession(db *storage.DB, stateFile *StateFile, log *logrus.Entry) *Session {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Session{
		stateFile: stateFile,
		log:       log.WithField("component", "recorder"),
		sessions:  storage.NewSessionRepository(db),
		moves:     storage.NewMoveRepository(db),
		state:     StateIdle,
	}
}

// Attach subscribes the recorder to an engine's commits.
func (s *Session) Attach(e *grubix.Engine) {
	e.OnCommit(func(ev grubix.CommitEvent) {
		if err := s.HandleCommit(ev); err != nil {
			s.log.WithError(err).Warn("failed to record move")
		}
	})
}

// SetDevice names the smart cube new sessions are played on.
func (s *Session) SetDevice(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceName = name
}

// OnEnd registers a callback fired after a session is closed.
func (s *Session) OnEnd(cb func(Summary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, cb)
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded in the current session.
func (s *Session) MoveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveIndex
}

// Start opens a new session explicitly.
func (s *Session) Start(source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}
	return s.start(time.Now(), source)
}

func (s *Session) start(at time.Time, source string) (string, error) {
	id, err := s.sessions.Create(at, source, s.deviceName)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = id
	s.startTime = at
	s.moveIndex = 0
	s.scramble = nil
	s.solving = 0
	s.firstSolve = time.Time{}
	s.lastCommit = at
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			s.log.WithError(err).Warn("failed to update state file")
		}
	}
	s.log.WithFields(logrus.Fields{"session": id, "source": source}).Info("session started")
	return id, nil
}

// HandleCommit records one committed move.
func (s *Session) HandleCommit(ev grubix.CommitEvent) error {
	var ended []Summary
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.state == StateRecording && ev.Source == grubix.SourceScramble && s.solving > 0 {
			sum, err := s.end(ev.Time, false)
			if err != nil {
				return err
			}
			ended = append(ended, sum)
		}
		if s.state != StateRecording {
			if _, err := s.start(ev.Time, string(ev.Source)); err != nil {
				return err
			}
		}

		ts := ev.Time.Sub(s.startTime).Milliseconds()
		if _, err := s.moves.Create(s.sessionID, s.moveIndex, ts, ev.Move, string(ev.Source)); err != nil {
			return fmt.Errorf("failed to store move: %w", err)
		}
		s.moveIndex++
		s.lastCommit = ev.Time

		if ev.Source == grubix.SourceScramble {
			s.scramble = append(s.scramble, ev.Move)
			if err := s.sessions.SetScramble(s.sessionID, grubix.FormatMoves(s.scramble)); err != nil {
				return err
			}
			return nil
		}

		if s.solving == 0 {
			s.firstSolve = ev.Time
		}
		s.solving++
		if ev.Solved {
			sum, err := s.end(ev.Time, true)
			if err != nil {
				return err
			}
			ended = append(ended, sum)
		}
		return nil
	}()

	s.fireEnd(ended)
	return err
}

// End closes the current session as unsolved.
func (s *Session) End() error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrNotRecording
	}
	sum, err := s.end(time.Now(), false)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.fireEnd([]Summary{sum})
	return nil
}

func (s *Session) end(at time.Time, solved bool) (Summary, error) {
	if err := s.sessions.End(s.sessionID, at, solved); err != nil {
		return Summary{}, fmt.Errorf("failed to end session: %w", err)
	}
	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.log.WithError(err).Warn("failed to update state file")
		}
	}

	sum := Summary{
		SessionID:    s.sessionID,
		Scramble:     append([]grubix.Move(nil), s.scramble...),
		Moves:        s.solving,
		Duration:     at.Sub(s.startTime),
		Solved:       solved,
		FirstSolveAt: s.firstSolve,
		LastCommitAt: s.lastCommit,
	}
	s.log.WithFields(logrus.Fields{
		"session":  sum.SessionID,
		"moves":    sum.Moves,
		"duration": sum.Duration,
		"solved":   solved,
	}).Info("session ended")
	return sum, nil
}

func (s *Session) fireEnd(sums []Summary) {
	if len(sums) == 0 {
		return
	}
	s.mu.Lock()
	hooks := slices.Clone(s.onEnd)
	s.mu.Unlock()
	for _, sum := range sums {
		for _, cb := range hooks {
			cb(sum)
		}
	}
}

// Resume continues an interrupted session.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if sess.Ended() {
		return fmt.Errorf("session %s already ended", sessionID)
	}

	records, err := s.moves.GetBySession(sessionID)
	if err != nil {
		return err
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.lastCommit = sess.StartedAt
	s.moveIndex = 0
	s.scramble = nil
	s.solving = 0
	s.firstSolve = time.Time{}
	for _, r := range records {
		at := sess.StartedAt.Add(time.Duration(r.TsMs) * time.Millisecond)
		if r.Source == string(grubix.SourceScramble) {
			s.scramble = append(s.scramble, r.Move())
		} else {
			if s.solving == 0 {
				s.firstSolve = at
			}
			s.solving++
		}
		s.moveIndex = r.MoveIndex + 1
		s.lastCommit = at
	}
	s.state = StateRecording
	return nil
}
