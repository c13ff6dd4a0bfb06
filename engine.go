package grubix

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix/internal/cube"
	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/internal/scramble"
	"github.com/bebora/grubix/internal/solver"
)

// Source tells where a committed move came from.
type Source string

const (
	SourceAPI       Source = "api"
	SourceGesture   Source = "gesture"
	SourceKeyboard  Source = "keyboard"
	SourceScramble  Source = "scramble"
	SourceSolve     Source = "solve"
	SourceSmartCube Source = "smartcube"
	SourceRemote    Source = "remote"
)

// CommitEvent describes a move that has been committed to the slot map.
type CommitEvent struct {
	Move   Move
	Source Source
	Solved bool
	Time   time.Time
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Version    uint64
	Transforms [NumPieces]Mat4
	Slots      [NumPieces]int
	Solved     bool
	Busy       bool
}

// Engine owns the puzzle and serializes every mutation.
//
// Engine is safe for concurrent use. Hooks run on the goroutine that caused
// the commit, after the engine lock is released.
type Engine struct {
	mu sync.Mutex

	cfg       *config
	puzzle    *puzzle.Puzzle
	state     *cube.Cube
	scrambler *scramble.Generator
	log       *logrus.Entry

	queue  []*animation
	active *animation
	accum  time.Duration
	epoch  time.Time

	solverOnce sync.Once
	solverErr  error

	version uint64

	onSolved []func()
	onCommit []func(CommitEvent)
	pending  []CommitEvent
}

// New creates an engine in the solved home configuration.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	bounds, err := cfg.bounds.PieceBounds()
	if err != nil {
		return nil, fmt.Errorf("failed to load piece bounds: %w", err)
	}

	gen := scramble.New(cfg.randSource)
	if cfg.scrambleMin > 0 {
		gen.SetLengthRange(cfg.scrambleMin, cfg.scrambleMax)
	}

	e := &Engine{
		cfg:       cfg,
		puzzle:    puzzle.New(bounds),
		state:     cube.New(),
		scrambler: gen,
		log:       cfg.logger.WithField("component", "engine"),
		epoch:     cfg.clock(),
	}
	e.log.Debug("engine ready")
	return e, nil
}

// OnSolved registers a callback fired when a commit leaves the cube solved.
// Commits that change nothing, such as a drag snapping back to where it
// started, do not fire it.
func (e *Engine) OnSolved(cb func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSolved = append(e.onSolved, cb)
}

// OnCommit registers a callback fired for every committed move.
func (e *Engine) OnCommit(cb func(CommitEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCommit = append(e.onCommit, cb)
}

// Move instantly turns a face a quarter, without animation.
func (e *Engine) Move(face Face, clockwise bool) error {
	turn := CW
	if !clockwise {
		turn = CCW
	}
	return e.Apply(Move{Face: face, Turn: turn})
}

// Apply instantly commits moves in order, without animation.
func (e *Engine) Apply(moves ...Move) error {
	e.mu.Lock()
	if e.busy() {
		e.mu.Unlock()
		return ErrTransitionInProgress
	}
	var err error
	for _, m := range moves {
		f := e.puzzle.Face(m.Face)
		if f == nil {
			err = fmt.Errorf("%w: %q", ErrUnknownFace, m.Face)
			break
		}
		prev := f.TempAngle
		f.TurnABit(m.Turn.Degrees())
		f.TempAngle = prev
		e.commit(f, m.Turn.Quarters(), SourceAPI)
	}
	e.mu.Unlock()
	e.dispatch()
	return err
}

// TurnFaceABit rotates a face by angle degrees without committing.
func (e *Engine) TurnFaceABit(face Face, angle float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.puzzle.Face(face)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownFace, face)
	}
	f.TurnABit(angle)
	e.version++
	return nil
}

// FaceAngle returns the uncommitted angle of a face.
func (e *Engine) FaceAngle(face Face) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f := e.puzzle.Face(face); f != nil {
		return f.TempAngle
	}
	return 0
}

// Reset returns to the home configuration immediately, dropping any queued
// animation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = nil
	e.active = nil
	e.accum = 0
	e.puzzle.Reset()
	e.state.Reset()
	e.epoch = e.cfg.clock()
	e.version++
	e.log.Info("reset")
}

// IsSolved reports whether the canonical state is solved.
func (e *Engine) IsSolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsSolved()
}

// TransitionInProgress reports whether an animation is queued or running,
// or a face is held at a partial angle.
func (e *Engine) TransitionInProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy()
}

// State returns a copy of the canonical cube.
func (e *Engine) State() *Cube {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// History returns the committed moves since the last reset.
func (e *Engine) History() []Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.History()
}

// PieceTransforms returns every piece's world transform, indexed by piece id.
func (e *Engine) PieceTransforms() [NumPieces]Mat4 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.puzzle.Transforms()
}

// SlotPieces returns the piece id held by each slot.
func (e *Engine) SlotPieces() [NumPieces]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.puzzle.SlotPieces()
}

// PieceBounds returns the home bounds of every piece.
func (e *Engine) PieceBounds() [NumPieces]Box {
	var out [NumPieces]Box
	for i, p := range e.puzzle.Pieces {
		out[i] = p.Bounds
	}
	return out
}

// Snapshot returns a consistent copy of the renderable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Version:    e.version,
		Transforms: e.puzzle.Transforms(),
		Slots:      e.puzzle.SlotPieces(),
		Solved:     e.state.IsSolved(),
		Busy:       e.busy(),
	}
}

// Version increases on every visible change.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// IntersectFacelets returns the nearest facelet hit by a ray.
// Facelets are immutable and safe to keep.
func (e *Engine) IntersectFacelets(origin, dir Vec3) (*Facelet, Vec3, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.puzzle.IntersectFacelets(origin, dir)
}

// Scramble queues a random scramble and returns its moves.
func (e *Engine) Scramble() ([]Move, error) {
	e.mu.Lock()
	if e.busy() {
		e.mu.Unlock()
		return nil, ErrTransitionInProgress
	}
	moves := e.scrambler.Generate()
	e.enqueue(moves, e.cfg.scrambleSpeed, SourceScramble)
	e.log.WithField("moves", FormatMoves(moves)).Info("scramble queued")
	e.mu.Unlock()
	return moves, nil
}

// Solve asks the solver for a solution and queues it.
func (e *Engine) Solve() ([]Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy() {
		return nil, ErrTransitionInProgress
	}

	e.solverOnce.Do(func() {
		if ini, ok := e.cfg.solver.(solver.Initializer); ok {
			start := time.Now()
			e.solverErr = ini.Init()
			e.log.WithField("elapsed", time.Since(start)).Debug("solver initialized")
		}
	})
	if e.solverErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverInit, e.solverErr)
	}

	moves, err := e.cfg.solver.Solve(e.state.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to solve: %w", err)
	}
	e.enqueue(moves, e.cfg.solveSpeed, SourceSolve)
	e.log.WithField("moves", FormatMoves(moves)).Info("solution queued")
	return moves, nil
}

// dispatch fires hooks for commits collected while the lock was held.
func (e *Engine) dispatch() {
	e.mu.Lock()
	events := e.pending
	e.pending = nil
	commitHooks := slices.Clone(e.onCommit)
	solvedHooks := slices.Clone(e.onSolved)
	e.mu.Unlock()

	for _, ev := range events {
		for _, cb := range commitHooks {
			cb(ev)
		}
		if ev.Solved {
			for _, cb := range solvedHooks {
				cb()
			}
		}
	}
}
