// Package solver defines how the engine obtains solutions and ships a
// default implementation that unwinds the recorded move history.
package solver

import (
	"errors"

	"github.com/bebora/grubix/internal/cube"
	"github.com/bebora/grubix/pkg/types"
)

// ErrUnsolvable is returned when a solver cannot produce a solution.
var ErrUnsolvable = errors.New("solver: no solution for state")

// Solver returns a move sequence that solves the given state.
// The state must not be modified.
type Solver interface {
	Solve(state *cube.Cube) ([]types.Move, error)
}

// Initializer is implemented by solvers with expensive setup, such as
// building pruning tables. The engine calls Init once before the first Solve.
type Initializer interface {
	Init() error
}

// Func adapts a function to the Solver interface.
type Func func(state *cube.Cube) ([]types.Move, error)

// Solve calls f(state).
func (f Func) Solve(state *cube.Cube) ([]types.Move, error) {
	return f(state)
}

// History solves by inverting the moves applied since the last reset,
// merging adjacent same-face moves. It is exact for any state the engine
// produced itself.
type History struct{}

// Solve implements Solver.
func (History) Solve(state *cube.Cube) ([]types.Move, error) {
	if state.IsSolved() {
		return nil, nil
	}

	replay := cube.New()
	if err := replay.ApplyMoves(state.History()); err != nil {
		return nil, err
	}
	if replay.Facelets != state.Facelets {
		return nil, ErrUnsolvable
	}

	return types.MergeMoves(types.InvertMoves(state.History())), nil
}
