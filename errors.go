package grubix

import (
	"errors"

	"github.com/bebora/grubix/internal/solver"
	"github.com/bebora/grubix/pkg/types"
)

// Sentinel errors for the grubix package.
var (
	// State errors
	ErrTransitionInProgress = errors.New("grubix: transition in progress")
	ErrUnknownFace          = errors.New("grubix: unknown face")

	// Parsing errors
	ErrInvalidNotation = types.ErrInvalidNotation

	// Solver errors
	ErrSolverInit = errors.New("grubix: solver initialization failed")
	ErrUnsolvable = solver.ErrUnsolvable
)
