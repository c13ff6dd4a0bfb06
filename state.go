package grubix

import (
	"github.com/bebora/grubix/internal/cube"
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/internal/solver"
)

// Cube is the canonical sticker state of the puzzle: six faces of nine
// colors plus the committed move history. State returns a copy, and a
// Solver receives one.
type Cube = cube.Cube

// Color is a sticker color of Cube.
type Color = cube.Color

const (
	White  = cube.White  // Up face when solved
	Yellow = cube.Yellow // Down face when solved
	Green  = cube.Green  // Front face when solved
	Blue   = cube.Blue   // Back face when solved
	Red    = cube.Red    // Right face when solved
	Orange = cube.Orange // Left face when solved
)

// NewCube returns a solved canonical cube.
func NewCube() *Cube {
	return cube.New()
}

// Solver returns a move sequence that solves a canonical state without
// modifying it. Set one with WithSolver.
type Solver = solver.Solver

// SolverInitializer is implemented by solvers with expensive setup. Init
// runs once before the first Solve.
type SolverInitializer = solver.Initializer

// SolverFunc adapts a function to the Solver interface.
type SolverFunc = solver.Func

// Facelet is a pickable sticker, as returned by IntersectFacelets.
type Facelet = puzzle.Facelet

// Box is an axis-aligned piece bounding box.
type Box = puzzle.Box

// Vec3 and Mat4 are the vector and row-major matrix types of piece
// transforms and picking rays.
type (
	Vec3 = geom.Vec3
	Mat4 = geom.Mat4
)

// NumPieces is the number of visible pieces.
const NumPieces = puzzle.NumPieces
