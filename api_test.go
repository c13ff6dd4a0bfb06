package grubix_test

import (
	"testing"

	"github.com/bebora/grubix"
)

// undoSolver solves by undoing the history, written only against the
// exported API.
type undoSolver struct {
	inits  int
	states []*grubix.Cube
}

func (s *undoSolver) Init() error {
	s.inits++
	return nil
}

func (s *undoSolver) Solve(state *grubix.Cube) ([]grubix.Move, error) {
	s.states = append(s.states, state)
	history := state.History()
	out := make([]grubix.Move, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i].Inverse())
	}
	return out, nil
}

var (
	_ grubix.Solver            = (*undoSolver)(nil)
	_ grubix.SolverInitializer = (*undoSolver)(nil)
)

func TestExternalSolver(t *testing.T) {
	s := &undoSolver{}
	e, err := grubix.New(grubix.WithSolver(s))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(grubix.SexyMove...); err != nil {
		t.Fatal(err)
	}

	moves, err := e.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := grubix.FormatMoves(moves); got != "U R U' R'" {
		t.Errorf("solution = %q", got)
	}
	e.Settle()
	if !e.IsSolved() {
		t.Error("external solver did not solve the cube")
	}
	if s.inits != 1 || len(s.states) != 1 {
		t.Errorf("inits = %d, solves = %d", s.inits, len(s.states))
	}
}

func TestExportedStateTypes(t *testing.T) {
	e, err := grubix.New()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Apply(grubix.R); err != nil {
		t.Fatal(err)
	}

	var state *grubix.Cube = e.State()
	if state.IsSolved() {
		t.Error("state solved after R")
	}
	if !grubix.NewCube().IsSolved() {
		t.Error("NewCube is not solved")
	}

	var center grubix.Color = state.Facelets[2][4]
	if center != grubix.Green {
		t.Errorf("front center = %v, want green", center)
	}

	var (
		fl  *grubix.Facelet
		hit grubix.Vec3
		ok  bool
	)
	fl, hit, ok = e.IntersectFacelets(grubix.Vec3{X: 0, Y: 0, Z: 10}, grubix.Vec3{X: 0, Y: 0, Z: -1})
	if !ok || fl == nil {
		t.Fatal("ray down the z axis missed the front face")
	}
	if hit.Z != 3 {
		t.Errorf("hit z = %v, want 3", hit.Z)
	}

	var transforms [grubix.NumPieces]grubix.Mat4 = e.PieceTransforms()
	if len(transforms) != 26 {
		t.Errorf("%d transforms", len(transforms))
	}
}
