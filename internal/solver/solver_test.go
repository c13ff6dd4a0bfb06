package solver

import (
	"errors"
	"testing"

	"github.com/bebora/grubix/internal/cube"
	"github.com/bebora/grubix/pkg/types"
)

func TestHistory_SolvesRecordedState(t *testing.T) {
	c := cube.New()
	if err := c.ApplyNotation("R U R' U' F2 M E' S D2 L' B"); err != nil {
		t.Fatal(err)
	}
	moves, err := History{}.Solve(c)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if err := c.ApplyMoves(moves); err != nil {
		t.Fatal(err)
	}
	if !c.IsSolved() {
		t.Errorf("solution %q did not solve the cube", types.FormatMoves(moves))
		t.Log(c.String())
	}
}

func TestHistory_MergesRedundantMoves(t *testing.T) {
	c := cube.New()
	c.ApplyNotation("R R U U'")
	moves, err := History{}.Solve(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := types.FormatMoves(moves); got != "R2" {
		t.Errorf("solution = %q, want R2", got)
	}
}

func TestHistory_SolvedStateNeedsNothing(t *testing.T) {
	moves, err := History{}.Solve(cube.New())
	if err != nil || len(moves) != 0 {
		t.Errorf("Solve(solved) = %v, %v", moves, err)
	}
}

func TestHistory_UnknownOrigin(t *testing.T) {
	c := cube.New()
	c.Facelets[cube.U][0], c.Facelets[cube.F][0] = c.Facelets[cube.F][0], c.Facelets[cube.U][0]
	if _, err := (History{}).Solve(c); !errors.Is(err, ErrUnsolvable) {
		t.Errorf("err = %v, want ErrUnsolvable", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	called := false
	var s Solver = Func(func(state *cube.Cube) ([]types.Move, error) {
		called = true
		return nil, nil
	})
	s.Solve(cube.New())
	if !called {
		t.Error("Func adapter did not call the function")
	}
}
