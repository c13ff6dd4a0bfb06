package scramble

import (
	"errors"
	"testing"

	"github.com/bebora/grubix/pkg/types"
)

func TestGenerate_RespectsRules(t *testing.T) {
	g := NewSeeded(42)
	for i := 0; i < 500; i++ {
		moves := g.Generate()
		if len(moves) < DefaultMinLength || len(moves) > DefaultMaxLength {
			t.Fatalf("scramble length %d outside [%d, %d]", len(moves), DefaultMinLength, DefaultMaxLength)
		}
		if err := Validate(moves); err != nil {
			t.Fatalf("generated scramble %q invalid: %v", types.FormatMoves(moves), err)
		}
		for j := 1; j < len(moves); j++ {
			if moves[j].Face == moves[j-1].Face {
				t.Fatalf("adjacent moves share a face: %q", types.FormatMoves(moves))
			}
		}
		for j := 2; j < len(moves); j++ {
			if axisOf(moves[j].Face) == axisOf(moves[j-1].Face) && axisOf(moves[j-1].Face) == axisOf(moves[j-2].Face) {
				t.Fatalf("three moves on one axis: %q", types.FormatMoves(moves))
			}
		}
	}
}

func TestGenerate_OnlyOuterFaces(t *testing.T) {
	g := NewSeeded(7)
	for _, m := range g.GenerateN(200) {
		spec, ok := m.Face.Spec()
		if !ok || !spec.Outer() {
			t.Errorf("unexpected face %q in scramble", m.Face)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := types.FormatMoves(NewSeeded(99).Generate())
	b := types.FormatMoves(NewSeeded(99).Generate())
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

func TestGenerate_CoversLengthRange(t *testing.T) {
	g := NewSeeded(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		seen[len(g.Generate())] = true
	}
	for n := DefaultMinLength; n <= DefaultMaxLength; n++ {
		if !seen[n] {
			t.Errorf("length %d never generated", n)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		seq  string
		want error
	}{
		{"R U F", nil},
		{"R R'", ErrRepeatedFace},
		{"R L2 R'", ErrAxisRun},
		{"R L U R", nil},
	}
	for _, tt := range tests {
		moves, err := types.ParseMoves(tt.seq)
		if err != nil {
			t.Fatal(err)
		}
		err = Validate(moves)
		if tt.want == nil && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tt.seq, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("Validate(%q) = %v, want %v", tt.seq, err, tt.want)
		}
	}
}

func TestSetLengthRange(t *testing.T) {
	g := NewSeeded(3)
	g.SetLengthRange(5, 5)
	if n := len(g.Generate()); n != 5 {
		t.Errorf("length = %d, want 5", n)
	}
}
