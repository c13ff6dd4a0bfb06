package cube

import (
	"testing"

	"github.com/bebora/grubix/pkg/types"
)

func mustApply(t *testing.T, c *Cube, seq string) {
	t.Helper()
	if err := c.ApplyNotation(seq); err != nil {
		t.Fatalf("ApplyNotation(%q): %v", seq, err)
	}
}

func TestNewCubeIsSolved(t *testing.T) {
	c := New()
	if !c.IsSolved() || !c.IsHome() {
		t.Error("New cube should be solved")
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	for _, f := range types.Faces {
		c := New()
		if err := c.ApplyMove(types.Move{Face: f, Turn: types.TurnCW}); err != nil {
			t.Fatal(err)
		}
		if c.IsSolved() {
			t.Errorf("Cube should not be solved after %s", f)
		}
	}
}

func TestFourQuarters_ReturnsToSolved_AllFaces(t *testing.T) {
	for _, f := range types.Faces {
		c := New()
		for i := 0; i < 4; i++ {
			c.ApplyMove(types.Move{Face: f, Turn: types.TurnCW})
		}
		if !c.IsHome() {
			t.Errorf("%s x 4 should return to solved", f)
			t.Log(c.String())
		}
	}
}

func TestMoveThenInverse_AllFaces(t *testing.T) {
	for _, f := range types.Faces {
		c := New()
		c.ApplyMove(types.Move{Face: f, Turn: types.TurnCW})
		c.ApplyMove(types.Move{Face: f, Turn: types.TurnCCW})
		if !c.IsHome() {
			t.Errorf("%s %s' should return to solved", f, f)
		}
	}
}

func TestR2R2_ReturnsToSolved(t *testing.T) {
	c := New()
	mustApply(t, c, "R2 R2")
	if !c.IsSolved() {
		t.Error("R2 R2 should return to solved")
		t.Log(c.String())
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	c := New()
	for i := 0; i < 6; i++ {
		mustApply(t, c, "R U R' U'")
		if i < 5 && c.IsSolved() {
			t.Errorf("solved too early after %d repetitions", i+1)
		}
	}
	if !c.IsSolved() {
		t.Error("(R U R' U') x 6 should return to solved")
		t.Log(c.String())
	}
}

func TestStandardChirality(t *testing.T) {
	tests := []struct {
		seq   string
		face  Face
		idx   int
		color Color
	}{
		{"R", U, 5, Green},  // F right column goes up
		{"U", F, 1, Red},    // R top row comes to the front
		{"F", R, 3, White},  // U bottom row goes right
		{"L", F, 3, White},  // U left column comes down the front
		{"D", F, 7, Orange}, // L bottom row comes to the front
		{"B", L, 3, White},  // U top row goes left
		{"M", F, 4, White},  // M follows L
		{"E", F, 4, Orange}, // E follows D
		{"S", R, 4, White},  // S follows F
	}
	for _, tt := range tests {
		c := New()
		mustApply(t, c, tt.seq)
		if got := c.Facelets[tt.face][tt.idx]; got != tt.color {
			t.Errorf("after %s, %s[%d] = %s, want %s", tt.seq, tt.face, tt.idx, got, tt.color)
			t.Log(c.String())
		}
	}
}

func TestWholeCubeRotation_IsSolvedButNotHome(t *testing.T) {
	c := New()
	mustApply(t, c, "R M' L'")
	if !c.IsSolved() {
		t.Error("R M' L' rotates the whole cube and should count as solved")
		t.Log(c.String())
	}
	if c.IsHome() {
		t.Error("R M' L' should move the centers")
	}
}

func TestColorCountsPreserved(t *testing.T) {
	c := New()
	mustApply(t, c, "R U2 F' M E2 S' L D' B2")
	var counts [6]int
	for f := 0; f < 6; f++ {
		for i := 0; i < 9; i++ {
			counts[c.Facelets[f][i]]++
		}
	}
	for color, n := range counts {
		if n != 9 {
			t.Errorf("color %s appears %d times, want 9", Color(color), n)
		}
	}
}

func TestStickerLatticeRoundTrip(t *testing.T) {
	for f := Face(0); f < 6; f++ {
		for i := 0; i < 9; i++ {
			gf, gi, ok := StickerAt(StickerPosition(f, i))
			if !ok || gf != f || gi != i {
				t.Errorf("StickerAt(StickerPosition(%s, %d)) = %s, %d, %v", f, i, gf, gi, ok)
			}
		}
	}
}

func TestHistoryAndReset(t *testing.T) {
	c := New()
	mustApply(t, c, "R U R'")
	if got := types.FormatMoves(c.History()); got != "R U R'" {
		t.Errorf("History = %q", got)
	}
	clone := c.Clone()
	c.Reset()
	if !c.IsHome() || len(c.History()) != 0 {
		t.Error("Reset should restore the solved cube and clear history")
	}
	if clone.IsSolved() || len(clone.History()) != 3 {
		t.Error("Clone should be independent of the original")
	}
}

func TestApplyMove_UnknownFace(t *testing.T) {
	c := New()
	if err := c.ApplyMove(types.Move{Face: "X", Turn: types.TurnCW}); err == nil {
		t.Error("expected error for unknown face")
	}
}
