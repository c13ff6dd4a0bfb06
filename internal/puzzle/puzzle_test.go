package puzzle

import (
	"math"
	"testing"

	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/pkg/types"
)

// checkPlacement verifies that every piece's transform carries its home center
// onto the center of the slot that currently holds it.
func checkPlacement(t *testing.T, p *Puzzle, label string) {
	t.Helper()
	for _, s := range p.Slots {
		got := s.Piece.World.MulPoint(SlotCenter(s.Piece.ID))
		if got.Distance(SlotCenter(s.ID)) > 1e-9 {
			t.Errorf("%s: piece %d in slot %d sits at %+v, want %+v",
				label, s.Piece.ID, s.ID, got, SlotCenter(s.ID))
		}
	}
}

func TestNewPuzzleStructure(t *testing.T) {
	p := New(DefaultBounds())
	for _, s := range p.Slots {
		if len(s.Faces) != 3 {
			t.Errorf("slot %d belongs to %d faces, want 3", s.ID, len(s.Faces))
		}
		axes := map[int]bool{}
		for _, f := range s.Faces {
			axes[f.Axis()] = true
		}
		if len(axes) != 3 {
			t.Errorf("slot %d faces do not cover all three axes", s.ID)
		}
	}
	if len(p.Facelets) != 54 {
		t.Fatalf("got %d facelets, want 54", len(p.Facelets))
	}
	if !p.IsHome() {
		t.Error("new puzzle should be home")
	}
}

func TestFaceletDirections(t *testing.T) {
	p := New(DefaultBounds())
	for _, fl := range p.Facelets {
		if len(fl.Directions) != 2 {
			t.Fatalf("facelet %s/%d has %d directions", fl.Face.Name, fl.Slot.ID, len(fl.Directions))
		}
		for _, d := range fl.Directions {
			if math.Abs(d.Dir.Len()-1) > 1e-12 {
				t.Errorf("direction for %s is not unit: %+v", d.Face.Name, d.Dir)
			}
			if d.Dir.Get(fl.Face.Axis()) != 0 {
				t.Errorf("direction for %s leaves the %s plane", d.Face.Name, fl.Face.Name)
			}

			// The direction must match how the facelet center moves under a
			// small positive turn of the candidate face.
			c := fl.Center()
			moved := geom.Rotate(d.Face.Axis(), float64(d.Face.Spec.Sign)*0.01).MulPoint(c)
			vel := moved.Sub(c).With(fl.Face.Axis(), 0).Normalize()
			if vel.Dot(d.Dir) < 0.999 {
				t.Errorf("facelet %s/%d, face %s: dir %+v, velocity %+v",
					fl.Face.Name, fl.Slot.ID, d.Face.Name, d.Dir, vel)
			}
		}
	}
}

func TestTurnInverse(t *testing.T) {
	for _, name := range types.Faces {
		p := New(DefaultBounds())
		f := p.Face(name)
		f.Turn(true)
		if p.IsHome() {
			t.Errorf("%s turn should move pieces", name)
		}
		f.Turn(false)
		if !p.IsHome() {
			t.Errorf("%s turn then inverse should restore slots", name)
		}
		for i := 0; i < 4; i++ {
			f.Turn(true)
		}
		if !p.IsHome() {
			t.Errorf("%s four turns should restore slots", name)
		}
	}
}

func TestTurnMovesRingForwardByTwo(t *testing.T) {
	p := New(DefaultBounds())
	u := p.Face(types.FaceU)
	before := u.Slots[0].Piece
	u.Turn(true)
	if u.Slots[2].Piece != before {
		t.Errorf("clockwise turn should move ring index 0 to 2")
	}
	if u.Slots[8].Piece.ID != 4 {
		t.Errorf("center should not move, got piece %d", u.Slots[8].Piece.ID)
	}
}

func TestTurnABitAgreesWithTurn(t *testing.T) {
	for _, name := range types.Faces {
		p := New(DefaultBounds())
		f := p.Face(name)

		f.TurnABit(90)
		f.Turn(true)
		checkPlacement(t, p, string(name)+" cw")

		f.TurnABit(-90)
		f.Turn(false)
		checkPlacement(t, p, string(name)+" ccw back")

		f.TurnABit(180)
		f.Turn(true)
		f.Turn(true)
		checkPlacement(t, p, string(name)+" half")
	}
}

func TestTurnABitAccumulatesTempAngle(t *testing.T) {
	p := New(DefaultBounds())
	f := p.Face(types.FaceR)
	f.TurnABit(10)
	f.TurnABit(-25)
	if f.TempAngle != -15 {
		t.Errorf("TempAngle = %v, want -15", f.TempAngle)
	}
	if !p.IsHome() {
		t.Error("TurnABit must not change slot occupancy")
	}
}

func TestTurnABitComposition(t *testing.T) {
	a := New(DefaultBounds())
	b := New(DefaultBounds())
	a.Face(types.FaceF).TurnABit(30)
	a.Face(types.FaceF).TurnABit(45)
	b.Face(types.FaceF).TurnABit(75)
	for i := range a.Pieces {
		if !a.Pieces[i].World.ApproxEqual(b.Pieces[i].World, 1e-9) {
			t.Fatalf("piece %d: 30+45 differs from 75", i)
		}
	}
}

func TestIntersectFacelets_TopLeftOfUp(t *testing.T) {
	p := New(DefaultBounds())
	fl, hit, ok := p.IntersectFacelets(geom.Vec3{X: -2, Y: 10, Z: -2}, geom.Vec3{Y: -1})
	if !ok {
		t.Fatal("expected a hit")
	}
	if fl.Face.Name != types.FaceU || fl.Slot.ID != 0 {
		t.Errorf("hit %s/%d, want U/0", fl.Face.Name, fl.Slot.ID)
	}
	if hit.Distance(geom.Vec3{X: -2, Y: 3, Z: -2}) > 1e-12 {
		t.Errorf("hit point %+v", hit)
	}
}

func TestIntersectFacelets_NearestWins(t *testing.T) {
	p := New(DefaultBounds())
	fl, _, ok := p.IntersectFacelets(geom.Vec3{X: 0.5, Y: 0.3, Z: 20}, geom.Vec3{Z: -1})
	if !ok || fl.Face.Name != types.FaceF || fl.Slot.ID != 15 {
		t.Errorf("expected F center, got %v", fl)
	}
	fl, _, ok = p.IntersectFacelets(geom.Vec3{X: 0.5, Y: 0.3, Z: -20}, geom.Vec3{Z: 1})
	if !ok || fl.Face.Name != types.FaceB || fl.Slot.ID != 10 {
		t.Errorf("expected B center, got %v", fl)
	}
}

func TestIntersectFacelets_Misses(t *testing.T) {
	p := New(DefaultBounds())
	if _, _, ok := p.IntersectFacelets(geom.Vec3{X: 10, Y: 10, Z: 10}, geom.Vec3{X: 1}); ok {
		t.Error("ray pointing away should miss")
	}
	if _, _, ok := p.IntersectFacelets(geom.Vec3{X: 5, Y: 5, Z: 20}, geom.Vec3{Z: -1}); ok {
		t.Error("ray outside the cube should miss")
	}
	if _, _, ok := p.Face(types.FaceU).IntersectRay(geom.Vec3{Y: 5}, geom.Vec3{X: 1}); ok {
		t.Error("ray parallel to U should not intersect it")
	}
}

func TestReset(t *testing.T) {
	p := New(DefaultBounds())
	r := p.Face(types.FaceR)
	r.TurnABit(90)
	r.Turn(true)
	p.Face(types.FaceU).TurnABit(12)
	p.Reset()
	if !p.IsHome() {
		t.Error("Reset should restore slot occupancy")
	}
	for _, pc := range p.Pieces {
		if pc.World != geom.Identity() {
			t.Errorf("piece %d transform not identity after Reset", pc.ID)
		}
	}
	if p.Face(types.FaceU).TempAngle != 0 {
		t.Error("Reset should clear TempAngle")
	}
}

func TestSnapProducesIntegers(t *testing.T) {
	p := New(DefaultBounds())
	f := p.Face(types.FaceL)
	for i := 0; i < 18; i++ {
		f.TurnABit(5)
	}
	f.Turn(true)
	f.Snap()
	for _, s := range f.Slots {
		for _, v := range s.Piece.World {
			if v != math.Trunc(v) {
				t.Fatalf("slot %d transform not snapped: %v", s.ID, s.Piece.World)
			}
		}
	}
	checkPlacement(t, p, "L snapped")
}
