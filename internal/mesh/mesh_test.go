package mesh

import (
	"math"
	"strings"
	"testing"

	"github.com/bebora/grubix/internal/puzzle"
)

func TestSDFSourceBounds(t *testing.T) {
	bounds, err := SDFSource{Round: DefaultRound}.PieceBounds()
	if err != nil {
		t.Fatalf("PieceBounds: %v", err)
	}
	for id, b := range bounds {
		c := puzzle.SlotCenter(id)
		if b.Center().Distance(c) > 1e-6 {
			t.Errorf("piece %d bounds centered at %+v, want %+v", id, b.Center(), c)
		}
		if math.Abs(b.Max.X-b.Min.X-PieceSize) > 1e-6 {
			t.Errorf("piece %d width = %v", id, b.Max.X-b.Min.X)
		}
	}
}

func TestSolidOutOfRange(t *testing.T) {
	if _, err := Solid(26, 0); err == nil {
		t.Error("expected error for piece 26")
	}
}

func TestReadOBJ(t *testing.T) {
	src := `# quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0.5
f 1/1/1 2/2/1 3/3/1 4/4/1
`
	m, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if m.Triangles() != 2 {
		t.Errorf("got %d triangles, want 2", m.Triangles())
	}
	b, err := m.Bounds()
	if err != nil {
		t.Fatal(err)
	}
	if b.Min.X != -1 || b.Max.Y != 1 || b.Max.Z != 0.5 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestReadOBJ_BadIndex(t *testing.T) {
	if _, err := ReadOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n")); err == nil {
		t.Error("expected error for out of range face index")
	}
}

func TestToMeshRoundTrip(t *testing.T) {
	solid, err := Solid(13, DefaultRound)
	if err != nil {
		t.Fatal(err)
	}
	m := ToMesh(solid, 8)
	if m.Triangles() == 0 {
		t.Fatal("tessellation produced no triangles")
	}

	var sb strings.Builder
	if err := m.WriteOBJ(&sb); err != nil {
		t.Fatal(err)
	}
	back, err := ReadOBJ(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if back.Triangles() != m.Triangles() {
		t.Errorf("round trip has %d triangles, want %d", back.Triangles(), m.Triangles())
	}

	b, _ := back.Bounds()
	c := puzzle.SlotCenter(13)
	if b.Center().Distance(c) > 0.5 {
		t.Errorf("tessellated piece centered at %+v, want near %+v", b.Center(), c)
	}
}

func TestExportAndLoad(t *testing.T) {
	dir := t.TempDir()
	if err := Export(dir, DefaultRound, 6); err != nil {
		t.Fatalf("Export: %v", err)
	}
	bounds, err := OBJSource{Dir: dir}.PieceBounds()
	if err != nil {
		t.Fatalf("PieceBounds: %v", err)
	}
	for id, b := range bounds {
		if b.Center().Distance(puzzle.SlotCenter(id)) > 0.5 {
			t.Errorf("piece %d loaded bounds off center: %+v", id, b)
		}
	}
}
