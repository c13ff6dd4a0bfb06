// Package mesh builds piece geometry. Pieces are rounded boxes modeled as
// signed distance fields; their bounding boxes give facelet hit areas and
// their tessellation can be exported as OBJ files.
package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
)

const (
	// PieceSize is the edge length of a piece.
	PieceSize = 2.0
	// DefaultRound is the edge rounding radius.
	DefaultRound = 0.15
	// DefaultCells is the marching cubes resolution along the longest axis.
	DefaultCells = 24
)

// Solid returns the signed distance field of piece id at its home position.
func Solid(id int, round float64) (sdf.SDF3, error) {
	if id < 0 || id >= puzzle.NumPieces {
		return nil, fmt.Errorf("mesh: piece id %d out of range", id)
	}
	s, err := sdf.Box3D(v3.Vec{X: PieceSize, Y: PieceSize, Z: PieceSize}, round)
	if err != nil {
		return nil, fmt.Errorf("failed to build piece %d: %w", id, err)
	}
	c := puzzle.SlotCenter(id)
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: c.X, Y: c.Y, Z: c.Z})), nil
}

// Mesh is a triangle soup with one normal per vertex.
type Mesh struct {
	Vertices []geom.Vec3
	Normals  []geom.Vec3
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Vertices) / 3
}

// Bounds returns the axis-aligned bounds of every vertex.
func (m *Mesh) Bounds() (puzzle.Box, error) {
	if len(m.Vertices) == 0 {
		return puzzle.Box{}, fmt.Errorf("mesh: no vertices")
	}
	b := puzzle.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min = geom.Vec3{X: min(b.Min.X, v.X), Y: min(b.Min.Y, v.Y), Z: min(b.Min.Z, v.Z)}
		b.Max = geom.Vec3{X: max(b.Max.X, v.X), Y: max(b.Max.Y, v.Y), Z: max(b.Max.Z, v.Z)}
	}
	return b, nil
}

// ToMesh tessellates a solid with marching cubes.
func ToMesh(s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := &Mesh{
		Vertices: make([]geom.Vec3, 0, len(triangles)*3),
		Normals:  make([]geom.Vec3, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		n := tri.Normal()
		normal := geom.Vec3{X: n.X, Y: n.Y, Z: n.Z}
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, geom.Vec3{X: v.X, Y: v.Y, Z: v.Z})
			m.Normals = append(m.Normals, normal)
		}
	}
	return m
}

func boxFromSDF(s sdf.SDF3) puzzle.Box {
	bb := s.BoundingBox()
	return puzzle.Box{
		Min: geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}
