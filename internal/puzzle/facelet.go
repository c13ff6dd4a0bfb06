package puzzle

import "github.com/bebora/grubix/internal/geom"

// Facelet is the visible square of a slot on an outer face. It belongs to the
// slot, not the piece, so it never moves.
type Facelet struct {
	Face   *Face
	Slot   *Slot
	Bounds Box

	// Directions holds, for each other face through the slot, the 3D direction
	// the facelet travels in when that face turns positively.
	Directions []Direction
}

// Direction pairs a candidate face with its drag direction.
type Direction struct {
	Face *Face
	Dir  geom.Vec3
}

// Contains reports whether p lies inside the facelet on the two axes that
// span the face plane. Edges count as inside.
func (fl *Facelet) Contains(p geom.Vec3) bool {
	fixed := fl.Face.Axis()
	for a := 0; a < 3; a++ {
		if a == fixed {
			continue
		}
		v := p.Get(a)
		if v < fl.Bounds.Min.Get(a) || v > fl.Bounds.Max.Get(a) {
			return false
		}
	}
	return true
}

// Center returns the middle of the facelet on the face plane.
func (fl *Facelet) Center() geom.Vec3 {
	return fl.Bounds.Center().With(fl.Face.Axis(), fl.Face.Spec.Plane)
}

func buildFacelets(p *Puzzle) []*Facelet {
	var out []*Facelet
	for _, f := range p.faceOrder {
		if !f.Spec.Outer() {
			continue
		}
		normal := geom.Unit(f.Axis()).Scale(f.Spec.Plane)
		for _, s := range f.Slots {
			fl := &Facelet{Face: f, Slot: s, Bounds: p.Pieces[s.ID].Bounds}
			for _, other := range s.Faces {
				if other == f {
					continue
				}
				fl.Directions = append(fl.Directions, Direction{
					Face: other,
					Dir:  other.AxisVector().Cross(normal).Normalize(),
				})
			}
			out = append(out, fl)
		}
	}
	return out
}
