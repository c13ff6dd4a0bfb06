// Package puzzle holds the geometric state of the cube: 26 pieces with world
// transforms, the fixed slots they occupy and the nine turnable faces.
//
// A face turn has two halves. TurnABit rotates member pieces by an arbitrary
// angle and is what animation and drag feedback use. Turn swaps which piece
// sits in which slot and only happens once a rotation has reached a quarter
// multiple. Keeping the halves apart lets the engine show partial turns while
// the slot map stays discrete.
package puzzle

import (
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/pkg/types"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max geom.Vec3
}

// Center returns the middle of the box.
func (b Box) Center() geom.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Piece is one physical cubie.
type Piece struct {
	ID     int
	Bounds Box // in home coordinates
	World  geom.Mat4
}

// Slot is a fixed position in the cube lattice.
type Slot struct {
	ID    int
	Piece *Piece
	Faces []*Face // one per axis, in face order
}

// Puzzle owns every piece, slot, face and facelet.
type Puzzle struct {
	Pieces   [NumPieces]*Piece
	Slots    [NumPieces]*Slot
	Facelets []*Facelet

	faces     map[types.Face]*Face
	faceOrder []*Face
}

// New builds a puzzle in the home configuration. bounds[i] is the bounding
// box of piece i at home; facelet hit areas are taken from them.
func New(bounds [NumPieces]Box) *Puzzle {
	p := &Puzzle{faces: make(map[types.Face]*Face, len(types.Faces))}

	for i := 0; i < NumPieces; i++ {
		p.Pieces[i] = &Piece{ID: i, Bounds: bounds[i], World: geom.Identity()}
		p.Slots[i] = &Slot{ID: i, Piece: p.Pieces[i]}
	}

	for _, name := range types.Faces {
		spec, _ := name.Spec()
		f := &Face{Name: name, Spec: spec}
		for _, id := range faceSlots[name] {
			f.Slots = append(f.Slots, p.Slots[id])
		}
		p.faces[name] = f
		p.faceOrder = append(p.faceOrder, f)
	}

	for _, f := range p.faceOrder {
		for _, s := range f.Slots {
			s.Faces = append(s.Faces, f)
		}
	}

	p.Facelets = buildFacelets(p)
	return p
}

// Face returns the face with the given name, or nil.
func (p *Puzzle) Face(name types.Face) *Face {
	return p.faces[name]
}

// Faces returns all faces in engine order.
func (p *Puzzle) Faces() []*Face {
	return p.faceOrder
}

// Reset restores the home configuration: slot i holds piece i, every transform
// is the identity and no face carries an uncommitted angle.
func (p *Puzzle) Reset() {
	for i, s := range p.Slots {
		s.Piece = p.Pieces[i]
		p.Pieces[i].World = geom.Identity()
	}
	for _, f := range p.faceOrder {
		f.TempAngle = 0
	}
}

// IsHome reports whether every slot holds its own piece.
func (p *Puzzle) IsHome() bool {
	for _, s := range p.Slots {
		if s.Piece.ID != s.ID {
			return false
		}
	}
	return true
}

// SlotPieces returns the id of the piece currently in each slot.
func (p *Puzzle) SlotPieces() [NumPieces]int {
	var out [NumPieces]int
	for i, s := range p.Slots {
		out[i] = s.Piece.ID
	}
	return out
}

// Transforms returns a copy of every piece's world transform, indexed by piece id.
func (p *Puzzle) Transforms() [NumPieces]geom.Mat4 {
	var out [NumPieces]geom.Mat4
	for i, pc := range p.Pieces {
		out[i] = pc.World
	}
	return out
}

// IntersectFacelets casts a ray and returns the nearest facelet whose bounds
// contain the hit point, with the hit point. Hits behind the origin are ignored.
func (p *Puzzle) IntersectFacelets(origin, dir geom.Vec3) (*Facelet, geom.Vec3, bool) {
	var (
		best     *Facelet
		bestHit  geom.Vec3
		bestDist float64
	)
	for _, fl := range p.Facelets {
		hit, t, ok := fl.Face.IntersectRay(origin, dir)
		if !ok || t < 0 || !fl.Contains(hit) {
			continue
		}
		d := hit.Distance(origin)
		if best == nil || d < bestDist {
			best, bestHit, bestDist = fl, hit, d
		}
	}
	return best, bestHit, best != nil
}
