package puzzle

import (
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/pkg/types"
)

// ringLen is the number of slots that move on a face turn.
const ringLen = 8

// Face is a turnable layer.
type Face struct {
	Name  types.Face
	Spec  types.FaceSpec
	Slots []*Slot

	// TempAngle is the uncommitted rotation in degrees since the last commit.
	TempAngle float64
}

// Axis returns the rotation axis as an index usable with geom.
func (f *Face) Axis() int {
	return int(f.Spec.Axis)
}

// AxisVector returns Sign times the unit vector of the face's axis.
func (f *Face) AxisVector() geom.Vec3 {
	return geom.Unit(f.Axis()).Scale(float64(f.Spec.Sign))
}

// TurnABit rotates every member piece by angle degrees about the face axis
// without touching the slot map.
func (f *Face) TurnABit(angle float64) {
	rot := geom.Rotate(f.Axis(), float64(f.Spec.Sign)*angle)
	for _, s := range f.Slots {
		s.Piece.World = rot.Mul(s.Piece.World)
	}
	f.TempAngle += angle
}

// Turn moves the pieces of the ring two positions forward (clockwise) or back.
// Transforms are not touched.
func (f *Face) Turn(clockwise bool) {
	var ring [ringLen]*Piece
	for i := 0; i < ringLen; i++ {
		ring[i] = f.Slots[i].Piece
	}
	shift := 2
	if !clockwise {
		shift = ringLen - 2
	}
	for i := 0; i < ringLen; i++ {
		f.Slots[(i+shift)%ringLen].Piece = ring[i]
	}
}

// Snap rounds every member transform to integers. Valid only when the face
// sits at a multiple of 90 degrees.
func (f *Face) Snap() {
	for _, s := range f.Slots {
		s.Piece.World = s.Piece.World.Round()
	}
}

// IntersectRay intersects a ray with the face's plane. t is the ray parameter
// of the hit. A ray parallel to the plane never hits.
func (f *Face) IntersectRay(origin, dir geom.Vec3) (hit geom.Vec3, t float64, ok bool) {
	a := f.Axis()
	d := dir.Get(a)
	if d == 0 {
		return geom.Vec3{}, 0, false
	}
	t = (f.Spec.Plane - origin.Get(a)) / d
	return origin.Add(dir.Scale(t)), t, true
}
