package cube

import "github.com/bebora/grubix/pkg/types"

// Vec is an integer position in doubled cube coordinates: piece centers sit at
// -2, 0 or 2 on each axis and sticker surfaces at ±3.
type Vec [3]int

func (v Vec) add(o Vec) Vec { return Vec{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec) scale(s int) Vec { return Vec{v[0] * s, v[1] * s, v[2] * s} }
func (v Vec) dot(o Vec) int { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// frame is the orientation of a face as seen from outside the cube.
type frame struct {
	normal, right, down Vec
}

var frames = [6]frame{
	U: {Vec{0, 1, 0}, Vec{1, 0, 0}, Vec{0, 0, 1}},
	D: {Vec{0, -1, 0}, Vec{1, 0, 0}, Vec{0, 0, -1}},
	F: {Vec{0, 0, 1}, Vec{1, 0, 0}, Vec{0, -1, 0}},
	B: {Vec{0, 0, -1}, Vec{-1, 0, 0}, Vec{0, -1, 0}},
	R: {Vec{1, 0, 0}, Vec{0, 0, -1}, Vec{0, -1, 0}},
	L: {Vec{-1, 0, 0}, Vec{0, 0, 1}, Vec{0, -1, 0}},
}

// FaceOf maps an engine face name to the canonical face index.
// Slice names have no sticker face and return false.
func FaceOf(f types.Face) (Face, bool) {
	switch f {
	case types.FaceU:
		return U, true
	case types.FaceD:
		return D, true
	case types.FaceF:
		return F, true
	case types.FaceB:
		return B, true
	case types.FaceR:
		return R, true
	case types.FaceL:
		return L, true
	default:
		return 0, false
	}
}

// Normal returns the outward normal of face f.
func Normal(f Face) Vec {
	return frames[f].normal
}

// StickerPosition returns the surface position of sticker idx on face f.
func StickerPosition(f Face, idx int) Vec {
	fr := frames[f]
	row, col := idx/3, idx%3
	return fr.normal.scale(3).
		add(fr.right.scale(2 * (col - 1))).
		add(fr.down.scale(2 * (row - 1)))
}

// StickerAt is the inverse of StickerPosition.
func StickerAt(pos Vec) (Face, int, bool) {
	for f := Face(0); f < 6; f++ {
		fr := frames[f]
		if pos.dot(fr.normal) != 3 {
			continue
		}
		off := pos.add(fr.normal.scale(-3))
		col := off.dot(fr.right)/2 + 1
		row := off.dot(fr.down)/2 + 1
		if row < 0 || row > 2 || col < 0 || col > 2 {
			return 0, 0, false
		}
		return f, row*3 + col, true
	}
	return 0, 0, false
}

// rotateQuarter turns v a quarter about axis. s = 1 is a positive
// (counter-clockwise looking down the axis) rotation, s = -1 the opposite.
func rotateQuarter(v Vec, axis types.Axis, s int) Vec {
	x, y, z := v[0], v[1], v[2]
	switch axis {
	case types.AxisX:
		return Vec{x, -s * z, s * y}
	case types.AxisY:
		return Vec{s * z, y, -s * x}
	default:
		return Vec{-s * y, s * x, z}
	}
}

// layerCoord returns the piece-center coordinate a face's layer occupies.
func layerCoord(spec types.FaceSpec) int {
	switch {
	case spec.Plane > 0:
		return 2
	case spec.Plane < 0:
		return -2
	default:
		return 0
	}
}

// perm[j] is the sticker index whose color moves to j on one clockwise quarter.
type perm [54]int

var perms = buildPerms()

func buildPerms() map[types.Face]perm {
	out := make(map[types.Face]perm, len(types.Faces))
	for _, name := range types.Faces {
		spec, _ := name.Spec()
		axis := int(spec.Axis)
		var p perm
		for i := range p {
			p[i] = i
		}
		for f := Face(0); f < 6; f++ {
			for idx := 0; idx < 9; idx++ {
				pos := StickerPosition(f, idx)
				center := pos.add(Normal(f).scale(-1))
				if center[axis] != layerCoord(spec) {
					continue
				}
				nf, nidx, ok := StickerAt(rotateQuarter(pos, spec.Axis, spec.Sign))
				if !ok {
					panic("cube: rotation left the sticker lattice")
				}
				p[int(nf)*9+nidx] = int(f)*9 + idx
			}
		}
		out[name] = p
	}
	return out
}
