// Package types contains shared type definitions for the grubix engine and its tools.
package types

// Face identifies a turnable layer in standard notation.
// U D L R F B are the outer layers, M E S the middle slices.
type Face string

const (
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceL Face = "L" // Left
	FaceR Face = "R" // Right
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
	FaceM Face = "M" // Middle, between L and R
	FaceE Face = "E" // Equator, between U and D
	FaceS Face = "S" // Standing, between F and B
)

// Axis is a world axis a face rotates about.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// FaceSpec describes how a face sits in world space.
//
// A positive turn of the face rotates its pieces by Sign*angle about Axis.
// Plane is the coordinate of the face's outer plane on Axis (0 for slices).
type FaceSpec struct {
	Face  Face
	Axis  Axis
	Sign  int
	Plane float64
}

// Outer reports whether the face is an outer layer carrying stickers.
func (s FaceSpec) Outer() bool {
	return s.Plane != 0
}

// Faces lists every face in engine order.
var Faces = []Face{FaceU, FaceD, FaceL, FaceR, FaceF, FaceB, FaceM, FaceE, FaceS}

// OuterFaces lists the six sticker-bearing faces.
var OuterFaces = []Face{FaceU, FaceD, FaceL, FaceR, FaceF, FaceB}

var faceSpecs = map[Face]FaceSpec{
	FaceU: {FaceU, AxisY, -1, 3},
	FaceD: {FaceD, AxisY, 1, -3},
	FaceL: {FaceL, AxisX, 1, -3},
	FaceR: {FaceR, AxisX, -1, 3},
	FaceF: {FaceF, AxisZ, -1, 3},
	FaceB: {FaceB, AxisZ, 1, -3},
	FaceM: {FaceM, AxisX, 1, 0},
	FaceE: {FaceE, AxisY, 1, 0},
	FaceS: {FaceS, AxisZ, -1, 0},
}

// Spec returns the geometric description of f.
func (f Face) Spec() (FaceSpec, bool) {
	s, ok := faceSpecs[f]
	return s, ok
}

// Valid reports whether f is a known face.
func (f Face) Valid() bool {
	_, ok := faceSpecs[f]
	return ok
}

// ParseFace converts a single letter to a Face. Lower case is accepted.
func ParseFace(c byte) (Face, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	f := Face(string(c))
	return f, f.Valid()
}
