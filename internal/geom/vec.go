// Package geom provides the small amount of linear algebra the engine needs:
// row-major 4x4 matrices, 3- and 4-vectors and angle helpers. Vector
// products go through mgl64.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D point or direction, usually in screen pixels.
type Vec2 struct{ X, Y float64 }

// Vec3 is a 3D point or direction.
type Vec3 struct{ X, Y, Z float64 }

// Vec4 is a homogeneous 4-vector.
type Vec4 struct{ X, Y, Z, W float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Len() }

// Normalize returns a unit vector, or the zero vector when a has no length.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64 { return a.mgl().Dot(b.mgl()) }
func (a Vec3) Len() float64 { return a.mgl().Len() }
func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

func (a Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3{a.X, a.Y, a.Z} }

func fromMgl(v mgl64.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Cross returns a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return fromMgl(a.mgl().Cross(b.mgl()))
}

// Normalize returns a unit vector, or the zero vector when a has no length.
func (a Vec3) Normalize() Vec3 {
	if a.Len() == 0 {
		return Vec3{}
	}
	return fromMgl(a.mgl().Normalize())
}

// Get returns the component selected by axis index 0, 1 or 2.
func (a Vec3) Get(axis int) float64 {
	switch axis {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// With returns a copy of a with the component at axis replaced by v.
func (a Vec3) With(axis int, v float64) Vec3 {
	switch axis {
	case 0:
		a.X = v
	case 1:
		a.Y = v
	default:
		a.Z = v
	}
	return a
}

// Unit returns the unit basis vector for axis index 0, 1 or 2.
func Unit(axis int) Vec3 {
	return Vec3{}.With(axis, 1)
}

// Point lifts a to a homogeneous point (w = 1).
func (a Vec3) Point() Vec4 { return Vec4{a.X, a.Y, a.Z, 1} }

// Dir lifts a to a homogeneous direction (w = 0).
func (a Vec3) Dir() Vec4 { return Vec4{a.X, a.Y, a.Z, 0} }

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Perspective divides by w. A zero w returns the xyz part unchanged.
func (v Vec4) Perspective() Vec3 {
	if v.W == 0 {
		return v.XYZ()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Mod returns n modulo m with the sign of m, so Mod(-1, 4) == 3.
func Mod(n, m float64) float64 {
	return math.Mod(math.Mod(n, m)+m, m)
}

// ModInt is Mod for integers.
func ModInt(n, m int) int {
	return ((n % m) + m) % m
}

// Sign returns -1, 0 or 1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
