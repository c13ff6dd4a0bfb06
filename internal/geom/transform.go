package geom

import "math"

// RotateX returns a rotation of deg degrees about the x axis.
func RotateX(deg float64) Mat4 {
	s, c := math.Sincos(DegToRad(deg))
	m := Identity()
	m[5], m[6] = c, -s
	m[9], m[10] = s, c
	return m
}

// RotateY returns a rotation of deg degrees about the y axis.
func RotateY(deg float64) Mat4 {
	s, c := math.Sincos(DegToRad(deg))
	m := Identity()
	m[0], m[2] = c, s
	m[8], m[10] = -s, c
	return m
}

// RotateZ returns a rotation of deg degrees about the z axis.
func RotateZ(deg float64) Mat4 {
	s, c := math.Sincos(DegToRad(deg))
	m := Identity()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return m
}

// Rotate dispatches to RotateX, RotateY or RotateZ by axis index.
func Rotate(axis int, deg float64) Mat4 {
	switch axis {
	case 0:
		return RotateX(deg)
	case 1:
		return RotateY(deg)
	default:
		return RotateZ(deg)
	}
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = v.X, v.Y, v.Z
	return m
}

// Perspective returns an OpenGL style projection matrix.
// fovy is the vertical field of view in degrees.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	ct := 1 / math.Tan(DegToRad(fovy)/2)
	var m Mat4
	m[0] = ct / aspect
	m[5] = ct
	m[10] = (far + near) / (near - far)
	m[11] = 2 * far * near / (near - far)
	m[14] = -1
	return m
}

// View returns the camera matrix for an eye at position looking with the given
// elevation (rotation about x) and angle (rotation about y), both in degrees.
func View(eye Vec3, elevation, angle float64) Mat4 {
	return RotateX(-elevation).Mul(RotateY(-angle)).Mul(Translate(eye.Scale(-1)))
}
