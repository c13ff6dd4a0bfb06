package camera

import "github.com/bebora/grubix/internal/geom"

// farPoint scales a direction when projecting it, so the projected segment
// is long enough to give a stable screen direction.
const farPoint = 10000

// Viewport maps between pixels and world space for one frame.
type Viewport struct {
	Width, Height    float64
	Eye              geom.Vec3
	View, Projection geom.Mat4
}

// Ray returns the normalized world direction of the ray from the eye
// through pixel p.
func (v Viewport) Ray(p geom.Vec2) geom.Vec3 {
	ndcX := 2*p.X/v.Width - 1
	ndcY := 1 - 2*p.Y/v.Height

	eye := v.Projection.Inverse().MulVec(geom.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1})
	dir := geom.Vec4{X: eye.X, Y: eye.Y, Z: eye.Z, W: 0}
	return v.View.Inverse().MulVec(dir).XYZ().Normalize()
}

// Project maps a world point to pixels. camZ is the point's depth in camera
// space; a positive value means it lies behind the camera.
func (v Viewport) Project(p geom.Vec3) (px geom.Vec2, camZ float64) {
	cam := v.View.MulVec(p.Point())
	ndc := v.Projection.MulVec(cam).Perspective()
	return geom.Vec2{
		X: v.Width * (ndc.X + 1) / 2,
		Y: v.Height * (1 - ndc.Y) / 2,
	}, cam.Z
}

// ProjectDir returns the screen direction of the world line start + t*dir.
// The result is not normalized and is flipped when the far point falls
// behind the camera.
func (v Viewport) ProjectDir(start, dir geom.Vec3) geom.Vec2 {
	from, _ := v.Project(start)
	to, z := v.Project(start.Add(dir.Scale(farPoint)))
	d := to.Sub(from)
	if z > 0 {
		d = d.Scale(-1)
	}
	return d
}
