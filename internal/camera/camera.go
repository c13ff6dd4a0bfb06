// Package camera implements the orbit camera and the screen/world mapping
// used for picking and drag projection.
package camera

import (
	"math"

	"github.com/bebora/grubix/internal/geom"
)

const (
	DefaultRadius     = 9.0
	MinRadius         = 5.5
	MaxRadius         = 20.0
	DefaultOrbitSpeed = 0.5    // degrees per pixel
	DefaultZoomSpeed  = 0.0005 // radius fraction per wheel unit
	DefaultFovY       = 90.0
	DefaultNear       = 0.1
	DefaultFar        = 100.0
)

// Camera orbits the origin at Radius, tilted by Elevation and turned by
// Angle, both in degrees.
type Camera struct {
	Elevation float64 `json:"elevation"`
	Angle     float64 `json:"angle"`
	Radius    float64 `json:"radius"`

	FovY       float64 `json:"-"`
	Near       float64 `json:"-"`
	Far        float64 `json:"-"`
	OrbitSpeed float64 `json:"-"`
	ZoomSpeed  float64 `json:"-"`
}

// New returns a camera looking at the front face.
func New() *Camera {
	return &Camera{
		Radius:     DefaultRadius,
		FovY:       DefaultFovY,
		Near:       DefaultNear,
		Far:        DefaultFar,
		OrbitSpeed: DefaultOrbitSpeed,
		ZoomSpeed:  DefaultZoomSpeed,
	}
}

// Position returns the eye position in world space.
func (c *Camera) Position() geom.Vec3 {
	elev := geom.DegToRad(-c.Elevation)
	ang := geom.DegToRad(-c.Angle)
	return geom.Vec3{
		X: c.Radius * math.Sin(ang) * math.Cos(elev),
		Y: c.Radius * math.Sin(elev),
		Z: c.Radius * math.Cos(ang) * math.Cos(elev),
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() geom.Mat4 {
	return geom.View(c.Position(), c.Elevation, -c.Angle)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float64) geom.Mat4 {
	return geom.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Orbit turns the camera by a pointer drag of dx, dy pixels. The azimuth
// direction flips while the camera is upside down.
func (c *Camera) Orbit(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	sign := 1.0
	if e := geom.Mod(c.Elevation, 360); e > 90 && e < 270 {
		sign = -1
	}
	c.Elevation += c.OrbitSpeed * -dy
	c.Angle += c.OrbitSpeed * dx * sign
}

// Zoom changes the radius by a wheel delta, proportionally to the current
// radius, and clamps it.
func (c *Camera) Zoom(deltaY float64) {
	r := c.Radius + deltaY*c.ZoomSpeed*c.Radius
	c.Radius = math.Min(math.Max(r, MinRadius), MaxRadius)
}

// Viewport captures the camera for a surface of width x height pixels.
func (c *Camera) Viewport(width, height float64) Viewport {
	aspect := 1.0
	if height > 0 {
		aspect = width / height
	}
	return Viewport{
		Width:      width,
		Height:     height,
		Eye:        c.Position(),
		View:       c.View(),
		Projection: c.Projection(aspect),
	}
}
