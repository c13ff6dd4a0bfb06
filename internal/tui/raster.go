package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/cube"
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
)

const (
	ambient = 0.35
	// borderWidth is the plastic rim around each sticker, as a fraction of
	// the piece side.
	borderWidth = 0.08
)

// Raster ray casts the cube into terminal cells. Each cell holds two
// vertically stacked pixels drawn with half-block glyphs, so a viewport of
// cols x rows cells is cols x 2*rows pixels.
type Raster struct {
	bounds [puzzle.NumPieces]puzzle.Box
	// stickers[piece][side] is the sticker color on a side of the piece's
	// home box, or -1 for bare plastic. side = axis*2 + (1 if positive).
	stickers [puzzle.NumPieces][6]int8

	styles map[cellKey]lipgloss.Style
}

type cellKey struct {
	glyph  rune
	fg, bg string
}

// hit is the nearest piece surface along a ray.
type hit struct {
	piece  int
	color  int8
	normal geom.Vec3 // world space
}

// frame caches per-render inputs.
type frame struct {
	eye   geom.Vec3
	light geom.Vec3
	world [puzzle.NumPieces]geom.Mat4
	inv   [puzzle.NumPieces]geom.Mat4
}

// NewRaster prepares a raster for pieces with the given home bounds.
func NewRaster(bounds [puzzle.NumPieces]puzzle.Box) *Raster {
	r := &Raster{bounds: bounds, styles: make(map[cellKey]lipgloss.Style)}
	for id := range r.stickers {
		center := puzzle.SlotCenter(id)
		for axis := 0; axis < 3; axis++ {
			for s, sign := range []int{-1, 1} {
				r.stickers[id][axis*2+s] = -1
				if int(center.Get(axis)) != 2*sign {
					continue
				}
				if f, ok := faceWithNormal(axis, sign); ok {
					r.stickers[id][axis*2+s] = int8(f.SolvedColor())
				}
			}
		}
	}
	return r
}

func faceWithNormal(axis, sign int) (cube.Face, bool) {
	for f := cube.Face(0); f < 6; f++ {
		if cube.Normal(f)[axis] == sign {
			return f, true
		}
	}
	return 0, false
}

func (r *Raster) prepare(snap grubix.Snapshot, vp camera.Viewport) *frame {
	fr := &frame{
		eye:   vp.Eye,
		light: vp.Eye.Normalize().Add(geom.Vec3{Y: 0.5}).Normalize(),
		world: snap.Transforms,
	}
	for i, m := range snap.Transforms {
		fr.inv[i] = m.Inverse()
	}
	return fr
}

// trace finds the nearest piece face along dir from the eye.
func (r *Raster) trace(fr *frame, dir geom.Vec3) (hit, bool) {
	var (
		best  hit
		bestT = math.Inf(1)
		found bool
	)
	for id := range r.bounds {
		o := fr.inv[id].MulPoint(fr.eye)
		d := fr.inv[id].MulDir(dir)
		t, axis, sign, ok := slab(r.bounds[id], o, d)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		found = true

		side := axis * 2
		if sign > 0 {
			side++
		}
		color := r.stickers[id][side]
		if color >= 0 && onRim(r.bounds[id], o.Add(d.Scale(t)), axis) {
			color = -1
		}
		best = hit{
			piece:  id,
			color:  color,
			normal: fr.world[id].MulDir(geom.Unit(axis).Scale(float64(sign))),
		}
	}
	return best, found
}

// slab intersects a ray with a box and returns the entry distance and the
// axis and sign of the entry side.
func slab(b puzzle.Box, o, d geom.Vec3) (t float64, axis, sign int, ok bool) {
	near, far := math.Inf(-1), math.Inf(1)
	for a := 0; a < 3; a++ {
		oa, da := o.Get(a), d.Get(a)
		lo, hi := b.Min.Get(a), b.Max.Get(a)
		if math.Abs(da) < 1e-12 {
			if oa < lo || oa > hi {
				return 0, 0, 0, false
			}
			continue
		}
		t1, t2 := (lo-oa)/da, (hi-oa)/da
		s := -1
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > near {
			near, axis, sign = t1, a, s
		}
		far = math.Min(far, t2)
	}
	if near > far || near < 0 {
		return 0, 0, 0, false
	}
	return near, axis, sign, true
}

func onRim(b puzzle.Box, p geom.Vec3, fixed int) bool {
	for a := 0; a < 3; a++ {
		if a == fixed {
			continue
		}
		lo, hi := b.Min.Get(a), b.Max.Get(a)
		rim := (hi - lo) * borderWidth
		if v := p.Get(a); v < lo+rim || v > hi-rim {
			return true
		}
	}
	return false
}

func (r *Raster) shade(fr *frame, h hit) colorful.Color {
	base := plastic
	if h.color >= 0 {
		base = palette[h.color]
	}
	k := ambient + (1-ambient)*math.Max(0, h.normal.Dot(fr.light))
	return colorful.Color{R: base.R * k, G: base.G * k, B: base.B * k}.Clamped()
}

// Pixel returns the shaded color at pixel px, or false on background.
func (r *Raster) Pixel(snap grubix.Snapshot, vp camera.Viewport, px geom.Vec2) (colorful.Color, bool) {
	fr := r.prepare(snap, vp)
	h, ok := r.trace(fr, vp.Ray(px))
	if !ok {
		return colorful.Color{}, false
	}
	return r.shade(fr, h), true
}

// Render draws the snapshot into cols x rows cells. The viewport must be
// cols wide and 2*rows high.
func (r *Raster) Render(snap grubix.Snapshot, vp camera.Viewport, cols, rows int) string {
	fr := r.prepare(snap, vp)
	sample := func(x, y int) (string, bool) {
		h, ok := r.trace(fr, vp.Ray(geom.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}))
		if !ok {
			return "", false
		}
		return r.shade(fr, h).Hex(), true
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		var (
			run  strings.Builder
			prev cellKey
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if prev.glyph == ' ' {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(r.style(prev).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < cols; col++ {
			top, topOK := sample(col, 2*row)
			bottom, bottomOK := sample(col, 2*row+1)

			var key cellKey
			switch {
			case topOK && bottomOK:
				key = cellKey{glyph: '▀', fg: top, bg: bottom}
			case topOK:
				key = cellKey{glyph: '▀', fg: top}
			case bottomOK:
				key = cellKey{glyph: '▄', fg: bottom}
			default:
				key = cellKey{glyph: ' '}
			}
			if key != prev {
				flush()
				prev = key
			}
			run.WriteRune(key.glyph)
		}
		flush()
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (r *Raster) style(k cellKey) lipgloss.Style {
	if s, ok := r.styles[k]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(k.fg))
	if k.bg != "" {
		s = s.Background(lipgloss.Color(k.bg))
	}
	r.styles[k] = s
	return s
}

// CellPixel maps a terminal cell to the pixel at its center.
func CellPixel(x, y int) geom.Vec2 {
	return geom.Vec2{X: float64(x) + 0.5, Y: float64(2*y) + 1}
}
