package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bebora/grubix/internal/geom"
)

// ReadOBJ reads the vertices of a Wavefront OBJ file. Faces are expanded
// into a triangle soup; files without faces keep their raw vertex list.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var (
		verts []geom.Vec3
		m     = &Mesh{}
	)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", line)
			}
			var c [3]float64
			for i := range c {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				c[i] = v
			}
			verts = append(verts, geom.Vec3{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				ref, _, _ := strings.Cut(f, "/")
				i, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				if i < 0 {
					i = len(verts) + i + 1
				}
				if i < 1 || i > len(verts) {
					return nil, fmt.Errorf("line %d: vertex index %d out of range", line, i)
				}
				idx = append(idx, i-1)
			}
			for k := 1; k+1 < len(idx); k++ {
				a, b, c := verts[idx[0]], verts[idx[k]], verts[idx[k+1]]
				n := b.Sub(a).Cross(c.Sub(a)).Normalize()
				m.Vertices = append(m.Vertices, a, b, c)
				m.Normals = append(m.Normals, n, n, n)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(m.Vertices) == 0 {
		m.Vertices = verts
	}
	return m, nil
}

// WriteOBJ writes the mesh as an OBJ file with one vertex and normal per corner.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", i+1, i+1, i+2, i+2, i+3, i+3)
	}
	return bw.Flush()
}
