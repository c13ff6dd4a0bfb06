package mesh

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bebora/grubix/internal/puzzle"
)

// SDFSource computes piece bounds from the signed distance fields.
type SDFSource struct {
	Round float64
}

// PieceBounds returns the bounding box of every piece at home.
func (s SDFSource) PieceBounds() ([puzzle.NumPieces]puzzle.Box, error) {
	var out [puzzle.NumPieces]puzzle.Box
	for id := range out {
		solid, err := Solid(id, s.Round)
		if err != nil {
			return out, err
		}
		out[id] = boxFromSDF(solid)
	}
	return out, nil
}

// OBJSource reads piece meshes named piece<N>.obj from a directory.
type OBJSource struct {
	Dir string
}

// FileName returns the file name used for piece id.
func FileName(id int) string {
	return fmt.Sprintf("piece%d.obj", id)
}

// PieceBounds returns the vertex bounds of every piece mesh.
func (s OBJSource) PieceBounds() ([puzzle.NumPieces]puzzle.Box, error) {
	var out [puzzle.NumPieces]puzzle.Box
	for id := range out {
		path := filepath.Join(s.Dir, FileName(id))
		f, err := os.Open(path)
		if err != nil {
			return out, fmt.Errorf("failed to open mesh: %w", err)
		}
		m, err := ReadOBJ(f)
		f.Close()
		if err != nil {
			return out, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if out[id], err = m.Bounds(); err != nil {
			return out, fmt.Errorf("%s: %w", path, err)
		}
	}
	return out, nil
}

// Export tessellates every piece and writes piece<N>.obj files into dir.
func Export(dir string, round float64, cells int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mesh directory: %w", err)
	}
	for id := 0; id < puzzle.NumPieces; id++ {
		solid, err := Solid(id, round)
		if err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dir, FileName(id)))
		if err != nil {
			return fmt.Errorf("failed to create mesh file: %w", err)
		}
		werr := ToMesh(solid, cells).WriteOBJ(f)
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("failed to write piece %d: %w", id, werr)
		}
		if cerr != nil {
			return cerr
		}
	}
	return nil
}
