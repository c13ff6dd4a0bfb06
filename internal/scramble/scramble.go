// Package scramble generates random move sequences for mixing the cube.
package scramble

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/bebora/grubix/pkg/types"
)

const (
	DefaultMinLength = 20
	DefaultMaxLength = 25
)

var (
	// ErrRepeatedFace means two adjacent moves turn the same face.
	ErrRepeatedFace = errors.New("scramble: adjacent moves share a face")
	// ErrAxisRun means three adjacent moves turn faces on one axis.
	ErrAxisRun = errors.New("scramble: three consecutive moves share an axis")
)

// alphabet is the scramble move set in generation order: each face with
// the three suffixes "", "'" and "2".
var alphabet = func() []types.Move {
	faces := []types.Face{types.FaceU, types.FaceD, types.FaceF, types.FaceB, types.FaceR, types.FaceL}
	turns := []types.Turn{types.TurnCW, types.TurnCCW, types.Turn180}
	out := make([]types.Move, 0, len(faces)*len(turns))
	for _, f := range faces {
		for _, t := range turns {
			out = append(out, types.Move{Face: f, Turn: t})
		}
	}
	return out
}()

// Generator produces scrambles from a random source.
type Generator struct {
	rng       *rand.Rand
	minLength int
	maxLength int
}

// New creates a Generator. A nil src seeds from the runtime.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		rng:       rand.New(src),
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
	}
}

// NewSeeded creates a deterministic Generator.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetLengthRange sets the inclusive bounds used by Generate.
func (g *Generator) SetLengthRange(lo, hi int) {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	g.minLength, g.maxLength = lo, hi
}

// Generate returns a scramble with a random length in the configured range.
func (g *Generator) Generate() []types.Move {
	n := g.minLength + g.rng.IntN(g.maxLength-g.minLength+1)
	return g.GenerateN(n)
}

// GenerateN returns a scramble of exactly n moves.
func (g *Generator) GenerateN(n int) []types.Move {
	moves := make([]types.Move, 0, n)
	for len(moves) < n {
		m := alphabet[g.rng.IntN(len(alphabet))]
		if !allowed(moves, m) {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// Validate checks a sequence against the scramble rules.
func Validate(moves []types.Move) error {
	for i := range moves {
		if !allowed(moves[:i], moves[i]) {
			if moves[i].Face == moves[i-1].Face {
				return fmt.Errorf("%w at move %d (%s)", ErrRepeatedFace, i, moves[i].Notation())
			}
			return fmt.Errorf("%w at move %d (%s)", ErrAxisRun, i, moves[i].Notation())
		}
	}
	return nil
}

func allowed(prev []types.Move, next types.Move) bool {
	n := len(prev)
	if n == 0 {
		return true
	}
	if prev[n-1].Face == next.Face {
		return false
	}
	if n >= 2 {
		a := axisOf(prev[n-2].Face)
		if a == axisOf(prev[n-1].Face) && a == axisOf(next.Face) {
			return false
		}
	}
	return true
}

func axisOf(f types.Face) types.Axis {
	spec, _ := f.Spec()
	return spec.Axis
}
