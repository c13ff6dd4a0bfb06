package cube

import (
	"fmt"

	"github.com/bebora/grubix/pkg/types"
)

// ApplyMove applies a types.Move to the cube and appends it to the history.
func (c *Cube) ApplyMove(m types.Move) error {
	p, ok := perms[m.Face]
	if !ok {
		return fmt.Errorf("%w: unknown face %q", types.ErrInvalidNotation, m.Face)
	}
	for q := 0; q < m.Turn.Quarters(); q++ {
		c.permute(&p)
	}
	m.Timestamp = 0
	c.history = append(c.history, m)
	return nil
}

// ApplyMoves applies a sequence of moves to the cube.
func (c *Cube) ApplyMoves(moves []types.Move) error {
	for _, m := range moves {
		if err := c.ApplyMove(m); err != nil {
			return err
		}
	}
	return nil
}

// ApplyNotation parses and applies a space-separated move sequence.
func (c *Cube) ApplyNotation(s string) error {
	moves, err := types.ParseMoves(s)
	if err != nil {
		return err
	}
	return c.ApplyMoves(moves)
}

func (c *Cube) permute(p *perm) {
	src := c.Facelets
	for j, i := range p {
		c.Facelets[j/9][j%9] = src[i/9][i%9]
	}
}
