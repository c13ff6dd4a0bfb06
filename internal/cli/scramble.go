package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/scramble"
)

var (
	scrambleCount  int
	scrambleSeed   uint64
	scrambleLength int
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print random scrambles",
	Long: `Print random scrambles of outer-face moves. Consecutive moves never turn
the same face, and three moves in a row never share an axis.

Examples:
  grubix scramble
  grubix scramble -n 5 --seed 42
  grubix scramble --length 30`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleCount, "count", "n", 1, "Number of scrambles")
	scrambleCmd.Flags().Uint64Var(&scrambleSeed, "seed", 0, "Random seed (default: random)")
	scrambleCmd.Flags().IntVar(&scrambleLength, "length", 0, "Exact scramble length (default: 20-25)")
}

func runScramble(cmd *cobra.Command, args []string) error {
	if scrambleCount < 1 {
		return fmt.Errorf("count must be positive")
	}
	gen := scramble.New(nil)
	if scrambleSeed != 0 {
		gen = scramble.NewSeeded(scrambleSeed)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < scrambleCount; i++ {
		var moves []grubix.Move
		if scrambleLength > 0 {
			moves = gen.GenerateN(scrambleLength)
		} else {
			moves = gen.Generate()
		}
		fmt.Fprintln(out, grubix.FormatMoves(moves))
	}
	return nil
}
