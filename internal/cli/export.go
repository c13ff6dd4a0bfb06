package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix/internal/mesh"
	"github.com/bebora/grubix/internal/storage"
)

var (
	exportSessionID string
	exportFormat    string
	exportOutput    string
	exportLast      bool

	meshRound float64
	meshCells int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data and piece meshes",
}

var exportMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Export moves from a session",
	Long: `Export the move sequence from a session in text or JSON format.

Examples:
  grubix export moves --last
  grubix export moves --id <session_id> --format json
  grubix export moves --id <session_id> --format txt -o moves.txt`,
	RunE: runExportMoves,
}

var exportMeshCmd = &cobra.Command{
	Use:   "mesh <dir>",
	Short: "Write piece meshes as OBJ files",
	Long: `Tessellate the 26 rounded pieces and write piece0.obj .. piece25.obj into
dir. Pass the same directory to --mesh-dir to take piece bounds from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportMesh,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportMovesCmd)
	exportMovesCmd.Flags().StringVar(&exportSessionID, "id", "", "Session ID to export")
	exportMovesCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last session")
	exportMovesCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportMovesCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	exportCmd.AddCommand(exportMeshCmd)
	exportMeshCmd.Flags().Float64Var(&meshRound, "round", mesh.DefaultRound, "Edge rounding radius")
	exportMeshCmd.Flags().IntVar(&meshCells, "cells", mesh.DefaultCells, "Marching cubes resolution")
}

// moveJSON is the exported form of a stored move.
type moveJSON struct {
	MoveIndex int    `json:"move_index"`
	TsMs      int64  `json:"ts_ms"`
	Face      string `json:"face"`
	Turn      int    `json:"turn"`
	Notation  string `json:"notation"`
	Source    string `json:"source"`
}

func runExportMoves(cmd *cobra.Command, args []string) error {
	if exportSessionID == "" && !exportLast {
		return fmt.Errorf("specify --id or --last")
	}
	out := cmd.OutOrStdout()

	return withDB(func(db *storage.DB) error {
		repo := storage.NewSessionRepository(db)
		sessionID := exportSessionID
		if exportLast {
			list, err := repo.List(1)
			if err != nil {
				return fmt.Errorf("failed to get last session: %w", err)
			}
			if len(list) == 0 {
				return fmt.Errorf("no sessions found")
			}
			sessionID = list[0].SessionID
		} else {
			s, err := findSession(repo, sessionID)
			if err != nil {
				return err
			}
			sessionID = s.SessionID
		}

		moves, err := storage.NewMoveRepository(db).GetBySession(sessionID)
		if err != nil {
			return fmt.Errorf("failed to get moves: %w", err)
		}
		if len(moves) == 0 {
			return fmt.Errorf("no moves found for session %s", sessionID)
		}

		var output string
		switch strings.ToLower(exportFormat) {
		case "txt":
			notations := make([]string, len(moves))
			for i, m := range moves {
				notations[i] = m.Notation
			}
			output = strings.Join(notations, " ")

		case "json":
			list := make([]moveJSON, len(moves))
			for i, m := range moves {
				list[i] = moveJSON{
					MoveIndex: m.MoveIndex,
					TsMs:      m.TsMs,
					Face:      m.Face,
					Turn:      m.Turn,
					Notation:  m.Notation,
					Source:    m.Source,
				}
			}
			data, err := json.MarshalIndent(list, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			output = string(data)

		default:
			return fmt.Errorf("unknown format: %s (use txt or json)", exportFormat)
		}

		if exportOutput == "" {
			fmt.Fprintln(out, output)
			return nil
		}
		if dir := filepath.Dir(exportOutput); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(out, "Exported %d moves to %s\n", len(moves), exportOutput)
		return nil
	})
}

func runExportMesh(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := mesh.Export(dir, meshRound, meshCells); err != nil {
		return err
	}
	// Read the files back so a broken export fails here, not at startup.
	if _, err := (mesh.OBJSource{Dir: dir}).PieceBounds(); err != nil {
		return fmt.Errorf("exported meshes are unreadable: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote 26 piece meshes to %s\n", dir)
	return nil
}
