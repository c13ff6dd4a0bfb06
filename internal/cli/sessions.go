package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/storage"
)

var (
	listLimit int
	showLast  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage recorded sessions",
	Long:  `Commands for listing, inspecting and deleting recorded play sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show details of a session",
	Long: `Display a session's metadata, scramble and move sequence.

Use --last to show the most recent session. A unique id prefix is enough.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and state information",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().IntVarP(&listLimit, "limit", "n", 10, "Number of sessions to list")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")

	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// withDB opens the database for the duration of fn.
func withDB(fn func(db *storage.DB) error) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	db, err := openDB(stateFile)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return withDB(func(db *storage.DB) error {
		sessions, err := storage.NewSessionRepository(db).List(listLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded")
			return nil
		}

		moves := storage.NewMoveRepository(db)
		fmt.Fprintf(out, "%-10s %-20s %-10s %6s %10s  %s\n", "ID", "STARTED", "SOURCE", "MOVES", "DURATION", "RESULT")
		for _, s := range sessions {
			count, err := moves.Count(s.SessionID, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-10s %-20s %-10s %6d %10s  %s\n",
				shortID(s.SessionID),
				s.StartedAt.Local().Format("2006-01-02 15:04:05"),
				s.Source,
				count,
				sessionDuration(s),
				sessionResult(s),
			)
		}
		return nil
	})
}

func sessionDuration(s storage.Session) string {
	if s.DurationMs == nil {
		return "-"
	}
	return formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
}

func sessionResult(s storage.Session) string {
	switch {
	case !s.Ended():
		return "open"
	case s.Solved:
		return "solved"
	default:
		return "abandoned"
	}
}

// findSession resolves a full id or a unique prefix.
func findSession(repo *storage.SessionRepository, id string) (*storage.Session, error) {
	s, err := repo.Get(id)
	if err == nil || !errors.Is(err, storage.ErrSessionNotFound) {
		return s, err
	}
	all, err := repo.List(0)
	if err != nil {
		return nil, err
	}
	var match *storage.Session
	for i := range all {
		if strings.HasPrefix(all[i].SessionID, id) {
			if match != nil {
				return nil, fmt.Errorf("session prefix %q is ambiguous", id)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, id)
	}
	return match, nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !showLast {
		return fmt.Errorf("specify a session id or --last")
	}
	out := cmd.OutOrStdout()
	return withDB(func(db *storage.DB) error {
		repo := storage.NewSessionRepository(db)

		var (
			s   *storage.Session
			err error
		)
		if showLast {
			list, lerr := repo.List(1)
			if lerr != nil {
				return lerr
			}
			if len(list) == 0 {
				return fmt.Errorf("no sessions recorded")
			}
			s = &list[0]
		} else if s, err = findSession(repo, args[0]); err != nil {
			return err
		}

		records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
		if err != nil {
			return err
		}
		printSession(out, s, records)
		return nil
	})
}

func printSession(out io.Writer, s *storage.Session, records []storage.MoveRecord) {
	fmt.Fprintf(out, "Session:  %s\n", s.SessionID)
	fmt.Fprintf(out, "Started:  %s\n", s.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Source:   %s\n", s.Source)
	if s.DeviceName != nil {
		fmt.Fprintf(out, "Device:   %s\n", *s.DeviceName)
	}
	fmt.Fprintf(out, "Duration: %s\n", sessionDuration(*s))
	fmt.Fprintf(out, "Result:   %s\n", sessionResult(*s))
	if s.ScrambleText != nil {
		fmt.Fprintf(out, "Scramble: %s\n", *s.ScrambleText)
	}
	if s.ReplayPath != nil {
		fmt.Fprintf(out, "Replay:   %s\n", *s.ReplayPath)
	}

	var solving []grubix.Move
	for _, r := range records {
		if r.Source != string(grubix.SourceScramble) {
			solving = append(solving, r.Move())
		}
	}
	fmt.Fprintf(out, "Moves:    %d\n", len(solving))
	if len(solving) > 0 {
		fmt.Fprintf(out, "\n%s\n", grubix.FormatMoves(solving))
		if d := solving[len(solving)-1].Timestamp - solving[0].Timestamp; d > 0 && len(solving) > 1 {
			fmt.Fprintf(out, "\nTPS: %.2f\n", float64(len(solving)-1)/(float64(d)/1000))
		}
	}
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	return withDB(func(db *storage.DB) error {
		repo := storage.NewSessionRepository(db)
		s, err := findSession(repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Delete(s.SessionID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", s.SessionID)
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	fmt.Fprintln(out, "grubix status")
	fmt.Fprintln(out, "=============")
	fmt.Fprintln(out)

	path, err := getDBPath(stateFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Database: %s\n", path)

	if db, err := storage.Open(path); err == nil {
		version, _ := db.CurrentVersion()
		fmt.Fprintf(out, "Schema:   v%d\n", version)
		if list, err := storage.NewSessionRepository(db).List(1); err == nil && len(list) > 0 {
			fmt.Fprintf(out, "Last session: %s (%s)\n", list[0].StartedAt.Local().Format(time.RFC3339), sessionResult(list[0]))
		}
		db.Close()
	}

	if stateFile.HasActiveSession() {
		fmt.Fprintf(out, "Open session: %s (play --resume to continue)\n", stateFile.ActiveSessionID())
	}
	if name := stateFile.State().LastDeviceName; name != "" {
		fmt.Fprintf(out, "Last cube: %s (%s)\n", name, stateFile.LastDeviceID())
	}
	cam := stateFile.Camera()
	fmt.Fprintf(out, "Camera: elevation %.1f, angle %.1f, radius %.1f\n", cam.Elevation, cam.Angle, cam.Radius)
	return nil
}
