package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/replay"
	"github.com/bebora/grubix/internal/tui"
)

var replayCmd = &cobra.Command{
	Use:   "replay [bundle]",
	Short: "Inspect or play back a replay bundle",
	Long: `Inspect a replay bundle saved by play or connect.

If no bundle is given, lists the bundles under ~/.grubix/replays.

Usage:
  grubix replay                       # List bundles
  grubix replay <bundle>              # Summary
  grubix replay <bundle> --verify     # Check moves against recorded frames
  grubix replay <bundle> --play       # Play back in the terminal
  grubix replay <bundle> --play -s 2  # Play back at 2x speed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replaySpeed  float64
	replayPlay   bool
	replayVerify bool
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPlay, "play", false, "Play back in the terminal")
	replayCmd.Flags().BoolVar(&replayVerify, "verify", false, "Check the moves reproduce the recorded frames")
}

func runReplay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	root, err := defaultReplayRoot()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return listBundles(out, root)
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	bundle, err := replay.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load replay: %w", err)
	}

	moves, err := bundle.Moves()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Replay:   %s\n", bundle.Dir)
	fmt.Fprintf(out, "Created:  %s\n", bundle.Manifest.CreatedAt)
	if bundle.Manifest.SessionID != "" {
		fmt.Fprintf(out, "Session:  %s\n", bundle.Manifest.SessionID)
	}
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(time.Duration(bundle.Duration())*time.Millisecond))
	fmt.Fprintf(out, "Events:   %d\n", len(bundle.Events))
	fmt.Fprintf(out, "Frames:   %d\n", len(bundle.Frames))
	fmt.Fprintf(out, "Moves:    %d\n", len(moves))
	fmt.Fprintf(out, "Solved:   %v\n", bundle.Solved())

	if replayVerify {
		if err := verifyBundle(bundle); err != nil {
			return err
		}
		fmt.Fprintln(out, "Verified: moves reproduce the final frame")
	}
	if replayPlay {
		return playBundle(bundle)
	}
	return nil
}

func listBundles(out io.Writer, root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "No replays found. Play a session first with: grubix play")
			return nil
		}
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No replays found. Play a session first with: grubix play")
		return nil
	}

	// Names end in a timestamp, so newest sort last within a session.
	sort.Strings(names)
	fmt.Fprintln(out, "Available replays:")
	fmt.Fprintln(out)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: grubix replay <name>")
	return nil
}

// verifyBundle replays the event log on a fresh engine and compares the
// resulting piece transforms with the last recorded frame.
func verifyBundle(b *replay.Bundle) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	for _, ev := range b.Events {
		switch ev.Type {
		case replay.EventReset:
			engine.Reset()
		case replay.EventCommit:
			m, err := grubix.ParseMove(ev.Move)
			if err != nil {
				return fmt.Errorf("event %d: %w", ev.Seq, err)
			}
			if err := engine.Apply(m); err != nil {
				return fmt.Errorf("event %d: %w", ev.Seq, err)
			}
		}
	}

	if len(b.Frames) == 0 {
		return nil
	}
	last := b.Frames[len(b.Frames)-1]
	got := engine.PieceTransforms()
	for i := range got {
		if !got[i].ApproxEqual(last.Transforms[i], 1e-3) {
			return fmt.Errorf("piece %d does not match the final frame", i)
		}
	}
	return nil
}

// playBundle animates the recorded events in the terminal, keeping their
// original spacing divided by the speed multiplier.
func playBundle(b *replay.Bundle) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("speed must be positive")
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		start := time.Now()
		for _, ev := range b.Events {
			at := start.Add(time.Duration(float64(ev.ElapsedMs)/replaySpeed) * time.Millisecond)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(at)):
			}
			switch ev.Type {
			case replay.EventReset:
				engine.Reset()
			case replay.EventCommit:
				m, err := grubix.ParseMove(ev.Move)
				if err != nil {
					continue
				}
				speed := grubix.DefaultReleaseSpeed * replaySpeed
				engine.Enqueue([]grubix.Move{m}, speed, grubix.Source(ev.Source))
			}
		}
	}()

	opts := tui.DefaultOptions()
	opts.Title = "grubix replay - " + filepath.Base(b.Dir)
	opts.Log = logEntry("tui")
	opts.Status = func() string {
		return fmt.Sprintf("replaying x%.1f", replaySpeed)
	}
	return tui.Run(tui.New(engine, camera.New(), opts))
}
