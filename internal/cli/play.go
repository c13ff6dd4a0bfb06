package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/tui"
)

var (
	playNoRecord bool
	playNoReplay bool
	playResume   bool
	playSeed     uint64
	playSpeed    float64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play with the cube in the terminal",
	Long: `Open the cube in the terminal. Drag a sticker with the mouse to turn a
layer, drag outside the cube to orbit the camera.

Keyboard shortcuts:
  u d l r f b m e s  - Turn a layer clockwise (shift for counter-clockwise)
  1                  - Scramble
  2                  - Solve
  0                  - Reset
  arrows             - Orbit the camera
  + / -              - Zoom
  q/Esc              - Quit

Every committed move is recorded to the session database and the session is
saved as a replay bundle under ~/.grubix/replays.`,
	Annotations: tuiCommand,
	RunE:        runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addHostFlags(playCmd)
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "Scramble seed (default: random)")
	playCmd.Flags().Float64Var(&playSpeed, "key-speed", tui.DefaultOptions().KeySpeed, "Keyboard move speed in degrees per step")
}

// addHostFlags registers the recording flags shared by interactive commands.
func addHostFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&playNoRecord, "no-record", false, "Do not record sessions to the database")
	cmd.Flags().BoolVar(&playNoReplay, "no-replay", false, "Do not save a replay bundle")
	cmd.Flags().BoolVar(&playResume, "resume", false, "Resume the session left open by the last run")
}

func runPlay(cmd *cobra.Command, args []string) error {
	var opts []grubix.Option
	if playSeed != 0 {
		opts = append(opts, grubix.WithSeed(playSeed))
	}
	engine, err := newEngine(opts...)
	if err != nil {
		return err
	}

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	rec, err := startRecording(engine, stateFile, recordingOptions{
		sessions: !playNoRecord,
		replays:  !playNoReplay,
		resume:   playResume,
	})
	if err != nil {
		return err
	}
	defer rec.Close()

	if err := runHost(engine, stateFile, rec, "grubix", nil); err != nil {
		return err
	}
	if rec.writer != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Replay saved to: %s\n", rec.writer.Directory())
	}
	return nil
}

// runHost runs the terminal host until the user quits.
func runHost(engine *grubix.Engine, stateFile *recorder.StateFile, rec *recording, title string, status func() string) error {
	opts := tui.DefaultOptions()
	opts.Title = title
	opts.KeySpeed = playSpeed
	opts.Status = status
	opts.Log = logEntry("tui")
	opts.OnReset = rec.Reset
	opts.OnQuit = func(cam *camera.Camera) {
		if err := stateFile.SetCamera(cam); err != nil {
			logEntry("cli").WithError(err).Warn("failed to save camera")
		}
	}
	return tui.Run(tui.New(engine, stateFile.Camera(), opts))
}
