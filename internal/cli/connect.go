package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/smartcube"
)

var (
	connectAddress string
	connectSpeed   float64
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Mirror a GoCube smart cube in the terminal",
	Long: `Connect to a GoCube over Bluetooth and mirror every physical turn on the
screen cube. Mouse and keyboard moves still work; they only change the screen
cube.

The last connected cube is preferred when several are in range. Use --address
to pick one explicitly.`,
	Annotations: tuiCommand,
	RunE:        runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	addHostFlags(connectCmd)
	connectCmd.Flags().StringVar(&connectAddress, "address", "", "Bluetooth address of the cube")
	connectCmd.Flags().Float64Var(&connectSpeed, "speed", smartcube.DefaultSpeed, "Animation speed of physical turns in degrees per step")
}

func runConnect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	client, err := connectGoCube(out, stateFile)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	engine, err := newEngine()
	if err != nil {
		return err
	}

	rec, err := startRecording(engine, stateFile, recordingOptions{
		sessions:   !playNoRecord,
		replays:    !playNoReplay,
		resume:     playResume,
		deviceName: client.DeviceName(),
	})
	if err != nil {
		return err
	}
	defer rec.Close()

	log := logEntry("smartcube")
	bridge := smartcube.NewBridge(engine, log)
	bridge.SetSpeed(connectSpeed)
	bridge.Attach(client)
	client.OnError(func(err error) {
		log.WithError(err).Debug("bad frame")
	})

	// Turns made while a screen drag holds a face are retried here.
	flushCtx, stopFlush := context.WithCancel(context.Background())
	defer stopFlush()
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-flushCtx.Done():
				return
			case <-ticker.C:
				if err := bridge.Flush(); err != nil {
					log.WithError(err).Warn("failed to apply turns")
				}
			}
		}
	}()

	var (
		mu     sync.Mutex
		facing smartcube.Orientation
	)
	bridge.OnOrientation(func(o smartcube.Orientation) {
		mu.Lock()
		facing = o
		mu.Unlock()
	})

	for _, c := range []byte{smartcube.CmdRequestBattery, smartcube.CmdEnableOrientation} {
		if err := client.Send(c); err != nil {
			log.WithError(err).Warn("command failed")
		}
	}

	status := func() string {
		if !client.IsConnected() {
			return "disconnected"
		}
		s := client.DeviceName()
		if b := bridge.Battery(); b >= 0 {
			s += fmt.Sprintf(" %d%%", b)
		}
		mu.Lock()
		o := facing
		mu.Unlock()
		if o.Up != "" {
			s += fmt.Sprintf(" up=%s front=%s", o.Up, o.Front)
		}
		return s + fmt.Sprintf(" | %d turns", bridge.Moves())
	}

	return runHost(engine, stateFile, rec, "grubix - GoCube", status)
}

// connectGoCube connects to the requested cube, the last used one, or the
// first one found.
func connectGoCube(out io.Writer, stateFile *recorder.StateFile) (*smartcube.Client, error) {
	if connectAddress != "" {
		client, err := smartcube.NewClient()
		if err != nil {
			return nil, fmt.Errorf("BLE not available: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*scanTimeout)
		defer cancel()
		if err := client.ConnectAddress(ctx, connectAddress); err != nil {
			return nil, fmt.Errorf("connection failed: %w", err)
		}
		rememberDevice(stateFile, client)
		return client, nil
	}

	client, devices, err := scanForGoCube(out, 3)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no GoCube found")
	}

	target := devices[0]
	if last := stateFile.LastDeviceID(); last != "" {
		for _, d := range devices {
			if d.Address == last {
				target = d
				break
			}
		}
	}
	fmt.Fprintf(out, "Connecting to %s...\n", target.Name)
	if err := client.Connect(target); err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	// Give the cube a moment before the first command.
	time.Sleep(300 * time.Millisecond)
	rememberDevice(stateFile, client)
	return client, nil
}

func rememberDevice(stateFile *recorder.StateFile, client *smartcube.Client) {
	if err := stateFile.SetLastDevice(client.DeviceAddress(), client.DeviceName()); err != nil {
		logEntry("cli").WithError(err).Warn("failed to save device")
	}
}
