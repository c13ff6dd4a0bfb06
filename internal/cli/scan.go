package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix/internal/smartcube"
)

const scanTimeout = 5 * time.Second

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List GoCube smart cubes in range",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// scanForGoCube scans for smart cubes, retrying up to maxAttempts times.
func scanForGoCube(out io.Writer, maxAttempts int) (*smartcube.Client, []smartcube.Device, error) {
	fmt.Fprintln(out, "Scanning for GoCube devices...")

	client, err := smartcube.NewClient()
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
		devices, err := client.Scan(ctx, scanTimeout)
		cancel()

		if err != nil {
			fmt.Fprintf(out, "Scan %d failed: %v\n", attempt, err)
			continue
		}
		if len(devices) > 0 {
			return client, devices, nil
		}
		if attempt < maxAttempts {
			fmt.Fprintf(out, "Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	return client, nil, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	_, devices, err := scanForGoCube(out, 1)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices found")
		return nil
	}
	for _, d := range devices {
		fmt.Fprintf(out, "%-20s %s  RSSI %d\n", d.Name, d.Address, d.RSSI)
	}
	return nil
}
