package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/stream"
)

var (
	serveAddr     string
	serveInterval time.Duration
	serveRecord   bool
	serveReplay   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream the cube over websockets",
	Long: `Run a headless cube and stream its state to websocket clients at /ws.

Every client receives a snapshot (piece transforms, slot map, solved and busy
flags) whenever the cube changes, and may send commands:

  {"type":"move","id":"1","moves":"R U R' U'"}
  {"type":"scramble"}
  {"type":"solve"}
  {"type":"reset"}`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 16*time.Millisecond, "Animation and broadcast interval")
	serveCmd.Flags().BoolVar(&serveRecord, "record", false, "Record sessions to the database")
	serveCmd.Flags().BoolVar(&serveReplay, "replay", false, "Save a replay bundle")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logEntry("serve")
	engine, err := newEngine()
	if err != nil {
		return err
	}

	if serveRecord || serveReplay {
		stateFile, err := recorder.NewDefaultStateFile()
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		rec, err := startRecording(engine, stateFile, recordingOptions{
			sessions: serveRecord,
			replays:  serveReplay,
		})
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	hub := stream.NewHub(engine, logEntry("stream"))
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %d clients\n", hub.Clients())
	})
	srv := &http.Server{Addr: serveAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", serveAddr).Info("listening")
		errc <- srv.ListenAndServe()
	}()
	go hub.Run(ctx, serveInterval, func(dt time.Duration) {
		engine.Advance(dt)
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Streaming on ws://%s/ws (Ctrl+C to stop)\n", serveAddr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdown)
}
