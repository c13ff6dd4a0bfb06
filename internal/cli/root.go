// Package cli implements the command-line interface for grubix.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/logging"
	"github.com/bebora/grubix/internal/recorder"
	"github.com/bebora/grubix/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath   string
	verbose  bool
	logLevel string
	logFile  string
	meshDir  string

	logger *logging.Logger
)

// tuiCommand marks commands that own the terminal, so logs stay off stderr.
var tuiCommand = map[string]string{"tui": "true"}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "grubix",
	Short: "Interactive 3x3 cube",
	Long: `grubix - A 3x3 twisty cube you can turn with the mouse, the keyboard,
a GoCube smart cube or a websocket client.

Play in the terminal, record sessions to a local database, save compressed
replays and stream the live cube state to external renderers.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.grubix/grubix.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path, - to disable (default: ~/.grubix/logs/grubix_<date>.jsonl)")
	rootCmd.PersistentFlags().StringVar(&meshDir, "mesh-dir", "", "Directory of piece<N>.obj meshes for piece bounds")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	opts := logging.Options{Level: logLevel, File: logFile}
	if verbose {
		if cmd.Annotations["tui"] == "" {
			opts.Console = cmd.ErrOrStderr()
		}
		if !cmd.Flags().Changed("log-level") {
			opts.Level = "debug"
		}
	}
	l, err := logging.New(opts)
	if err != nil {
		return err
	}
	logger = l
	logger.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"version": version,
	}).Debug("starting")
	return nil
}

func closeLogging(cmd *cobra.Command, args []string) error {
	if logger == nil {
		return nil
	}
	return logger.Close()
}

// baseLogger returns the application logger, or a silent one before setup.
func baseLogger() *logrus.Logger {
	if logger != nil {
		return logger.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func logEntry(component string) *logrus.Entry {
	return baseLogger().WithField("component", component)
}

// newEngine creates an engine wired to the application logger.
func newEngine(opts ...grubix.Option) (*grubix.Engine, error) {
	all := []grubix.Option{grubix.WithLogger(baseLogger())}
	if meshDir != "" {
		all = append(all, grubix.WithMeshDir(meshDir))
	}
	return grubix.New(append(all, opts...)...)
}

// getDBPath resolves the database path from the flag, then the state file,
// then the default location.
func getDBPath(stateFile *recorder.StateFile) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if stateFile != nil && stateFile.DBPath() != "" {
		return stateFile.DBPath(), nil
	}
	return storage.DefaultDBPath()
}

// openDB opens the database, remembering a non-default path in the state
// file.
func openDB(stateFile *recorder.StateFile) (*storage.DB, error) {
	path, err := getDBPath(stateFile)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if stateFile != nil && dbPath != "" && stateFile.DBPath() != dbPath {
		if err := stateFile.SetDBPath(dbPath); err != nil {
			logEntry("cli").WithError(err).Warn("failed to save database path")
		}
	}
	return db, nil
}
