// Package logging builds the application logger: JSON lines to a file under
// ~/.grubix/logs, optionally mirrored as text to a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name; empty means info.
	Level string
	// File overrides the log file path. "-" disables the file sink.
	File string
	// Dir holds dated log files when File is empty.
	Dir string
	// Console mirrors entries as text to this writer when not nil.
	Console io.Writer
	// Now names the dated file; defaults to time.Now.
	Now func() time.Time
}

// DefaultDir returns ~/.grubix/logs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".grubix", "logs"), nil
}

// Logger is a logrus logger bound to its file.
type Logger struct {
	*logrus.Logger
	path string
	file *os.File
}

// Path returns the file entries are written to, or "" when there is none.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.SetOutput(io.Discard)
	return err
}

// New creates a logger from opts.
func New(opts Options) (*Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		lv, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lv
	}

	base := logrus.New()
	base.SetLevel(level)
	base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	base.SetOutput(io.Discard)
	l := &Logger{Logger: base}

	if opts.File != "-" {
		path, err := resolvePath(opts)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		base.SetOutput(f)
		l.path = path
		l.file = f
	}

	if opts.Console != nil {
		base.AddHook(&consoleHook{
			w:         opts.Console,
			formatter: &logrus.TextFormatter{DisableTimestamp: true},
		})
	}
	return l, nil
}

func resolvePath(opts Options) (string, error) {
	if opts.File != "" {
		return opts.File, nil
	}
	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return filepath.Join(dir, fmt.Sprintf("grubix_%s.jsonl", now().Format("20060102"))), nil
}

// consoleHook writes every entry to w with its own formatter.
type consoleHook struct {
	w         io.Writer
	formatter logrus.Formatter
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}
