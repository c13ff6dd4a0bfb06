package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	l, err := New(Options{Level: "debug", Dir: dir, Now: func() time.Time { return day }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := filepath.Join(dir, "grubix_20260714.jsonl")
	if l.Path() != want {
		t.Errorf("Path() = %s, want %s", l.Path(), want)
	}

	l.WithField("face", "R").Debug("turned")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %s", data)
	}
	if entry["msg"] != "turned" || entry["face"] != "R" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
}

func TestConsoleMirror(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{File: "-", Console: &buf, Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("console output = %q", out)
	}
	if l.Path() != "" {
		t.Errorf("Path() = %q with the file sink disabled", l.Path())
	}
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}

func TestBadLevel(t *testing.T) {
	if _, err := New(Options{File: "-", Level: "chatty"}); err == nil {
		t.Error("New accepted level chatty")
	}
}
