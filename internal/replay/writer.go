// Package replay writes and reads compressed recordings of a play session.
//
// A bundle is a directory holding manifest.json, a snappy-framed JSONL log of
// commit events (events.jsonl.sz) and a zstd stream of piece transform frames
// (frames.bin.zst).
package replay

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
)

const (
	ManifestVersion = 1

	// DefaultFrameInterval is the minimum spacing between captured frames.
	DefaultFrameInterval = 40 * time.Millisecond

	eventsName   = "events.jsonl.sz"
	framesName   = "frames.bin.zst"
	manifestName = "manifest.json"

	frameHeaderSize = 8 + 8 + 4
	matrixFloats    = 16
	flushEvery      = 32
)

var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Manifest describes the bundle layout.
type Manifest struct {
	Version         int    `json:"version"`
	CreatedAt       string `json:"created_at"`
	SessionID       string `json:"session_id,omitempty"`
	FrameIntervalMs int    `json:"frame_interval_ms"`
	Pieces          int    `json:"pieces"`
	EventsPath      string `json:"events_path"`
	FramesPath      string `json:"frames_path"`
}

// Event types.
const (
	EventCommit = "commit"
	EventSolved = "solved"
	EventReset  = "reset"
)

// Event is one line of the event log.
type Event struct {
	Seq       uint64 `json:"seq"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Type      string `json:"type"`
	Move      string `json:"move,omitempty"`
	Source    string `json:"source,omitempty"`
}

type frame struct {
	seq        uint64
	elapsedMs  int64
	transforms [puzzle.NumPieces]geom.Mat4
}

// Writer streams a session to a bundle directory.
type Writer struct {
	mu          sync.Mutex
	dir         string
	now         func() time.Time
	start       time.Time
	interval    time.Duration
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder

	eventSeq    uint64
	frameSeq    uint64
	lastFrame   time.Time
	lastVersion uint64
	pending     []frame
	closed      bool
}

// NewWriter creates a bundle directory under root and opens its streams.
func NewWriter(root, sessionID string, clock func() time.Time) (*Writer, Manifest, error) {
	if root == "" {
		return nil, Manifest{}, fmt.Errorf("replay root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	name := nameCleaner.ReplaceAllString(sessionID, "")
	if name == "" {
		name = "session"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", name, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to create replay directory: %w", err)
	}

	manifest := Manifest{
		Version:         ManifestVersion,
		CreatedAt:       created.Format(time.RFC3339Nano),
		SessionID:       sessionID,
		FrameIntervalMs: int(DefaultFrameInterval / time.Millisecond),
		Pieces:          puzzle.NumPieces,
		EventsPath:      eventsName,
		FramesPath:      framesName,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to write manifest: %w", err)
	}

	eventFile, err := os.Create(filepath.Join(dir, eventsName))
	if err != nil {
		return nil, Manifest{}, err
	}
	frameFile, err := os.Create(filepath.Join(dir, framesName))
	if err != nil {
		eventFile.Close()
		return nil, Manifest{}, err
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, Manifest{}, err
	}

	return &Writer{
		dir:         dir,
		now:         clock,
		start:       created,
		interval:    DefaultFrameInterval,
		eventFile:   eventFile,
		eventStream: snappy.NewBufferedWriter(eventFile),
		frameFile:   frameFile,
		frameStream: frameStream,
	}, manifest, nil
}

// Directory returns the bundle directory.
func (w *Writer) Directory() string {
	return w.dir
}

// Attach logs every commit of the engine.
func (w *Writer) Attach(e *grubix.Engine) {
	e.OnCommit(func(ev grubix.CommitEvent) {
		w.AppendCommit(ev)
	})
}

// AppendCommit logs a committed move, followed by a solved marker when the
// move solved the cube.
func (w *Writer) AppendCommit(ev grubix.CommitEvent) error {
	elapsed := ev.Time.Sub(w.start).Milliseconds()
	err := w.AppendEvent(Event{
		ElapsedMs: elapsed,
		Type:      EventCommit,
		Move:      ev.Move.Notation(),
		Source:    string(ev.Source),
	})
	if err != nil || !ev.Solved {
		return err
	}
	return w.AppendEvent(Event{ElapsedMs: elapsed, Type: EventSolved})
}

// AppendEvent writes one JSON line to the event log. Seq is assigned here.
func (w *Writer) AppendEvent(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return os.ErrClosed
	}

	ev.Seq = w.eventSeq
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.eventStream.Write(append(line, '\n')); err != nil {
		return err
	}
	w.eventSeq++
	return w.eventStream.Flush()
}

// Capture records the snapshot as a frame if it changed since the last
// captured frame and the frame interval has passed. It reports whether the
// frame was kept.
func (w *Writer) Capture(snap grubix.Snapshot) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.captureLocked(snap, false)
}

// Finish captures snap regardless of the frame interval, so the bundle ends
// on the final state, and closes the writer.
func (w *Writer) Finish(snap grubix.Snapshot) error {
	w.mu.Lock()
	_, err := w.captureLocked(snap, true)
	w.mu.Unlock()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

func (w *Writer) captureLocked(snap grubix.Snapshot, force bool) (bool, error) {
	if w.closed {
		return false, os.ErrClosed
	}
	now := w.now()
	if w.frameSeq > 0 && (snap.Version == w.lastVersion || (!force && now.Sub(w.lastFrame) < w.interval)) {
		return false, nil
	}

	w.pending = append(w.pending, frame{
		seq:        w.frameSeq,
		elapsedMs:  now.Sub(w.start).Milliseconds(),
		transforms: snap.Transforms,
	})
	w.frameSeq++
	w.lastFrame = now
	w.lastVersion = snap.Version

	if len(w.pending) >= flushEvery {
		return true, w.flushLocked()
	}
	return true, nil
}

// Close flushes pending frames and closes every stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(w.flushLocked())
	keep(w.eventStream.Close())
	keep(w.eventFile.Close())
	keep(w.frameStream.Close())
	keep(w.frameFile.Close())
	return firstErr
}

// flushLocked writes buffered frames; callers must hold the mutex.
func (w *Writer) flushLocked() error {
	buf := make([]byte, frameHeaderSize+puzzle.NumPieces*matrixFloats*4)
	for _, f := range w.pending {
		binary.LittleEndian.PutUint64(buf[0:8], f.seq)
		binary.LittleEndian.PutUint64(buf[8:16], uint64(f.elapsedMs))
		binary.LittleEndian.PutUint32(buf[16:20], puzzle.NumPieces)
		off := frameHeaderSize
		for _, m := range f.transforms {
			for _, v := range m {
				binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
				off += 4
			}
		}
		if _, err := w.frameStream.Write(buf); err != nil {
			return err
		}
	}
	w.pending = w.pending[:0]
	return nil
}
