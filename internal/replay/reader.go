package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/pkg/types"
)

// Frame is one decoded transform frame.
type Frame struct {
	Seq        uint64
	ElapsedMs  int64
	Transforms [puzzle.NumPieces]geom.Mat4
}

// Bundle is a fully loaded replay.
type Bundle struct {
	Dir      string
	Manifest Manifest
	Events   []Event
	Frames   []Frame
}

// Open loads a bundle from its directory or its manifest path.
func Open(path string) (*Bundle, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	manifestPath := path
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		manifestPath = filepath.Join(path, manifestName)
	}
	dir := filepath.Dir(manifestPath)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", manifest.Version)
	}

	events, err := loadEvents(filepath.Join(dir, manifest.EventsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	frames, err := loadFrames(filepath.Join(dir, manifest.FramesPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load frames: %w", err)
	}

	return &Bundle{Dir: dir, Manifest: manifest, Events: events, Frames: frames}, nil
}

// Moves returns the committed moves in order, timestamped with their
// elapsed time.
func (b *Bundle) Moves() ([]types.Move, error) {
	var moves []types.Move
	for _, ev := range b.Events {
		if ev.Type != EventCommit {
			continue
		}
		m, err := types.ParseMove(ev.Move)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		m.Timestamp = ev.ElapsedMs
		moves = append(moves, m)
	}
	return moves, nil
}

// Solved reports whether the session reached a solved state.
func (b *Bundle) Solved() bool {
	for _, ev := range b.Events {
		if ev.Type == EventSolved {
			return true
		}
	}
	return false
}

// Duration returns the elapsed time of the last event or frame in ms.
func (b *Bundle) Duration() int64 {
	var d int64
	if n := len(b.Events); n > 0 {
		d = b.Events[n-1].ElapsedMs
	}
	if n := len(b.Frames); n > 0 && b.Frames[n-1].ElapsedMs > d {
		d = b.Frames[n-1].ElapsedMs
	}
	return d
}

// FrameAt returns the last frame captured at or before elapsedMs.
func (b *Bundle) FrameAt(elapsedMs int64) (Frame, bool) {
	i := sort.Search(len(b.Frames), func(i int) bool {
		return b.Frames[i].ElapsedMs > elapsedMs
	})
	if i == 0 {
		return Frame{}, false
	}
	return b.Frames[i-1], true
}

func loadEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(snappy.NewReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var events []Event
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func loadFrames(path string) ([]Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := zstd.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var frames []Frame
	offset := 0
	for offset+frameHeaderSize <= len(payload) {
		var f Frame
		f.Seq = binary.LittleEndian.Uint64(payload[offset:])
		f.ElapsedMs = int64(binary.LittleEndian.Uint64(payload[offset+8:]))
		pieces := int(binary.LittleEndian.Uint32(payload[offset+16:]))
		offset += frameHeaderSize

		if pieces != puzzle.NumPieces {
			return nil, fmt.Errorf("frame %d has %d pieces", f.Seq, pieces)
		}
		size := pieces * matrixFloats * 4
		if offset+size > len(payload) {
			return nil, fmt.Errorf("frame payload truncated")
		}
		for p := range f.Transforms {
			for j := range f.Transforms[p] {
				bits := binary.LittleEndian.Uint32(payload[offset:])
				f.Transforms[p][j] = float64(math.Float32frombits(bits))
				offset += 4
			}
		}
		frames = append(frames, f)
	}
	if offset != len(payload) {
		return nil, fmt.Errorf("frame stream has %d trailing bytes", len(payload)-offset)
	}
	return frames, nil
}
