package smartcube

import (
	"errors"
	"testing"

	"github.com/bebora/grubix"
	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/pkg/types"
)

func TestFrameRoundTrip(t *testing.T) {
	raw := EncodeFrame(TypeRotation, []byte{0x04, 0x00, 0x05, 0x03})
	if raw[1] != 8 {
		t.Errorf("length byte = %d, want 8", raw[1])
	}
	f, err := ParseFrame(raw)
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if f.Type != TypeRotation || len(f.Payload) != 4 || f.Payload[2] != 0x05 {
		t.Errorf("frame = %+v", f)
	}
	if f.TypeName() != "rotation" {
		t.Errorf("TypeName() = %q", f.TypeName())
	}

	// trailing garbage after a valid frame is ignored
	if _, err := ParseFrame(append(raw, 0xFF, 0xFF)); err != nil {
		t.Errorf("ParseFrame with trailing bytes: %v", err)
	}
}

func TestParseFrameErrors(t *testing.T) {
	good := EncodeFrame(TypeBattery, []byte{80})

	badPrefix := append([]byte(nil), good...)
	badPrefix[0] = '#'

	badSum := append([]byte(nil), good...)
	badSum[len(badSum)-3]++

	badSuffix := append([]byte(nil), good...)
	badSuffix[len(badSuffix)-1] = 0

	badLen := append([]byte(nil), good...)
	badLen[1] = 40

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{'*', 1, 2}, ErrShortFrame},
		{"prefix", badPrefix, ErrBadPrefix},
		{"checksum", badSum, ErrChecksum},
		{"suffix", badSuffix, ErrBadSuffix},
		{"length", badLen, ErrBadLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("ParseFrame error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	got := EncodeCommand(CmdRequestBattery)
	want := []byte{0x2A, 0x01, 0x32, 0x5D, 0x0D, 0x0A}
	if string(got) != string(want) {
		t.Errorf("EncodeCommand = % X, want % X", got, want)
	}
}

func TestDecodeRotations(t *testing.T) {
	tests := []struct {
		payload []byte
		want    string
	}{
		{[]byte{0x08, 0x00}, "R"},
		{[]byte{0x09, 0x00}, "R'"},
		{[]byte{0x04, 0x00}, "U"},
		{[]byte{0x07, 0x00}, "D'"},
		{[]byte{0x02, 0x00}, "F"},
		{[]byte{0x01, 0x00}, "B'"},
		{[]byte{0x0A, 0x00}, "L"},
		{[]byte{0x08, 0x00, 0x08, 0x03}, "R2"},
		{[]byte{0x08, 0x00, 0x09, 0x00}, ""},
		{[]byte{0x04, 0x00, 0x0B, 0x00}, "U L'"},
	}
	for _, tt := range tests {
		moves, err := DecodeRotations(tt.payload, 0)
		if err != nil {
			t.Errorf("DecodeRotations(% X): %v", tt.payload, err)
			continue
		}
		if got := types.FormatMoves(moves); got != tt.want {
			t.Errorf("DecodeRotations(% X) = %q, want %q", tt.payload, got, tt.want)
		}
	}

	if _, err := DecodeRotations([]byte{0x08}, 0); err == nil {
		t.Error("odd payload accepted")
	}
	if _, err := DecodeRotations([]byte{0x0C, 0x00}, 0); err == nil {
		t.Error("face code 0x0C accepted")
	}
}

func TestDecodeOrientation(t *testing.T) {
	tests := []struct {
		payload string
		up      types.Face
		front   types.Face
	}{
		{"0#0#0#1", types.FaceU, types.FaceF},
		{"0#0#1#0", types.FaceD, types.FaceF},       // 180 about z
		{"0#1000#0#1000", types.FaceU, types.FaceR}, // 90 about y, unnormalized
	}
	for _, tt := range tests {
		o, err := DecodeOrientation([]byte(tt.payload))
		if err != nil {
			t.Errorf("DecodeOrientation(%q): %v", tt.payload, err)
			continue
		}
		if o.Up != tt.up || o.Front != tt.front {
			t.Errorf("DecodeOrientation(%q) = %+v, want up %s front %s", tt.payload, o, tt.up, tt.front)
		}
	}
	if _, err := DecodeOrientation([]byte("1#2#3")); err == nil {
		t.Error("three components accepted")
	}
}

type sinkCall struct {
	moves []grubix.Move
	speed float64
	src   grubix.Source
}

type fakeSink struct {
	calls []sinkCall
}

func (s *fakeSink) Enqueue(moves []grubix.Move, speed float64, src grubix.Source) error {
	s.calls = append(s.calls, sinkCall{moves, speed, src})
	return nil
}

type fakeSource struct {
	cb func(Frame)
}

func (s *fakeSource) OnFrame(cb func(Frame)) { s.cb = cb }

func TestBridge(t *testing.T) {
	sink := &fakeSink{}
	src := &fakeSource{}
	b := NewBridge(sink, nil)
	b.Attach(src)

	var levels []int
	b.OnBattery(func(l int) { levels = append(levels, l) })
	var poses []Orientation
	b.OnOrientation(func(o Orientation) { poses = append(poses, o) })

	src.cb(Frame{Type: TypeRotation, Payload: []byte{0x08, 0x00, 0x05, 0x00}})
	src.cb(Frame{Type: TypeBattery, Payload: []byte{73}})
	src.cb(Frame{Type: TypeOrientation, Payload: []byte("0#0#0#1")})
	src.cb(Frame{Type: TypeOrientation, Payload: []byte("0#0#0#1")})
	src.cb(Frame{Type: TypeState, Payload: []byte{1, 2, 3}})

	if len(sink.calls) != 1 {
		t.Fatalf("sink calls = %d", len(sink.calls))
	}
	c := sink.calls[0]
	if types.FormatMoves(c.moves) != "R U'" || c.src != grubix.SourceSmartCube || c.speed != DefaultSpeed {
		t.Errorf("sink call = %+v", c)
	}
	if b.Moves() != 2 {
		t.Errorf("Moves() = %d", b.Moves())
	}
	if b.Battery() != 73 || len(levels) != 1 {
		t.Errorf("battery = %d, callbacks %v", b.Battery(), levels)
	}
	if len(poses) != 1 || b.Orientation().Up != types.FaceU {
		t.Errorf("orientation callbacks = %v", poses)
	}
}

func TestBridgeDrivesEngine(t *testing.T) {
	e, err := grubix.New(grubix.WithBounds(homeBounds{}))
	if err != nil {
		t.Fatal(err)
	}
	b := NewBridge(e, nil)
	b.SetSpeed(45)

	var sources []grubix.Source
	e.OnCommit(func(ev grubix.CommitEvent) { sources = append(sources, ev.Source) })

	if err := b.HandleFrame(Frame{Type: TypeRotation, Payload: []byte{0x08, 0x00}}); err != nil {
		t.Fatal(err)
	}
	if err := b.HandleFrame(Frame{Type: TypeRotation, Payload: []byte{0x09, 0x00}}); err != nil {
		t.Fatal(err)
	}
	e.Settle()

	if len(sources) != 2 || sources[0] != grubix.SourceSmartCube {
		t.Errorf("commit sources = %v", sources)
	}
	if !e.IsSolved() {
		t.Error("R then R' left the cube unsolved")
	}
}

type homeBounds struct{}

func (homeBounds) PieceBounds() ([puzzle.NumPieces]puzzle.Box, error) {
	return puzzle.DefaultBounds(), nil
}

func TestSendRequiresConnection(t *testing.T) {
	var c Client
	if err := c.Send(CmdRequestBattery); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send on idle client = %v, want ErrNotConnected", err)
	}
	if c.IsConnected() {
		t.Error("idle client reports connected")
	}
}

type heldSink struct {
	fakeSink
	held bool
}

func (s *heldSink) Enqueue(moves []grubix.Move, speed float64, src grubix.Source) error {
	if s.held {
		return grubix.ErrTransitionInProgress
	}
	return s.fakeSink.Enqueue(moves, speed, src)
}

func TestBridgeDefersTurnsWhileHeld(t *testing.T) {
	sink := &heldSink{held: true}
	b := NewBridge(sink, nil)

	if err := b.HandleFrame(Frame{Type: TypeRotation, Payload: []byte{0x08, 0x00}}); err != nil {
		t.Fatalf("held sink surfaced an error: %v", err)
	}
	if err := b.HandleFrame(Frame{Type: TypeRotation, Payload: []byte{0x00, 0x00}}); err != nil {
		t.Fatal(err)
	}
	if b.Pending() != 2 || len(sink.calls) != 0 {
		t.Fatalf("pending = %d, calls = %d", b.Pending(), len(sink.calls))
	}

	sink.held = false
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	if b.Pending() != 0 || len(sink.calls) != 1 {
		t.Fatalf("pending = %d, calls = %d after flush", b.Pending(), len(sink.calls))
	}
	if got := types.FormatMoves(sink.calls[0].moves); got != "R B" {
		t.Errorf("flushed %q, want turns in arrival order", got)
	}
}

func TestBridgeWaitsForDrag(t *testing.T) {
	e, err := grubix.New(grubix.WithBounds(homeBounds{}))
	if err != nil {
		t.Fatal(err)
	}
	b := NewBridge(e, nil)

	e.TurnFaceABit(grubix.FaceL, 20)
	if err := b.HandleFrame(Frame{Type: TypeRotation, Payload: []byte{0x08, 0x00}}); err != nil {
		t.Fatal(err)
	}
	e.Settle()
	if len(e.History()) != 0 || b.Pending() != 1 {
		t.Fatalf("turn applied during a drag: history %v, pending %d", e.History(), b.Pending())
	}

	e.Release(grubix.FaceL, 0)
	e.Settle()
	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	e.Settle()
	if got := grubix.FormatMoves(e.History()); got != "R" {
		t.Errorf("history = %q, want R", got)
	}
}
