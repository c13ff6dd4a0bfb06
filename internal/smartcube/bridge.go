package smartcube

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix"
)

// DefaultSpeed animates physical turns quickly so the screen keeps up.
const DefaultSpeed = 15.0

// MoveSink receives decoded moves.
type MoveSink interface {
	Enqueue(moves []grubix.Move, anglePerStep float64, src grubix.Source) error
}

// FrameSource delivers frames, usually a *Client.
type FrameSource interface {
	OnFrame(cb func(Frame))
}

// Bridge replays a physical cube's turns on the engine.
type Bridge struct {
	sink  MoveSink
	log   *logrus.Entry
	speed float64
	start time.Time
	now   func() time.Time

	mu          sync.Mutex
	battery     int
	orientation Orientation
	moves       int
	backlog     []grubix.Move // turns the sink refused while a face was held

	onOrientation func(Orientation)
	onBattery     func(int)
}

// NewBridge creates a bridge feeding sink. log may be nil.
func NewBridge(sink MoveSink, log *logrus.Entry) *Bridge {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	b := &Bridge{
		sink:    sink,
		log:     log.WithField("component", "smartcube"),
		speed:   DefaultSpeed,
		now:     time.Now,
		battery: -1,
	}
	b.start = b.now()
	return b
}

// SetSpeed sets the animation speed of physical turns in degrees per step.
func (b *Bridge) SetSpeed(deg float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.speed = deg
}

// Attach subscribes the bridge to src.
func (b *Bridge) Attach(src FrameSource) {
	src.OnFrame(func(f Frame) {
		if err := b.HandleFrame(f); err != nil {
			b.log.WithError(err).WithField("type", f.TypeName()).Warn("failed to handle frame")
		}
	})
}

// OnOrientation registers a callback for pose changes.
func (b *Bridge) OnOrientation(cb func(Orientation)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onOrientation = cb
}

// OnBattery registers a callback for battery reports.
func (b *Bridge) OnBattery(cb func(int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onBattery = cb
}

// Battery returns the last reported level, or -1.
func (b *Bridge) Battery() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.battery
}

// Orientation returns the last reported pose.
func (b *Bridge) Orientation() Orientation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orientation
}

// Moves returns how many moves have been forwarded.
func (b *Bridge) Moves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moves
}

// Flush hands buffered turns to the sink. While the sink reports
// ErrTransitionInProgress, because a face is held mid-drag, the turns stay
// buffered for a later call.
func (b *Bridge) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.backlog) == 0 {
		return nil
	}
	err := b.sink.Enqueue(b.backlog, b.speed, grubix.SourceSmartCube)
	if errors.Is(err, grubix.ErrTransitionInProgress) {
		b.log.WithField("pending", len(b.backlog)).Debug("turns deferred")
		return nil
	}
	b.backlog = nil
	return err
}

// Pending returns how many turns wait for the sink.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.backlog)
}

// HandleFrame processes one frame from the cube.
func (b *Bridge) HandleFrame(f Frame) error {
	switch f.Type {
	case TypeRotation:
		moves, err := DecodeRotations(f.Payload, b.now().Sub(b.start).Milliseconds())
		if err != nil {
			return err
		}
		if len(moves) == 0 {
			return nil
		}
		b.mu.Lock()
		b.moves += len(moves)
		b.backlog = append(b.backlog, moves...)
		b.mu.Unlock()

		b.log.WithField("moves", grubix.FormatMoves(moves)).Debug("cube turned")
		return b.Flush()

	case TypeBattery:
		level, err := DecodeBattery(f.Payload)
		if err != nil {
			return err
		}
		b.mu.Lock()
		b.battery = level
		cb := b.onBattery
		b.mu.Unlock()
		if cb != nil {
			cb(level)
		}

	case TypeOrientation:
		o, err := DecodeOrientation(f.Payload)
		if err != nil {
			return err
		}
		b.mu.Lock()
		changed := o != b.orientation
		b.orientation = o
		cb := b.onOrientation
		b.mu.Unlock()
		if changed && cb != nil {
			cb(o)
		}
	}
	return nil
}
