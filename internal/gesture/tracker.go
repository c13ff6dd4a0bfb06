// Package gesture turns pointer drags on the cube into face rotations.
//
// A drag that starts on a facelet accumulates movement along the screen
// projections of the facelet's two candidate directions until one of them
// crosses a threshold. That face is then locked and follows the pointer until
// release, when the engine snaps it to a quarter turn, overshooting to the
// next one if the pointer was still moving fast. A drag that starts off the
// cube orbits the camera instead.
package gesture

import (
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix/internal/camera"
	"github.com/bebora/grubix/internal/geom"
	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/pkg/types"
)

// Config tunes the drag behavior.
type Config struct {
	// Sensitivity converts pixels along a direction to degrees.
	Sensitivity float64
	// LockFactor times Sensitivity is the accumulated angle needed to lock.
	LockFactor float64
	// InertiaThreshold is the release speed in pixels per millisecond above
	// which the face overshoots to the next quarter turn.
	InertiaThreshold float64

	QueueSize      int
	SampleInterval time.Duration
	SampleMaxAge   time.Duration
}

// DefaultConfig returns the settings for a pixel-accurate pointer.
func DefaultConfig() Config {
	return Config{
		Sensitivity:      0.25,
		LockFactor:       7,
		InertiaThreshold: 0.8,
		QueueSize:        50,
		SampleInterval:   100 * time.Millisecond,
		SampleMaxAge:     200 * time.Millisecond,
	}
}

// Threshold returns the lock threshold in degrees.
func (c Config) Threshold() float64 {
	return c.LockFactor * c.Sensitivity
}

// Target is the engine surface a drag acts on.
type Target interface {
	TransitionInProgress() bool
	IntersectFacelets(origin, dir geom.Vec3) (*puzzle.Facelet, geom.Vec3, bool)
	TurnFaceABit(face types.Face, angle float64) error
	Release(face types.Face, inertia int) error
}

// Orbiter receives drags that did not start on the cube.
type Orbiter interface {
	Orbit(dx, dy float64)
}

// Mode is the drag state.
type Mode int

const (
	ModeIdle   Mode = iota
	ModeOrbit       // dragging the camera
	ModeArmed       // pressed on a facelet, no face chosen yet
	ModeLocked      // a face follows the pointer
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeOrbit:
		return "orbit"
	case ModeArmed:
		return "armed"
	case ModeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Release describes how a drag ended.
type Release struct {
	Face      types.Face
	Inertia   int
	Committed bool
	Speed     float64 // pixels per millisecond, 0 when unknown
}

// Tracker is the per-pointer drag state machine. It is not safe for
// concurrent use; feed it from the input goroutine.
type Tracker struct {
	cfg    Config
	target Target
	orbit  Orbiter
	log    *logrus.Entry

	mode    Mode
	last    geom.Vec2
	vp      camera.Viewport
	start   geom.Vec3
	facelet *puzzle.Facelet
	acc     [2]float64

	lockedFace types.Face
	lockedDir  geom.Vec2

	samples *SampleQueue
}

// NewTracker creates a tracker. orbit may be nil.
func NewTracker(target Target, orbit Orbiter, cfg Config, log *logrus.Entry) *Tracker {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Tracker{
		cfg:     cfg,
		target:  target,
		orbit:   orbit,
		log:     log.WithField("component", "gesture"),
		samples: NewSampleQueue(cfg.QueueSize, cfg.SampleInterval, cfg.SampleMaxAge),
	}
}

// Mode returns the current drag state.
func (t *Tracker) Mode() Mode {
	return t.mode
}

// LockedFace returns the face following the pointer, if any.
func (t *Tracker) LockedFace() (types.Face, bool) {
	return t.lockedFace, t.mode == ModeLocked
}

// Down starts a drag at pixel pos. vp is kept for the rest of the drag.
func (t *Tracker) Down(vp camera.Viewport, pos geom.Vec2, now time.Time) {
	t.reset()
	t.vp = vp
	t.last = pos

	fl, hit, ok := t.target.IntersectFacelets(vp.Eye, vp.Ray(pos))
	if ok && !t.target.TransitionInProgress() {
		t.mode = ModeArmed
		t.facelet = fl
		t.start = hit
		t.log.WithFields(logrus.Fields{
			"face": fl.Face.Name,
			"slot": fl.Slot.ID,
		}).Debug("drag armed")
		return
	}
	t.mode = ModeOrbit
}

// Move feeds a pointer movement to the drag.
func (t *Tracker) Move(pos geom.Vec2, now time.Time) {
	if t.mode == ModeIdle {
		return
	}
	delta := pos.Sub(t.last)
	t.last = pos

	switch t.mode {
	case ModeOrbit:
		if t.orbit != nil {
			t.orbit.Orbit(delta.X, delta.Y)
		}
	case ModeArmed:
		t.samples.Push(Sample{Pos: pos, Time: now})
		t.tryLock(delta)
	case ModeLocked:
		t.samples.Push(Sample{Pos: pos, Time: now})
		if err := t.target.TurnFaceABit(t.lockedFace, t.cfg.Sensitivity*delta.Dot(t.lockedDir)); err != nil {
			t.log.WithError(err).WithField("face", t.lockedFace).Debug("drag turn failed")
		}
	}
}

// minScreenDir is the projected length, in pixels, below which a drag
// direction counts as zero.
const minScreenDir = 1e-6

func (t *Tracker) tryLock(delta geom.Vec2) {
	var (
		dirs [2]geom.Vec2
		sp   [2]float64
	)
	for i := 0; i < 2 && i < len(t.facelet.Directions); i++ {
		d := t.vp.ProjectDir(t.start, t.facelet.Directions[i].Dir)
		if d.Len() < minScreenDir {
			// Seen end-on: this face can never lock.
			continue
		}
		dirs[i] = d.Normalize()
		sp[i] = t.cfg.Sensitivity * delta.Dot(dirs[i])
	}

	thr := t.cfg.Threshold()
	for i, j := 0, 1; i < 2; i, j = i+1, j-1 {
		if math.Abs(sp[i]) > math.Abs(sp[j]) && math.Abs(t.acc[i]+sp[i]) > thr {
			t.lock(i, dirs[i], t.acc[i]+sp[i])
			return
		}
	}
	t.acc[0] += sp[0]
	t.acc[1] += sp[1]
}

func (t *Tracker) lock(i int, dir geom.Vec2, angle float64) {
	face := t.facelet.Directions[i].Face.Name
	t.mode = ModeLocked
	t.lockedFace = face
	t.lockedDir = dir
	if err := t.target.TurnFaceABit(face, angle); err != nil {
		t.log.WithError(err).WithField("face", face).Debug("drag turn failed")
	}
	t.log.WithField("face", face).Debug("drag locked")
}

// Up ends the drag at pixel pos. If a face was locked it is handed to the
// target for commit.
func (t *Tracker) Up(pos geom.Vec2, now time.Time) (Release, error) {
	defer t.reset()
	if t.mode != ModeLocked {
		return Release{}, nil
	}

	r := Release{Face: t.lockedFace}
	if s, ok := t.samples.Pick(now); ok {
		if ms := float64(now.Sub(s.Time)) / float64(time.Millisecond); ms > 0 {
			r.Speed = pos.Distance(s.Pos) / ms
			if r.Speed > t.cfg.InertiaThreshold {
				r.Inertia = int(geom.Sign(pos.Sub(s.Pos).Dot(t.lockedDir)))
			}
		}
	}

	if err := t.target.Release(r.Face, r.Inertia); err != nil {
		return r, err
	}
	r.Committed = true
	t.log.WithFields(logrus.Fields{
		"face":    r.Face,
		"inertia": r.Inertia,
		"speed":   r.Speed,
	}).Debug("drag released")
	return r, nil
}

// Cancel drops the drag without committing. A locked face keeps its
// partial rotation, and the target stays busy, until it is released or
// reset.
func (t *Tracker) Cancel() {
	t.reset()
}

func (t *Tracker) reset() {
	t.mode = ModeIdle
	t.facelet = nil
	t.acc = [2]float64{}
	t.lockedFace = ""
	t.lockedDir = geom.Vec2{}
	t.samples.Reset()
}
