package grubix

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix/internal/puzzle"
	"github.com/bebora/grubix/pkg/types"
)

// Animation is a request to bring a face to a quarter-turn multiple and
// commit the result.
//
// With Inertia 0 the face goes to the nearest multiple of 90 degrees plus
// TargetOffset. A negative Inertia rounds down and a positive one rounds up;
// TargetOffset is ignored then.
type Animation struct {
	Face         Face
	Inertia      int
	AnglePerStep float64
	TargetOffset float64
	Source       Source
}

type animation struct {
	Animation
	face    *puzzle.Face
	started bool
	target  float64
}

// MoveWithAnimation queues an animated commit of face.
func (e *Engine) MoveWithAnimation(face Face, inertia int, anglePerStep, targetOffset float64) error {
	return e.Animate(Animation{
		Face:         face,
		Inertia:      inertia,
		AnglePerStep: anglePerStep,
		TargetOffset: targetOffset,
		Source:       SourceAPI,
	})
}

// Release queues the commit that ends a drag on face, using the release speed.
func (e *Engine) Release(face Face, inertia int) error {
	return e.Animate(Animation{
		Face:         face,
		Inertia:      inertia,
		AnglePerStep: e.cfg.releaseSpeed,
		Source:       SourceGesture,
	})
}

// Animate queues an animation. Animations run one at a time in order.
func (e *Engine) Animate(a Animation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.puzzle.Face(a.Face)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownFace, a.Face)
	}
	if a.AnglePerStep <= 0 {
		a.AnglePerStep = e.cfg.releaseSpeed
	}
	e.queue = append(e.queue, &animation{Animation: a, face: f})
	return nil
}

// Enqueue queues moves as animated commits at anglePerStep degrees per step.
// Moves queue behind running animations, but ErrTransitionInProgress is
// returned while a face is held mid-drag.
func (e *Engine) Enqueue(moves []Move, anglePerStep float64, src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.held() {
		return ErrTransitionInProgress
	}
	for _, m := range moves {
		if e.puzzle.Face(m.Face) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownFace, m.Face)
		}
	}
	e.enqueue(moves, anglePerStep, src)
	return nil
}

func (e *Engine) enqueue(moves []Move, anglePerStep float64, src Source) {
	if anglePerStep <= 0 {
		anglePerStep = e.cfg.releaseSpeed
	}
	for _, m := range moves {
		e.queue = append(e.queue, &animation{
			Animation: Animation{
				Face:         m.Face,
				AnglePerStep: anglePerStep,
				TargetOffset: m.Turn.Degrees(),
				Source:       src,
			},
			face: e.puzzle.Face(m.Face),
		})
	}
}

// animating reports whether an animation is queued or running.
func (e *Engine) animating() bool {
	return e.active != nil || len(e.queue) > 0
}

// held reports whether a face rests at a partial angle with no animation
// queued to commit it, as during a drag.
func (e *Engine) held() bool {
	for _, f := range e.puzzle.Faces() {
		if f.TempAngle != 0 && !e.scheduled(f) {
			return true
		}
	}
	return false
}

func (e *Engine) scheduled(f *puzzle.Face) bool {
	if e.active != nil && e.active.face == f {
		return true
	}
	for _, a := range e.queue {
		if a.face == f {
			return true
		}
	}
	return false
}

func (e *Engine) busy() bool {
	return e.animating() || e.held()
}

// Advance consumes dt of animation time, running one step per step
// interval. It returns whether animations remain.
func (e *Engine) Advance(dt time.Duration) bool {
	e.mu.Lock()
	if !e.animating() {
		e.accum = 0
		e.mu.Unlock()
		return false
	}
	e.accum += dt
	steps := 0
	for e.accum >= e.cfg.stepInterval && e.animating() {
		e.accum -= e.cfg.stepInterval
		e.step()
		steps++
		if steps == maxCatchUpSteps {
			e.accum = 0
		}
	}
	busy := e.animating()
	e.mu.Unlock()
	e.dispatch()
	return busy
}

// Step runs exactly one animation step and reports whether animations remain.
func (e *Engine) Step() bool {
	e.mu.Lock()
	e.step()
	busy := e.animating()
	e.mu.Unlock()
	e.dispatch()
	return busy
}

// Settle runs every queued animation to completion.
func (e *Engine) Settle() {
	e.mu.Lock()
	for e.animating() {
		e.step()
	}
	e.accum = 0
	e.mu.Unlock()
	e.dispatch()
}

func (e *Engine) step() {
	if e.active == nil {
		if len(e.queue) == 0 {
			return
		}
		e.active = e.queue[0]
		e.queue = e.queue[1:]
	}
	a := e.active
	f := a.face

	if !a.started {
		a.started = true
		temp := math.Mod(f.TempAngle, 360)
		f.TempAngle = temp
		a.target = snapTarget(temp, a.Inertia, a.TargetOffset)
	}

	diff := a.target - f.TempAngle
	if math.Floor(math.Abs(diff)) >= a.AnglePerStep {
		f.TurnABit(math.Copysign(a.AnglePerStep, diff))
		e.version++
		return
	}

	f.TurnABit(diff)
	e.active = nil
	e.commit(f, int(math.Round(a.target/90)), a.Source)
}

// snapTarget picks the committed angle for a face resting at temp degrees.
func snapTarget(temp float64, inertia int, offset float64) float64 {
	switch {
	case inertia < 0:
		return math.Floor(temp/90) * 90
	case inertia > 0:
		return math.Ceil(temp/90) * 90
	default:
		return math.Floor(temp/90+0.5)*90 + offset
	}
}

// commit applies quarters clockwise quarter turns to the slot map and the
// canonical state. The face must already be rotated by the same amount.
func (e *Engine) commit(f *puzzle.Face, quarters int, src Source) {
	f.TempAngle = 0
	e.version++

	turn, ok := types.TurnFromQuarters(quarters)
	if !ok {
		e.snap(f)
		return
	}
	switch turn {
	case types.TurnCW:
		f.Turn(true)
	case types.Turn180:
		f.Turn(true)
		f.Turn(true)
	case types.TurnCCW:
		f.Turn(false)
	}
	e.snap(f)

	now := e.cfg.clock()
	m := Move{Face: f.Name, Turn: turn, Timestamp: now.Sub(e.epoch).Milliseconds()}
	e.state.ApplyMove(m)
	solved := e.state.IsSolved()

	e.log.WithFields(logrus.Fields{
		"move":   m.Notation(),
		"source": src,
		"solved": solved,
	}).Debug("commit")

	e.pending = append(e.pending, CommitEvent{Move: m, Source: src, Solved: solved, Time: now})
}

// snap removes rounding drift from the face's pieces when no face is
// mid-rotation.
func (e *Engine) snap(f *puzzle.Face) {
	for _, other := range e.puzzle.Faces() {
		if other.TempAngle != 0 {
			return
		}
	}
	f.Snap()
}
