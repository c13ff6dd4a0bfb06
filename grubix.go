// Package grubix is the state engine of an interactive 3x3 twisty cube.
//
// It keeps two views of the same puzzle in lock step: a geometric one, where
// 26 pieces carry world transforms and can be rotated by any angle, and a
// canonical one, where 54 stickers are permuted by committed moves. Hosts feed
// pointer gestures, keyboard moves or remote commands in and read transforms
// out to draw a frame.
//
// # Quick Start
//
//	engine, err := grubix.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine.OnSolved(func() {
//	    fmt.Println("Solved!")
//	})
//
//	// Queue animated moves and drive them from the host loop.
//	engine.Enqueue(grubix.SexyMove, 5, grubix.SourceAPI)
//	for engine.Advance(16 * time.Millisecond) {
//	    draw(engine.PieceTransforms())
//	}
//
// # Animation
//
// Nothing runs on a timer. Animated commits advance one step per
// StepInterval of time handed to Advance, so a host renders at its own pace
// and headless callers use Settle to run every queued animation to the end.
//
// # Scramble and Solve
//
// Scramble queues a random sequence of outer-face moves. Solve asks the
// configured solver for a solution of the canonical state and queues it at a
// slower speed. Both refuse to start while a transition is in progress and
// return ErrTransitionInProgress, which interactive callers ignore.
//
// # Notation
//
// Faces U D L R F B turn the outer layers, M E S the middle slices. A
// trailing ' turns counter-clockwise, a trailing 2 turns twice.
package grubix
