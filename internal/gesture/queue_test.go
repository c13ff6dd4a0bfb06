package gesture

import (
	"testing"
	"time"

	"github.com/bebora/grubix/internal/geom"
)

func TestSampleQueueDropsOldest(t *testing.T) {
	q := NewSampleQueue(3, 100*time.Millisecond, 200*time.Millisecond)
	for i := 0; i < 5; i++ {
		q.Push(Sample{Pos: geom.Vec2{X: float64(i)}, Time: at(i)})
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	if q.samples[0].Pos.X != 2 {
		t.Errorf("oldest = %v, want 2", q.samples[0].Pos.X)
	}
}

func TestSampleQueuePick(t *testing.T) {
	q := NewSampleQueue(50, 100*time.Millisecond, 200*time.Millisecond)
	for _, ms := range []int{0, 40, 80, 120, 160} {
		q.Push(Sample{Pos: geom.Vec2{X: float64(ms)}, Time: at(ms)})
	}

	s, ok := q.Pick(at(185))
	if !ok {
		t.Fatal("Pick found nothing")
	}
	// ages 185 145 105 65 25: 105 is nearest to 100
	if s.Pos.X != 80 {
		t.Errorf("picked %v, want 80", s.Pos.X)
	}
}

func TestSampleQueuePickTieTakesFirst(t *testing.T) {
	q := NewSampleQueue(50, 100*time.Millisecond, 200*time.Millisecond)
	q.Push(Sample{Pos: geom.Vec2{X: 1}, Time: at(0)})
	q.Push(Sample{Pos: geom.Vec2{X: 2}, Time: at(100)})

	s, ok := q.Pick(at(150))
	if !ok || s.Pos.X != 1 {
		t.Errorf("Pick = %v, %v, want first sample", s, ok)
	}
}

func TestSampleQueuePickStale(t *testing.T) {
	q := NewSampleQueue(50, 100*time.Millisecond, 200*time.Millisecond)
	q.Push(Sample{Time: at(0)})
	if _, ok := q.Pick(at(250)); ok {
		t.Error("Pick returned a sample older than the max age")
	}
	q.Reset()
	if _, ok := q.Pick(at(0)); ok {
		t.Error("Pick on empty queue succeeded")
	}
}
