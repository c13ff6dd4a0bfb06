package gesture

import (
	"time"

	"github.com/bebora/grubix/internal/geom"
)

// Sample is a pointer position at a moment in time.
type Sample struct {
	Pos  geom.Vec2
	Time time.Time
}

// SampleQueue keeps the most recent pointer samples of a drag so release
// speed can be measured over a short trailing window.
type SampleQueue struct {
	samples  []Sample
	size     int
	interval time.Duration
	maxAge   time.Duration
}

// NewSampleQueue creates a queue holding at most size samples. Pick prefers
// the sample closest to interval old and rejects anything older than maxAge.
func NewSampleQueue(size int, interval, maxAge time.Duration) *SampleQueue {
	return &SampleQueue{
		samples:  make([]Sample, 0, size),
		size:     size,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Push adds a sample, dropping the oldest when full.
func (q *SampleQueue) Push(s Sample) {
	if len(q.samples) == q.size {
		copy(q.samples, q.samples[1:])
		q.samples = q.samples[:q.size-1]
	}
	q.samples = append(q.samples, s)
}

// Pick returns the sample whose age is closest to the target interval.
// ok is false when the queue is empty or the best sample is too old.
func (q *SampleQueue) Pick(now time.Time) (Sample, bool) {
	if len(q.samples) == 0 {
		return Sample{}, false
	}
	best := 0
	bestDist := absDuration(now.Sub(q.samples[0].Time) - q.interval)
	for i := 1; i < len(q.samples); i++ {
		if d := absDuration(now.Sub(q.samples[i].Time) - q.interval); d < bestDist {
			best, bestDist = i, d
		}
	}
	s := q.samples[best]
	if now.Sub(s.Time) > q.maxAge {
		return Sample{}, false
	}
	return s, true
}

// Len returns the number of samples held.
func (q *SampleQueue) Len() int {
	return len(q.samples)
}

// Reset drops every sample.
func (q *SampleQueue) Reset() {
	q.samples = q.samples[:0]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
