// Package curve provides a reusable per-segment cache for spline
// evaluation, plus a centripetal Catmull-Rom fitter populating it. The
// cache decouples fitting a curve (done once) from evaluating it at a
// point (done many times during playback and scrubbing): all per-interval
// geometric state is computed up front so that point queries stay
// allocation-free.
package curve

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'keyframe'
func tracer() tracing.Trace {
	return tracing.Select("keyframe")
}

var (
	// ErrIndexOutOfRange indicates an interval index outside [0, lastIndex].
	ErrIndexOutOfRange = errors.New("interval index out of range")
	// ErrNonPositiveDuration indicates an interval duration ≤ 0.
	ErrNonPositiveDuration = errors.New("interval duration must be positive")
	// ErrNegativeCycleTime indicates a cycle time < 0.
	ErrNegativeCycleTime = errors.New("cycle time must not be negative")
	// ErrNoChordRoots indicates chord roots set on a non-centripetal cache.
	ErrNoChordRoots = errors.New("cache carries no centripetal chord roots")
)

// SegmentCache stores precomputed per-interval spline state: boundary
// vectors, interval durations, auxiliary control tangents, and optionally
// the square-root-of-chord-distance terms of a centripetal
// parametrization.
//
// A cache follows a two-phase protocol: a builder sizes it once with
// SetLastIndex, populates every interval through the per-index setters,
// and only then do readers query it. The setters enforce shape invariants
// only (index range, positive duration); cross-interval consistency of the
// fitted spline is entirely the builder's responsibility. The protocol is
// a documented contract, not enforced at runtime, which keeps the read
// path free of checks. After the build phase the cache is effectively
// immutable and safe for concurrent readers.
type SegmentCache struct {
	start, end       []r3.Vec  // per-interval boundary vectors
	dur              []float64 // per-interval time spans
	ctrlA, ctrlB     []r3.Vec  // per-interval auxiliary control tangents
	dt01, dt12, dt23 []float64 // centripetal chord-distance roots
	cycleTime        float64
	centripetal      bool
}

// SetLastIndex sizes the cache for intervals 0 … last, discarding any
// previous state. Chord-root storage is allocated only when centripetal is
// set. This is the single sizing call of the build phase.
func (c *SegmentCache) SetLastIndex(last int, centripetal bool) {
	n := last + 1
	if n < 1 {
		n = 0
	}
	c.start = make([]r3.Vec, n)
	c.end = make([]r3.Vec, n)
	c.dur = make([]float64, n)
	c.ctrlA = make([]r3.Vec, n)
	c.ctrlB = make([]r3.Vec, n)
	c.centripetal = centripetal
	if centripetal {
		c.dt01 = make([]float64, n)
		c.dt12 = make([]float64, n)
		c.dt23 = make([]float64, n)
	} else {
		c.dt01, c.dt12, c.dt23 = nil, nil, nil
	}
	c.cycleTime = 0
	tracer().Debugf("sized segment cache for %d intervals, centripetal=%v", n, centripetal)
}

// LastIndex returns the greatest valid interval index, or -1 for an
// unsized cache.
func (c *SegmentCache) LastIndex() int {
	return len(c.dur) - 1
}

// Centripetal is a predicate: does this cache carry chord-distance roots?
func (c *SegmentCache) Centripetal() bool {
	return c.centripetal
}

func (c *SegmentCache) checkIndex(i int) error {
	if i < 0 || i >= len(c.dur) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrIndexOutOfRange, i, c.LastIndex())
	}
	return nil
}

// SetInterval records the boundary vectors and time span of interval i.
func (c *SegmentCache) SetInterval(i int, start, end r3.Vec, dur float64) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if dur <= 0 {
		return fmt.Errorf("%w: interval %d has duration %g", ErrNonPositiveDuration, i, dur)
	}
	c.start[i], c.end[i], c.dur[i] = start, end, dur
	return nil
}

// SetControls records the auxiliary control tangents of interval i.
func (c *SegmentCache) SetControls(i int, a, b r3.Vec) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.ctrlA[i], c.ctrlB[i] = a, b
	return nil
}

// SetChordRoots records the centripetal chord-distance roots of interval
// i. The cache must have been sized with centripetal storage.
func (c *SegmentCache) SetChordRoots(i int, d01, d12, d23 float64) error {
	if !c.centripetal {
		return ErrNoChordRoots
	}
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.dt01[i], c.dt12[i], c.dt23[i] = d01, d12, d23
	return nil
}

// SetCycleTime records the end time for looping playback.
func (c *SegmentCache) SetCycleTime(t float64) error {
	if t < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeCycleTime, t)
	}
	c.cycleTime = t
	return nil
}

// Read accessors. Indices must have been populated during the build phase;
// the accessors perform no validation of their own, per the two-phase
// contract above. An out-of-range index faults.

// Start returns the first boundary vector of interval i.
func (c *SegmentCache) Start(i int) r3.Vec {
	return c.start[i]
}

// End returns the second boundary vector of interval i.
func (c *SegmentCache) End(i int) r3.Vec {
	return c.end[i]
}

// Duration returns the time span of interval i.
func (c *SegmentCache) Duration(i int) float64 {
	return c.dur[i]
}

// Controls returns the auxiliary control tangents of interval i.
func (c *SegmentCache) Controls(i int) (r3.Vec, r3.Vec) {
	return c.ctrlA[i], c.ctrlB[i]
}

// ChordRoots returns the centripetal chord-distance roots of interval i.
func (c *SegmentCache) ChordRoots(i int) (float64, float64, float64) {
	return c.dt01[i], c.dt12[i], c.dt23[i]
}

// CycleTime returns the end time for looping playback.
func (c *SegmentCache) CycleTime() float64 {
	return c.cycleTime
}
