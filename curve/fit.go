package curve

import (
	"fmt"
	"math"

	"github.com/npillmayer/keyframe"
	"gonum.org/v1/gonum/spatial/r3"
)

// Curve is a fitted spline over a sampled vector track, ready for
// repeated point evaluation. It pairs a populated SegmentCache with the
// sample times locating each interval.
//
// The times array is aliased from the caller, not copied; the caller must
// not mutate it while the Curve is alive. A Curve is discarded and refit
// whenever the underlying samples change.
type Curve struct {
	times []float64
	cache *SegmentCache
}

// FitCentripetal fits a centripetal Catmull-Rom spline through the given
// samples and returns a Curve for point evaluation. times must be
// non-empty and strictly ascending, points parallel to times, with at
// least two samples.
//
// Chord spacing uses square-root-of-distance parametrization, which
// avoids the overshoot uniform Catmull-Rom splines exhibit near unevenly
// spaced samples. Per interval the fitter stores the boundary points, the
// Hermite end tangents, and the three chord-distance roots in a
// SegmentCache; evaluation never recomputes them.
func FitCentripetal(times []float64, points []r3.Vec) (*Curve, error) {
	if err := keyframe.CheckTimes(times); err != nil {
		return nil, err
	}
	if len(points) != len(times) {
		return nil, fmt.Errorf("%w: %d times, %d points",
			keyframe.ErrLengthMismatch, len(times), len(points))
	}
	last := len(times) - 1
	if last < 1 {
		return nil, fmt.Errorf("%w: need at least 2 samples to fit a curve",
			keyframe.ErrNoSamples)
	}
	cache := &SegmentCache{}
	cache.SetLastIndex(last-1, true)
	for i := 0; i < last; i++ {
		p0 := points[clamp(i-1, last)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[clamp(i+2, last)]
		d01 := chordRoot(p0, p1)
		d12 := chordRoot(p1, p2)
		d23 := chordRoot(p2, p3)
		m1, m2 := hermiteTangents(p0, p1, p2, p3, d01, d12, d23)
		// Degenerate outer chords collapse onto the center chord for the
		// cached roots. At the track ends the clamped neighbor coincides
		// with its boundary point, so this is the common case for the
		// first and last interval.
		if keyframe.Is0(d01) {
			d01 = d12
		}
		if keyframe.Is0(d23) {
			d23 = d12
		}
		if err := cache.SetInterval(i, p1, p2, times[i+1]-times[i]); err != nil {
			return nil, err
		}
		if err := cache.SetControls(i, m1, m2); err != nil {
			return nil, err
		}
		if err := cache.SetChordRoots(i, d01, d12, d23); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("fitted centripetal spline over %d intervals", last)
	return &Curve{times: times, cache: cache}, nil
}

// At evaluates the fitted curve at query time t ∈ [times[0], times[last]].
// The evaluation reads only cached per-interval state: a binary interval
// lookup followed by one cubic Hermite evaluation, with no allocation.
func (cv *Curve) At(t float64) (r3.Vec, error) {
	last := len(cv.times) - 1
	if t < cv.times[0] || t > cv.times[last] {
		return r3.Vec{}, fmt.Errorf("%w: t=%g not in [%g,%g]",
			keyframe.ErrTimeOutOfRange, t, cv.times[0], cv.times[last])
	}
	i := keyframe.PrevIndex(cv.times, t)
	if i > cv.cache.LastIndex() { // t is exactly the final sample time
		return cv.cache.End(cv.cache.LastIndex()), nil
	}
	s := (t - cv.times[i]) / cv.cache.Duration(i)
	m1, m2 := cv.cache.Controls(i)
	return hermite(cv.cache.Start(i), cv.cache.End(i), m1, m2, s), nil
}

// Cache exposes the populated segment cache, e.g. for a playback engine
// evaluating intervals directly. Read-only per the two-phase contract.
func (cv *Curve) Cache() *SegmentCache {
	return cv.cache
}

func clamp(i, last int) int {
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// Square root of the chord distance between two samples (centripetal
// parametrization, α = 1/2).
func chordRoot(p, q r3.Vec) float64 {
	return math.Sqrt(r3.Norm(q.Sub(p)))
}

// Hermite end tangents of the center interval p1→p2 under centripetal
// chord spacing, scaled for a unit parameter across the interval. A
// degenerate outer chord (clamped track end) yields a one-sided tangent
// equal to the interval delta.
func hermiteTangents(p0, p1, p2, p3 r3.Vec, d01, d12, d23 float64) (r3.Vec, r3.Vec) {
	if keyframe.Is0(d12) {
		// Coincident interval boundaries: a constant segment.
		return r3.Vec{}, r3.Vec{}
	}
	delta := p2.Sub(p1)
	m1, m2 := delta, delta
	if !keyframe.Is0(d01) {
		t1 := p1.Sub(p0).Scale(1 / d01).
			Sub(p2.Sub(p0).Scale(1 / (d01 + d12))).
			Add(delta.Scale(1 / d12))
		m1 = t1.Scale(d12)
	}
	if !keyframe.Is0(d23) {
		t2 := delta.Scale(1 / d12).
			Sub(p3.Sub(p1).Scale(1 / (d12 + d23))).
			Add(p3.Sub(p2).Scale(1 / d23))
		m2 = t2.Scale(d12)
	}
	return m1, m2
}

// Cubic Hermite basis over s ∈ [0,1].
func hermite(p1, p2, m1, m2 r3.Vec, s float64) r3.Vec {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return p1.Scale(h00).Add(m1.Scale(h10)).Add(p2.Scale(h01)).Add(m2.Scale(h11))
}
