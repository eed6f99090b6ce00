// Package smooth applies windowed weighted averaging to time-keyed
// 3-vector tracks. Unlike package rotation this is a whole-sequence
// transform: one smoothed vector is produced per input sample.
package smooth

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/keyframe"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'keyframe'
func tracer() tracing.Trace {
	return tracing.Select("keyframe")
}

var (
	// ErrBadWindow indicates a negative window width, or a width exceeding
	// the cycle time for the cyclic technique.
	ErrBadWindow = errors.New("smoothing window width out of range")
	// ErrAliasedOutput indicates dst shares storage with the input values.
	ErrAliasedOutput = errors.New("output buffer aliases input samples")
)

// Technique selects one of the smoothing kernels.
type Technique int

// The two smoothing techniques.
const (
	Lerp     Technique = iota // triangular kernel, bounded
	LoopLerp                  // triangular kernel, distances modulo cycle time
)

func (tech Technique) String() string {
	switch tech {
	case Lerp:
		return "Lerp"
	case LoopLerp:
		return "LoopLerp"
	}
	return fmt.Sprintf("Technique(%d)", int(tech))
}

// Smooth computes a weighted moving average over a full vector track.
// Every sample j with time distance |times[i]-times[j]| below width/2
// contributes to output i with linear weight 1 - dt/(width/2); the sum is
// normalized by the total weight used. The self term always contributes
// weight 1, so the denominator is strictly positive and the result is a
// convex combination of the windowed samples.
//
// For LoopLerp, time distances are taken modulo cycleTime and wrapped into
// [-cycleTime/2, cycleTime/2], so the window spans the loop boundary. When
// times[last] equals cycleTime exactly, the final sample is redundant with
// the wrap point: with at least two interior intervals it is excluded from
// averaging and afterwards copied from smoothed sample 0 (exact loop
// closure); with a single interior interval the technique degrades to
// Lerp. Bounded Lerp ignores cycleTime.
//
// dst may be nil, in which case a fresh output slice is allocated.
// A caller-supplied dst must have the input's length and must not alias
// the input buffer; it is returned for convenience.
func Smooth(tech Technique, times []float64, values []r3.Vec, width float64, cycleTime float64, dst []r3.Vec) ([]r3.Vec, error) {
	if err := keyframe.CheckTimes(times); err != nil {
		return nil, err
	}
	if len(values) != len(times) {
		return nil, fmt.Errorf("%w: %d times, %d vectors",
			keyframe.ErrLengthMismatch, len(times), len(values))
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: width %g < 0", ErrBadWindow, width)
	}
	if dst == nil {
		dst = make([]r3.Vec, len(values))
	} else {
		if len(dst) != len(values) {
			return nil, fmt.Errorf("%w: %d samples, %d output slots",
				keyframe.ErrLengthMismatch, len(values), len(dst))
		}
		if &dst[0] == &values[0] {
			return nil, ErrAliasedOutput
		}
	}
	last := len(times) - 1
	switch tech {
	case Lerp:
		smoothBounded(times, values, width/2, dst)
	case LoopLerp:
		if cycleTime < times[last] {
			return nil, fmt.Errorf("%w: cycle time %g < times[%d]=%g",
				keyframe.ErrBadCycleDuration, cycleTime, last, times[last])
		}
		if width > cycleTime {
			return nil, fmt.Errorf("%w: width %g > cycle time %g",
				ErrBadWindow, width, cycleTime)
		}
		if times[last] == cycleTime && last >= 1 {
			if last < 2 {
				// A single interior interval spanning the full cycle.
				smoothBounded(times, values, width/2, dst)
				break
			}
			// Final sample is redundant with the wrap point.
			smoothCyclic(times[:last], values[:last], width/2, cycleTime, dst[:last])
			dst[last] = dst[0]
			break
		}
		smoothCyclic(times, values, width/2, cycleTime, dst)
	default:
		panic(fmt.Sprintf("no smoothing kernel for technique %d", int(tech)))
	}
	return dst, nil
}

func smoothBounded(times []float64, values []r3.Vec, halfWidth float64, dst []r3.Vec) {
	for i := range times {
		acc := values[i] // self term, weight 1
		wsum := 1.0
		for j := range times {
			if j == i {
				continue
			}
			dt := math.Abs(times[i] - times[j])
			if dt >= halfWidth {
				continue
			}
			w := 1 - dt/halfWidth
			acc = acc.Add(values[j].Scale(w))
			wsum += w
		}
		tracer().Debugf("Lerp at sample %d: weight sum %.4g", i, wsum)
		dst[i] = acc.Scale(1 / wsum)
	}
}

func smoothCyclic(times []float64, values []r3.Vec, halfWidth, cycleTime float64, dst []r3.Vec) {
	for i := range times {
		acc := values[i]
		wsum := 1.0
		for j := range times {
			if j == i {
				continue
			}
			dt := math.Abs(cyclicDist(times[i]-times[j], cycleTime))
			if dt >= halfWidth {
				continue
			}
			w := 1 - dt/halfWidth
			acc = acc.Add(values[j].Scale(w))
			wsum += w
		}
		tracer().Debugf("LoopLerp at sample %d: weight sum %.4g", i, wsum)
		dst[i] = acc.Scale(1 / wsum)
	}
}

// Wrap a signed time distance into [-cycleTime/2, cycleTime/2].
func cyclicDist(d, cycleTime float64) float64 {
	d = math.Mod(d, cycleTime)
	if d > cycleTime/2 {
		d -= cycleTime
	} else if d < -cycleTime/2 {
		d += cycleTime
	}
	return d
}
