// Package rotation interpolates time-keyed unit quaternion tracks. It
// implements a closed set of interpolation techniques, bounded and cyclic,
// with normalized-linear and spherical blending.
package rotation

import (
	"fmt"
	"math"

	"github.com/npillmayer/keyframe"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/num/quat"
)

// tracer writes to trace with key 'keyframe'
func tracer() tracing.Trace {
	return tracing.Select("keyframe")
}

// Technique selects one of the rotation interpolation kernels. The set is
// closed; clients dispatch by tag rather than by injecting behavior.
type Technique int

// The four interpolation techniques.
const (
	Nlerp Technique = iota // normalized linear, bounded
	Slerp                  // spherical, bounded
	LoopNlerp              // normalized linear, cyclic
	LoopSlerp              // spherical, cyclic
)

func (tech Technique) String() string {
	switch tech {
	case Nlerp:
		return "Nlerp"
	case Slerp:
		return "Slerp"
	case LoopNlerp:
		return "LoopNlerp"
	case LoopSlerp:
		return "LoopSlerp"
	}
	return fmt.Sprintf("Technique(%d)", int(tech))
}

// Cyclic is a predicate: does this technique wrap past the final sample?
func (tech Technique) Cyclic() bool {
	return tech == LoopNlerp || tech == LoopSlerp
}

// The bounded counterpart of a cyclic technique.
func (tech Technique) acyclic() Technique {
	switch tech {
	case LoopNlerp:
		return Nlerp
	case LoopSlerp:
		return Slerp
	}
	return tech
}

// Evaluate interpolates a rotation track at query time t. times must be
// non-empty and strictly ascending, values parallel to times. For cyclic
// techniques, duration is the wrap-around point and must satisfy
// duration ≥ times[last]; bounded techniques ignore it.
//
// The valid query domain is [times[0], times[last]] for bounded techniques
// and [times[0], duration] for cyclic ones. A query outside the domain is
// a precondition violation and returns ErrTimeOutOfRange; nothing is
// clamped.
//
// If the track holds a single sample, that sample is returned for any
// valid t. When duration equals times[last] exactly, the final sample
// coincides with the wrap point: it is dropped from interpolation when at
// least two interior intervals remain, and the technique degrades to its
// bounded counterpart otherwise.
func Evaluate(tech Technique, t float64, times []float64, values []quat.Number, duration float64) (quat.Number, error) {
	if err := keyframe.CheckTimes(times); err != nil {
		return quat.Number{}, err
	}
	if len(values) != len(times) {
		return quat.Number{}, fmt.Errorf("%w: %d times, %d rotations",
			keyframe.ErrLengthMismatch, len(times), len(values))
	}
	last := len(times) - 1
	if last == 0 {
		return values[0], nil
	}
	if !tech.Cyclic() {
		return evalBounded(tech, t, times, values)
	}
	if duration < times[last] {
		return quat.Number{}, fmt.Errorf("%w: duration %g < times[%d]=%g",
			keyframe.ErrBadCycleDuration, duration, last, times[last])
	}
	if duration == times[last] {
		// Final sample is redundant with the wrap point.
		if last < 2 {
			return evalBounded(tech.acyclic(), t, times, values)
		}
		times = times[:last]
		values = values[:last]
	}
	return evalCyclic(tech, t, times, values, duration)
}

func evalBounded(tech Technique, t float64, times []float64, values []quat.Number) (quat.Number, error) {
	last := len(times) - 1
	if t < times[0] || t > times[last] {
		return quat.Number{}, fmt.Errorf("%w: t=%g not in [%g,%g]",
			keyframe.ErrTimeOutOfRange, t, times[0], times[last])
	}
	i := keyframe.PrevIndex(times, t)
	if i == last { // no extrapolation past the final sample
		return values[last], nil
	}
	frac := (t - times[i]) / (times[i+1] - times[i])
	tracer().Debugf("%s at t=%g: interval %d, frac %.4g", tech, t, i, frac)
	return blend(tech, values[i], values[i+1], frac), nil
}

func evalCyclic(tech Technique, t float64, times []float64, values []quat.Number, duration float64) (quat.Number, error) {
	last := len(times) - 1
	if t < times[0] || t > duration {
		return quat.Number{}, fmt.Errorf("%w: t=%g not in [%g,%g]",
			keyframe.ErrTimeOutOfRange, t, times[0], duration)
	}
	i := keyframe.PrevIndex(times, t)
	if i == last {
		// Wrap interval: from the final usable sample back to sample 0.
		frac := (t - times[last]) / (duration - times[last])
		tracer().Debugf("%s at t=%g: wrap interval, frac %.4g", tech, t, frac)
		return blend(tech, values[last], values[0], frac), nil
	}
	frac := (t - times[i]) / (times[i+1] - times[i])
	tracer().Debugf("%s at t=%g: interval %d, frac %.4g", tech, t, i, frac)
	return blend(tech, values[i], values[i+1], frac), nil
}

// Blend q1 towards q2 at fractional position t ∈ [0,1]. Neither input is
// mutated; quat.Number is a value type throughout.
func blend(tech Technique, q1, q2 quat.Number, t float64) quat.Number {
	if keyframe.QuatEq(q1, q2) {
		return q1 // no blending between numerically equal endpoints
	}
	switch tech {
	case Nlerp, LoopNlerp:
		return nlerp(q1, q2, t)
	case Slerp, LoopSlerp:
		return slerp(q1, q2, t)
	}
	panic(fmt.Sprintf("no blend kernel for technique %d", int(tech)))
}

// Normalized linear blend: per-component linear interpolation followed by
// renormalization to unit length.
func nlerp(q1, q2 quat.Number, t float64) quat.Number {
	q := quat.Add(quat.Scale(1-t, q1), quat.Scale(t, q2))
	return keyframe.QuatNormalize(q)
}

// Spherical blend along the shortest great-circle arc. The sign of q2 is
// chosen to minimize angular distance from q1.
func slerp(q1, q2 quat.Number, t float64) quat.Number {
	dot := keyframe.QuatDot(q1, q2)
	if dot < 0 {
		q2 = quat.Scale(-1, q2)
		dot = -dot
	}
	if dot > 1 {
		dot = 1
	}
	omega := math.Acos(dot)
	sin := math.Sin(omega)
	if keyframe.Is0(sin) {
		// Nearly parallel, the great-circle direction is ill-defined.
		return nlerp(q1, q2, t)
	}
	a := math.Sin((1-t)*omega) / sin
	b := math.Sin(t*omega) / sin
	return quat.Add(quat.Scale(a, q1), quat.Scale(b, q2))
}
