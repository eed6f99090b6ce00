/*
Package keyframe implements the numeric core for sampled animation tracks:
interpolation over time-keyed unit quaternions, windowed smoothing of
time-keyed 3-vectors, and a reusable per-segment curve cache for repeated
spline evaluation.

The root package holds the shared sample-sequence model: a track is a pair
of parallel arrays, a strictly ascending array of sample times and an array
of values of equal length. Subpackages rotation, smooth and curve operate
on this model; subpackage track provides an ordered keyframe store that
produces it.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package keyframe

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keyframe'
func tracer() tracing.Trace {
	return tracing.Select("keyframe")
}

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Sampled Sequence ======================================================

var (
	// ErrNoSamples indicates an empty sample time array.
	ErrNoSamples = errors.New("track has no samples")
	// ErrLengthMismatch indicates times and values arrays differ in length.
	ErrLengthMismatch = errors.New("times and values differ in length")
	// ErrTimesNotAscending indicates sample times are not strictly ascending.
	ErrTimesNotAscending = errors.New("sample times must be strictly ascending")
	// ErrTimeOutOfRange indicates a query time outside the sample domain.
	ErrTimeOutOfRange = errors.New("query time outside sample range")
	// ErrBadCycleDuration indicates a cycle duration before the final sample.
	ErrBadCycleDuration = errors.New("cycle duration lies before final sample time")
)

// CheckTimes validates the shared sample-sequence invariant: the time array
// is non-empty and strictly ascending. Values-array length checks are the
// callers' concern, since only they know their value type.
func CheckTimes(times []float64) error {
	if len(times) == 0 {
		return ErrNoSamples
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return fmt.Errorf("%w: times[%d]=%g, times[%d]=%g",
				ErrTimesNotAscending, i-1, times[i-1], i, times[i])
		}
	}
	return nil
}

// PrevIndex returns the greatest index i with times[i] ≤ t ("previous
// index"). If t coincides with a sample time, that sample's index is
// returned. Binary search, O(log n).
//
// Callers must guarantee t ≥ times[0] and times non-empty; PrevIndex does
// not re-validate.
func PrevIndex(times []float64, t float64) int {
	lo, hi := 0, len(times)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if times[mid] <= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
