// Package track provides ordered keyframe stores for animation editing.
// A track keeps its keys sorted by time while the surrounding editor
// inserts, replaces and removes keyframes, and flattens into the parallel
// times/values arrays the interpolation core consumes. Flattened arrays
// therefore satisfy the core's precondition (non-empty, strictly
// ascending times) by construction.
package track

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'keyframe'
func tracer() tracing.Trace {
	return tracing.Select("keyframe")
}

// QuatTrack is an ordered store of time-keyed unit quaternions.
// Keys are kept in a sorted map; setting an existing time replaces its
// value. Not safe for concurrent mutation.
type QuatTrack struct {
	keys *treemap.Map // time → quat.Number
}

// NewQuatTrack creates an empty rotation track.
func NewQuatTrack() *QuatTrack {
	return &QuatTrack{keys: treemap.NewWith(utils.Float64Comparator)}
}

// SetKey inserts a keyframe at time t, replacing any existing one.
func (tr *QuatTrack) SetKey(t float64, q quat.Number) *QuatTrack {
	tr.keys.Put(t, q)
	return tr
}

// DeleteKey removes the keyframe at time t, if present.
func (tr *QuatTrack) DeleteKey(t float64) *QuatTrack {
	tr.keys.Remove(t)
	return tr
}

// Key returns the keyframe value at exactly time t.
func (tr *QuatTrack) Key(t float64) (quat.Number, bool) {
	v, ok := tr.keys.Get(t)
	if !ok {
		return quat.Number{}, false
	}
	return v.(quat.Number), true
}

// Len returns the keyframe count.
func (tr *QuatTrack) Len() int {
	return tr.keys.Size()
}

// Flatten produces freshly allocated parallel times/values arrays in
// strictly ascending time order, ready for rotation.Evaluate.
func (tr *QuatTrack) Flatten() ([]float64, []quat.Number) {
	times := make([]float64, 0, tr.keys.Size())
	values := make([]quat.Number, 0, tr.keys.Size())
	it := tr.keys.Iterator()
	for it.Next() {
		times = append(times, it.Key().(float64))
		values = append(values, it.Value().(quat.Number))
	}
	tracer().Debugf("flattened rotation track with %d keys", len(times))
	return times, values
}

// VecTrack is an ordered store of time-keyed 3-vectors. Same contract as
// QuatTrack.
type VecTrack struct {
	keys *treemap.Map // time → r3.Vec
}

// NewVecTrack creates an empty vector track.
func NewVecTrack() *VecTrack {
	return &VecTrack{keys: treemap.NewWith(utils.Float64Comparator)}
}

// SetKey inserts a keyframe at time t, replacing any existing one.
func (tr *VecTrack) SetKey(t float64, v r3.Vec) *VecTrack {
	tr.keys.Put(t, v)
	return tr
}

// DeleteKey removes the keyframe at time t, if present.
func (tr *VecTrack) DeleteKey(t float64) *VecTrack {
	tr.keys.Remove(t)
	return tr
}

// Key returns the keyframe value at exactly time t.
func (tr *VecTrack) Key(t float64) (r3.Vec, bool) {
	v, ok := tr.keys.Get(t)
	if !ok {
		return r3.Vec{}, false
	}
	return v.(r3.Vec), true
}

// Len returns the keyframe count.
func (tr *VecTrack) Len() int {
	return tr.keys.Size()
}

// Flatten produces freshly allocated parallel times/values arrays in
// strictly ascending time order, ready for smooth.Smooth or
// curve.FitCentripetal.
func (tr *VecTrack) Flatten() ([]float64, []r3.Vec) {
	times := make([]float64, 0, tr.keys.Size())
	values := make([]r3.Vec, 0, tr.keys.Size())
	it := tr.keys.Iterator()
	for it.Next() {
		times = append(times, it.Key().(float64))
		values = append(values, it.Value().(r3.Vec))
	}
	tracer().Debugf("flattened vector track with %d keys", len(times))
	return times, values
}
