package rotation

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/keyframe"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var yAxis = r3.Vec{Y: 1}

func aboutY(deg float64) quat.Number {
	return keyframe.QuatFromAxisAngle(yAxis, deg*math.Pi/180)
}

func mustEval(t *testing.T, tech Technique, at float64, times []float64, values []quat.Number, duration float64) quat.Number {
	t.Helper()
	q, err := Evaluate(tech, at, times, values, duration)
	if err != nil {
		t.Fatalf("%s at t=%g failed: %v", tech, at, err)
	}
	return q
}

func sameRotation(p, q quat.Number) bool {
	return keyframe.QuatAngleBetween(p, q) < 0.0001
}

func TestTechniqueString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if Nlerp.String() != "Nlerp" || LoopSlerp.String() != "LoopSlerp" {
		t.Fail()
	}
	if Nlerp.Cyclic() || Slerp.Cyclic() || !LoopNlerp.Cyclic() || !LoopSlerp.Cyclic() {
		t.Errorf("cyclic predicate wrong")
	}
}

func TestSingleSampleIdentity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{1}
	values := []quat.Number{aboutY(30)}
	for _, tech := range []Technique{Nlerp, Slerp, LoopNlerp, LoopSlerp} {
		q := mustEval(t, tech, 1, times, values, 5)
		if !keyframe.QuatEq(q, values[0]) {
			t.Errorf("%s on single sample: got %v, want %v", tech, q, values[0])
		}
	}
}

func TestEndpointExactness(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2}
	values := []quat.Number{aboutY(0), aboutY(90), aboutY(30)}
	for _, tech := range []Technique{Nlerp, Slerp} {
		for i, at := range times {
			q := mustEval(t, tech, at, times, values, 0)
			if !sameRotation(q, values[i]) {
				t.Errorf("%s at sample time %g: got %v, want %v", tech, at, q, values[i])
			}
		}
	}
}

func TestSlerpQuarterRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2}
	values := []quat.Number{keyframe.QuatIdentity(), aboutY(90), keyframe.QuatIdentity()}
	q := mustEval(t, Slerp, 0.5, times, values, 0)
	if !sameRotation(q, aboutY(45)) {
		t.Fatalf("Slerp at t=0.5: got %v, want 45 degrees about Y (%v)", q, aboutY(45))
	}
}

func TestMidpointEquidistance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1}
	q0 := aboutY(10)
	q1 := keyframe.QuatFromAxisAngle(r3.Vec{X: 1, Z: 0.5}, 1.2)
	values := []quat.Number{q0, q1}
	for _, tech := range []Technique{Nlerp, Slerp} {
		mid := mustEval(t, tech, 0.5, times, values, 0)
		d0 := keyframe.QuatAngleBetween(mid, q0)
		d1 := keyframe.QuatAngleBetween(mid, q1)
		if math.Abs(d0-d1) > 0.0001 {
			t.Errorf("%s midpoint not equidistant: %g vs %g", tech, d0, d1)
		}
	}
}

func TestNlerpStaysUnitLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1}
	values := []quat.Number{aboutY(0), aboutY(170)}
	for _, frac := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		q := mustEval(t, Nlerp, frac, times, values, 0)
		if !keyframe.Is1(quat.Abs(q)) {
			t.Errorf("Nlerp at %g not unit length: |q| = %g", frac, quat.Abs(q))
		}
	}
}

func TestNoExtrapolationPastFinalSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1}
	values := []quat.Number{aboutY(0), aboutY(90)}
	q := mustEval(t, Slerp, 1, times, values, 0)
	if !keyframe.QuatEq(q, values[1]) {
		t.Errorf("query at final sample should return it unchanged, got %v", q)
	}
}

func TestEqualEndpointShortCircuit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	qa := aboutY(33)
	times := []float64{0, 1}
	values := []quat.Number{qa, qa}
	q := mustEval(t, Slerp, 0.5, times, values, 0)
	if q != qa {
		t.Errorf("equal endpoints must be returned without blending, got %v", q)
	}
}

func TestCyclicWrapInterval(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2}
	values := []quat.Number{aboutY(0), aboutY(45), aboutY(90)}
	// wrap interval spans [2,4] back to sample 0
	q := mustEval(t, LoopSlerp, 3, times, values, 4)
	if !sameRotation(q, aboutY(45)) {
		t.Fatalf("LoopSlerp mid-wrap: got %v, want 45 degrees about Y", q)
	}
	q = mustEval(t, LoopSlerp, 4, times, values, 4)
	if !sameRotation(q, values[0]) {
		t.Fatalf("LoopSlerp at duration: got %v, want sample 0", q)
	}
}

func TestCyclicDropsRedundantFinalSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2}
	values := []quat.Number{aboutY(0), aboutY(90), aboutY(30)}
	// duration == times[last]: the final sample coincides with the wrap
	// point and must be excluded; [1,2] wraps from sample 1 to sample 0.
	q := mustEval(t, LoopSlerp, 2, times, values, 2)
	if !sameRotation(q, values[0]) {
		t.Fatalf("loop closure violated: got %v, want sample 0", q)
	}
	q = mustEval(t, LoopSlerp, 1.5, times, values, 2)
	want := blend(Slerp, values[1], values[0], 0.5)
	if !sameRotation(q, want) {
		t.Fatalf("wrap interpolation: got %v, want %v", q, want)
	}
}

func TestCyclicDegradesToBoundedWithOneInterval(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1}
	values := []quat.Number{aboutY(0), aboutY(90)}
	for _, at := range []float64{0, 0.3, 0.8, 1} {
		looped := mustEval(t, LoopSlerp, at, times, values, 1)
		bounded := mustEval(t, Slerp, at, times, values, 0)
		if looped != bounded {
			t.Errorf("LoopSlerp at %g must equal Slerp exactly: %v vs %v", at, looped, bounded)
		}
		looped = mustEval(t, LoopNlerp, at, times, values, 1)
		bounded = mustEval(t, Nlerp, at, times, values, 0)
		if looped != bounded {
			t.Errorf("LoopNlerp at %g must equal Nlerp exactly: %v vs %v", at, looped, bounded)
		}
	}
}

func TestSlerpShortestArc(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q0 := aboutY(0)
	q1 := quat.Scale(-1, aboutY(90)) // same rotation, flipped sign
	q := blend(Slerp, q0, q1, 0.5)
	if !sameRotation(q, aboutY(45)) {
		t.Fatalf("slerp must take the shortest arc, got %v", q)
	}
}

func TestEvaluateRejectsEmptyTimes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Evaluate(Slerp, 0, nil, nil, 0)
	if !errors.Is(err, keyframe.ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestEvaluateRejectsLengthMismatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Evaluate(Slerp, 0, []float64{0, 1}, []quat.Number{aboutY(0)}, 0)
	if !errors.Is(err, keyframe.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestEvaluateRejectsOutOfRangeQuery(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1}
	values := []quat.Number{aboutY(0), aboutY(90)}
	if _, err := Evaluate(Slerp, 1.5, times, values, 0); !errors.Is(err, keyframe.ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange past final sample, got %v", err)
	}
	if _, err := Evaluate(Slerp, -0.5, times, values, 0); !errors.Is(err, keyframe.ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange before first sample, got %v", err)
	}
	if _, err := Evaluate(LoopSlerp, 2.5, times, values, 2); !errors.Is(err, keyframe.ErrTimeOutOfRange) {
		t.Fatalf("expected ErrTimeOutOfRange past duration, got %v", err)
	}
}

func TestEvaluateRejectsShortDuration(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2}
	values := []quat.Number{aboutY(0), aboutY(45), aboutY(90)}
	_, err := Evaluate(LoopSlerp, 1, times, values, 1.5)
	if !errors.Is(err, keyframe.ErrBadCycleDuration) {
		t.Fatalf("expected ErrBadCycleDuration, got %v", err)
	}
}

func TestInputsNotMutated(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q0 := aboutY(0)
	q1 := quat.Scale(-1, aboutY(90))
	times := []float64{0, 1}
	values := []quat.Number{q0, q1}
	mustEval(t, Slerp, 0.5, times, values, 0)
	if values[0] != q0 || values[1] != q1 {
		t.Fatalf("Evaluate mutated its inputs: %v", values)
	}
}
