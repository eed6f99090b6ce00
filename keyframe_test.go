package keyframe

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if Zap(a) != 0 {
		t.Errorf("Expected Zap(a) to be 0, is %g", Zap(a))
	}
	if !Is1(1.00000002) {
		t.Errorf("Expected value near 1 to satisfy Is1")
	}
}

func TestCheckTimesEmpty(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if err := CheckTimes(nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestCheckTimesNotAscending(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	err := CheckTimes([]float64{0, 1, 1, 2})
	if !errors.Is(err, ErrTimesNotAscending) {
		t.Fatalf("expected ErrTimesNotAscending for duplicate time, got %v", err)
	}
	err = CheckTimes([]float64{0, 2, 1})
	if !errors.Is(err, ErrTimesNotAscending) {
		t.Fatalf("expected ErrTimesNotAscending for descending time, got %v", err)
	}
	if err = CheckTimes([]float64{-1, 0, 0.5, 10}); err != nil {
		t.Fatalf("expected ascending times to pass, got %v", err)
	}
}

func TestPrevIndex(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	times := []float64{0, 1, 2.5, 4}
	cases := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1}, // exact sample time resolves to that sample
		{2.4999, 1},
		{2.5, 2},
		{3.9, 2},
		{4, 3},
		{99, 3},
	}
	for _, c := range cases {
		if got := PrevIndex(times, c.t); got != c.want {
			t.Errorf("PrevIndex(%g) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestPrevIndexSingleSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if got := PrevIndex([]float64{3}, 3); got != 0 {
		t.Errorf("PrevIndex on single sample = %d, want 0", got)
	}
}
