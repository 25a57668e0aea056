package humanbehavior

import (
	"testing"

	"scrollreveal/internal/scrollconfig"
)

// fakeSource returns scripted Intn results in order and a fixed Float64.
type fakeSource struct {
	intns  []int
	pos    int
	fixedF float64
}

func (f *fakeSource) Intn(n int) int {
	v := f.intns[f.pos%len(f.intns)]
	f.pos++
	if v >= n {
		v = n - 1
	}
	return v
}

func (f *fakeSource) Float64() float64 { return f.fixedF }

func TestRandomInRangeBounds(t *testing.T) {
	h := NewWithSource(&fakeSource{intns: []int{0}})
	if got := h.RandomInRange(10, 10); got != 10 {
		t.Errorf("min==max should short-circuit to that value, got %d", got)
	}
}

func TestScrollAmountExactWhenMinEqualsMax(t *testing.T) {
	h := NewWithSource(&fakeSource{intns: []int{999}})
	r := scrollconfig.Range{Min: 42, Max: 42}
	for i := 0; i < 5; i++ {
		if got := h.ScrollAmount(r); got != 42 {
			t.Errorf("ScrollAmount with fixed range = %d, want 42 (testable property 13)", got)
		}
	}
}

func TestShouldPauseThreshold(t *testing.T) {
	below := NewWithSource(&fakeSource{fixedF: 0.05})
	if !below.ShouldPause(0.10) {
		t.Error("Float64()=0.05 < p=0.10 should pause")
	}
	above := NewWithSource(&fakeSource{fixedF: 0.50})
	if above.ShouldPause(0.10) {
		t.Error("Float64()=0.50 >= p=0.10 should not pause")
	}
}

func TestPauseDurationRange(t *testing.T) {
	h := NewWithSource(&fakeSource{intns: []int{0, 1500}})
	got := h.PauseDuration()
	if got < 500 || got > 2000 {
		t.Errorf("PauseDuration() = %d, want within [500, 2000]", got)
	}
}

func TestWaitTimeSelectsRangeByKind(t *testing.T) {
	h := NewWithSource(&fakeSource{intns: []int{0}})
	scroll := scrollconfig.Range{Min: 10, Max: 10}
	loadMore := scrollconfig.Range{Min: 20, Max: 20}

	if got := h.WaitTime(scroll, loadMore, WaitScroll); got != 10 {
		t.Errorf("WaitScroll should sample scroll range, got %d", got)
	}
	if got := h.WaitTime(scroll, loadMore, WaitLoadMore); got != 20 {
		t.Errorf("WaitLoadMore should sample loadMore range, got %d", got)
	}
}

func TestJitterAtZeroPercentIsExact(t *testing.T) {
	h := NewWithSource(&fakeSource{fixedF: 0.5}) // midpoint -> factor 1.0 regardless of pct
	if got := h.Jitter(100, 0); got != 100 {
		t.Errorf("Jitter(100, 0) = %d, want 100", got)
	}
}
