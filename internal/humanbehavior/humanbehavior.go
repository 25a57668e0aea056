// Package humanbehavior provides pure, deterministic-given-a-source helpers
// for randomized scroll distances, wait durations, and pause decisions
// (spec.md §4.2). None of these functions perform I/O; the Scroll Engine is
// the only caller that turns their output into a suspension point.
package humanbehavior

import (
	"math/rand"

	"scrollreveal/internal/scrollconfig"
)

// WaitKind selects which configured range a wait time is sampled from.
type WaitKind int

const (
	WaitScroll WaitKind = iota
	WaitLoadMore
)

// Source is the injectable randomness source. *rand.Rand satisfies it, so
// tests can pass a seeded generator (or a fixed-sequence fake) for
// deterministic runs (spec.md §8, property 8).
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Helpers wraps a Source; the Configuration ranges it samples from are
// passed in on each call. It holds no mutable state of its own beyond the
// Source.
type Helpers struct {
	rng Source
}

// New constructs a Helpers using the standard library's global math/rand
// source, matching the teacher's human_behavior.go (rand.Intn/rand.Float64
// called directly) for production use.
func New() *Helpers {
	return &Helpers{rng: globalSource{}}
}

// NewWithSource constructs a Helpers around an injected Source, used by
// tests that need reproducible samples.
func NewWithSource(src Source) *Helpers {
	return &Helpers{rng: src}
}

type globalSource struct{}

func (globalSource) Intn(n int) int   { return rand.Intn(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// RandomInRange returns a uniform int in [min, max] inclusive. Panics if
// max < min, since that is a configuration bug the caller should have
// caught via scrollconfig.Validate.
func (h *Helpers) RandomInRange(min, max int) int {
	if max < min {
		panic("humanbehavior: max < min")
	}
	if max == min {
		return min
	}
	return min + h.rng.Intn(max-min+1)
}

// ScrollAmount samples a scroll distance in pixels from cfg.ScrollAmount.
func (h *Helpers) ScrollAmount(cfg scrollconfig.Range) int {
	return h.RandomInRange(cfg.Min, cfg.Max)
}

// WaitTime samples a wait duration in milliseconds from the range selected
// by kind: WaitScroll -> waitAfterScroll, WaitLoadMore -> loadMoreClickDelay.
func (h *Helpers) WaitTime(scroll, loadMore scrollconfig.Range, kind WaitKind) int {
	switch kind {
	case WaitLoadMore:
		return h.RandomInRange(loadMore.Min, loadMore.Max)
	default:
		return h.RandomInRange(scroll.Min, scroll.Max)
	}
}

// ShouldPause reports a Bernoulli(p) trial; the Engine calls this with
// p=0.10 once per iteration (spec.md §4.5 step 5).
func (h *Helpers) ShouldPause(p float64) bool {
	return h.rng.Float64() < p
}

// PauseDuration returns a uniform int in [500, 2000] milliseconds.
func (h *Helpers) PauseDuration() int {
	return h.RandomInRange(500, 2000)
}

// Jitter returns base scaled by a uniform factor in [1-pct, 1+pct], rounded
// to the nearest integer.
func (h *Helpers) Jitter(base int, pct float64) int {
	factor := 1 + (h.rng.Float64()*2-1)*pct
	return int(float64(base)*factor + 0.5)
}
