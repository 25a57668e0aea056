// Package detector implements the Progress Detector (spec.md §4.3): a
// stateful observer that decides, once per scroll iteration, whether the
// last iteration produced progress and whether the loop should stop.
// SPEC_FULL.md's REDESIGN FLAGS replace the source's per-strategy
// polymorphism with a single CheckProgress switching on DetectionMethod —
// the three strategies share no_progress_count/timestamps and must never
// diverge.
package detector

import (
	"context"
	"time"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

// Result is check_progress()'s return shape (spec.md §4.3).
type Result struct {
	HasProgress bool
	ShouldStop  bool
	Reason      string
	// Stats snapshots the values this check observed, for the Engine's
	// final-stats assembly.
	ItemCount    int
	ScrollHeight int
}

// Detector is the stateful Progress Detector, owned exclusively by one
// Engine instance for the lifetime of one run.
type Detector struct {
	adapter browser.Adapter
	cfg     *scrollconfig.Configuration
	log     *scrolllog.Logger

	lastItemCount    int
	maxItemCount     int
	lastScrollHeight int
	noProgressCount  int
	lastProgressTime time.Time
	startTime        time.Time

	// sentinelFallbackWarned ensures the DetectionFallback warning (spec.md
	// §7) logs once per run rather than once per iteration.
	sentinelFallbackWarned bool
}

// New constructs a Detector. cfg must already be Validate()d.
func New(adapter browser.Adapter, cfg *scrollconfig.Configuration, log *scrolllog.Logger) *Detector {
	return &Detector{adapter: adapter, cfg: cfg, log: log}
}

// Initialize captures the first observation (spec.md §4.3 edge case: first
// iteration's last_item_count/last_scroll_height are set here, once, after
// navigation settles — NOT by the first CheckProgress call).
func (d *Detector) Initialize(ctx context.Context) error {
	d.startTime = time.Now()
	d.lastProgressTime = d.startTime
	d.noProgressCount = 0
	d.sentinelFallbackWarned = false

	itemCount, err := d.currentItemCount(ctx)
	if err != nil {
		return err
	}
	height, err := d.currentScrollHeight(ctx)
	if err != nil {
		return err
	}
	d.lastItemCount = itemCount
	d.maxItemCount = itemCount
	d.lastScrollHeight = height
	return nil
}

func (d *Detector) currentItemCount(ctx context.Context) (int, error) {
	if d.cfg.ItemSelector == "" {
		return 0, nil
	}
	return d.adapter.GetItemCount(ctx, d.cfg.ItemSelector)
}

func (d *Detector) currentScrollHeight(ctx context.Context) (int, error) {
	return d.adapter.GetScrollHeight(ctx, d.cfg.ScrollContainer)
}

// CheckProgress runs the detection algorithm selected by
// cfg.DetectionMethod, then applies the max-duration overlay. Called
// exactly once per scroll iteration, after the content-wait.
func (d *Detector) CheckProgress(ctx context.Context) (Result, error) {
	var res Result
	var err error

	switch d.cfg.DetectionMethod {
	case scrollconfig.DetectionScrollHeight:
		res, err = d.checkScrollHeight(ctx)
	case scrollconfig.DetectionSentinel:
		res, err = d.checkSentinel(ctx)
	default:
		res, err = d.checkItemCount(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	if time.Since(d.startTime) >= time.Duration(d.cfg.MaxDurationSeconds)*time.Second {
		res.ShouldStop = true
		res.Reason = "Maximum duration reached"
	}
	return res, nil
}

// checkItemCount implements spec.md §4.3 ITEM_COUNT: strictly-greater counts
// as progress; a decrease (virtual scrolling unmounting old items) counts as
// no-progress, never resets the counter.
func (d *Detector) checkItemCount(ctx context.Context) (Result, error) {
	count, err := d.currentItemCount(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{ItemCount: count, ScrollHeight: d.lastScrollHeight}
	if count > d.lastItemCount {
		res.HasProgress = true
		d.noProgressCount = 0
		d.lastProgressTime = time.Now()
	} else {
		d.noProgressCount++
	}
	d.lastItemCount = count
	if count > d.maxItemCount {
		d.maxItemCount = count
	}

	res.ShouldStop = d.noProgressCount >= d.cfg.ProgressTimeout
	if res.ShouldStop {
		res.Reason = "No progress detected"
	}
	return res, nil
}

// checkScrollHeight implements spec.md §4.3 SCROLL_HEIGHT: same shape as
// ITEM_COUNT over the configured container's scrollHeight.
func (d *Detector) checkScrollHeight(ctx context.Context) (Result, error) {
	height, err := d.currentScrollHeight(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{ItemCount: d.lastItemCount, ScrollHeight: height}
	if height > d.lastScrollHeight {
		res.HasProgress = true
		d.noProgressCount = 0
		d.lastProgressTime = time.Now()
	} else {
		d.noProgressCount++
	}
	d.lastScrollHeight = height

	res.ShouldStop = d.noProgressCount >= d.cfg.ProgressTimeout
	if res.ShouldStop {
		res.Reason = "No progress detected"
	}
	return res, nil
}

// checkSentinel implements spec.md §4.3 SENTINEL: without a configured
// selector it logs once and falls back to ITEM_COUNT for every call (not
// just this one, since there is nothing else to check). With a selector, a
// visible sentinel stops the run; otherwise it falls back to ITEM_COUNT so
// the no-progress counters keep advancing.
func (d *Detector) checkSentinel(ctx context.Context) (Result, error) {
	if d.cfg.SentinelSelector == "" {
		if !d.sentinelFallbackWarned {
			d.log.Warn("detection_method=sentinel requires sentinelSelector; falling back to itemCount")
			d.sentinelFallbackWarned = true
		}
		return d.checkItemCount(ctx)
	}

	visible, err := d.adapter.IsElementVisible(ctx, d.cfg.SentinelSelector)
	if err != nil {
		return Result{}, err
	}
	if visible {
		return Result{
			ShouldStop:   true,
			Reason:       "End of content sentinel detected",
			ItemCount:    d.lastItemCount,
			ScrollHeight: d.lastScrollHeight,
		}, nil
	}
	return d.checkItemCount(ctx)
}

// NoProgressCount exposes the current consecutive no-progress streak, used
// by the Engine only for diagnostics/stats, never to make stop decisions
// itself (that's CheckProgress's job).
func (d *Detector) NoProgressCount() int { return d.noProgressCount }

// LastItemCount and LastScrollHeight expose the detector's last observation
// for the Engine's final stats assembly.
func (d *Detector) LastItemCount() int    { return d.lastItemCount }
func (d *Detector) LastScrollHeight() int { return d.lastScrollHeight }

// MaxItemCount returns the highest item count observed over the run. Virtual
// scrolling can unmount items so the last observation drops below an earlier
// one; the Engine reports this instead of LastItemCount so
// stats.final_item_count never falls below the count Initialize captured.
func (d *Detector) MaxItemCount() int { return d.maxItemCount }
