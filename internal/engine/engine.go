// Package engine implements the Scroll Engine (spec.md §4.5): the
// single-threaded cooperative loop that drives scroll, wait, click, and
// observe steps to completion. It is the only component that sequences the
// other four (Adapter, Helpers, Detector, Load-More Handler) and owns the
// iteration/timing state and the stop decision.
package engine

import (
	"context"
	"sync"
	"time"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/detector"
	"scrollreveal/internal/humanbehavior"
	"scrollreveal/internal/loadmore"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
	"scrollreveal/internal/timeline"
)

// pauseProbability is the per-iteration chance of an extra human-like pause
// (spec.md §4.5 step 5).
const pauseProbability = 0.10

// triggerZoneMargin and triggerZoneThreshold are the "trigger-zone"
// scrolling strategy's fixed constants (spec.md §4.5 step 3).
const triggerZoneMargin = 500
const triggerZoneThreshold = 100

// Stats is the final statistics block every run produces (spec.md §4.5).
type Stats struct {
	ScrollAttempts     int                       `json:"scrollAttempts"`
	MaxScrollAttempts  int                       `json:"maxScrollAttempts"`
	DurationSeconds    float64                   `json:"durationSeconds"`
	MaxDurationSeconds int                       `json:"maxDurationSeconds"`
	FinalItemCount     int                       `json:"finalItemCount"`
	FinalScrollHeight  int                       `json:"finalScrollHeight"`
	LoadMoreClicks     int                       `json:"loadMoreClicks"`
	DetectionMethod    scrollconfig.DetectionMethod `json:"detectionMethod"`
	StoppedReason      string                    `json:"stoppedReason"`
}

// Result is run()'s return shape (spec.md §4.5).
type Result struct {
	Success  bool
	HTML     string
	Stats    Stats
	Err      error
	Timeline []timeline.Event
}

// Engine is the Scroll Engine. Created per run; never reused across URLs
// (spec.md §3 Lifecycles).
type Engine struct {
	adapter  browser.Adapter
	cfg      *scrollconfig.Configuration
	helpers  *humanbehavior.Helpers
	detector *detector.Detector
	loadMore *loadmore.Handler
	log      *scrolllog.Logger
	timeline *timeline.Recorder

	mu            sync.Mutex
	stopRequested bool

	scrollAttempts  int
	startTime       time.Time
	buttonFirstMode bool
}

// New constructs an Engine around an initialized, navigated Adapter. cfg
// must already be Validate()d.
func New(adapter browser.Adapter, cfg *scrollconfig.Configuration, log *scrolllog.Logger) *Engine {
	helpers := humanbehavior.New()
	return &Engine{
		adapter:  adapter,
		cfg:      cfg,
		helpers:  helpers,
		detector: detector.New(adapter, cfg, log),
		loadMore: loadmore.New(adapter, cfg, helpers, log),
		log:      log,
		timeline: timeline.New(cfg.TimelineEnabled(), log.Sink()),
	}
}

// Stop cancels the currently running engine (spec.md §6 stop()). Safe to
// call from any goroutine; the Engine observes it at the top of each
// iteration, after the scroll step, and after the post-scroll waits.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopRequested = true
	e.mu.Unlock()
}

func (e *Engine) stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopRequested
}

// Run executes the Engine's state machine to completion: INIT -> RUNNING ->
// {STOPPING, FAILED} -> TERMINATED. Calling Run a second time on the same
// Engine is undefined, per spec.md §4.5.
func (e *Engine) Run(ctx context.Context) Result {
	if err := e.detector.Initialize(ctx); err != nil {
		return e.fail(err)
	}
	e.startTime = time.Now()
	e.scrollAttempts = 0
	e.buttonFirstMode = false
	e.loadMore.Reset()
	e.log.Info("scroll engine starting: max_attempts=%d max_duration=%ds detection=%s",
		e.cfg.MaxScrollAttempts, e.cfg.MaxDurationSeconds, e.cfg.DetectionMethod)

	for {
		if e.stopped() {
			return e.terminate(true, "external stop")
		}
		if e.scrollAttempts >= e.cfg.MaxScrollAttempts {
			return e.terminate(true, "Maximum scroll attempts reached")
		}

		if e.buttonFirstMode {
			clicked, err := e.attemptLoadMoreClick(ctx)
			if err != nil {
				return e.fail(err)
			}
			if clicked {
				res, stop, err := e.observeProgress(ctx)
				if err != nil {
					return e.fail(err)
				}
				e.scrollAttempts++
				if stop {
					return e.terminate(true, res)
				}
				continue
			}
			e.buttonFirstMode = false
		}

		if err := e.scrollStep(ctx); err != nil {
			return e.fail(err)
		}
		if e.stopped() {
			return e.terminate(true, "external stop")
		}

		if err := e.adapter.WaitFor(ctx, msDuration(e.helpers.WaitTime(e.cfg.WaitAfterScroll, e.cfg.LoadMoreClickDelay, humanbehavior.WaitScroll))); err != nil {
			return e.fail(err)
		}
		if e.helpers.ShouldPause(pauseProbability) {
			if err := e.adapter.WaitFor(ctx, msDuration(e.helpers.PauseDuration())); err != nil {
				return e.fail(err)
			}
		}
		if err := e.adapter.WaitFor(ctx, msDuration(e.cfg.WaitForContent)); err != nil {
			return e.fail(err)
		}
		if e.stopped() {
			return e.terminate(true, "external stop")
		}

		clicked, err := e.attemptLoadMoreClick(ctx)
		if err != nil {
			return e.fail(err)
		}
		if clicked {
			e.buttonFirstMode = true
		}

		res, stop, err := e.observeProgress(ctx)
		if err != nil {
			return e.fail(err)
		}
		e.scrollAttempts++
		if stop {
			return e.terminate(true, res)
		}
	}
}

// scrollStep advances the viewport per cfg.ScrollStrategy and records a
// SCROLL_BATCH timeline event (spec.md §4.5 step 3).
func (e *Engine) scrollStep(ctx context.Context) error {
	var px int

	switch e.cfg.ScrollStrategy {
	case scrollconfig.StrategySimple:
		px = e.helpers.ScrollAmount(e.cfg.ScrollAmount)
		if err := e.adapter.ScrollBy(ctx, px, e.cfg.ScrollContainer); err != nil {
			return err
		}
	default: // StrategyTriggerZone, "" default
		height, err := e.adapter.GetScrollHeight(ctx, e.cfg.ScrollContainer)
		if err != nil {
			return err
		}
		pos, err := e.adapter.GetScrollPosition(ctx, e.cfg.ScrollContainer)
		if err != nil {
			return err
		}
		target := height - e.cfg.Viewport.Height - triggerZoneMargin
		if target < 0 {
			target = 0
		}
		if target-pos > triggerZoneThreshold {
			px = target - pos
			if err := e.adapter.ScrollBy(ctx, px, e.cfg.ScrollContainer); err != nil {
				return err
			}
		} else {
			if err := e.adapter.ScrollToBottom(ctx, e.cfg.ScrollContainer); err != nil {
				return err
			}
			px = 0
		}
	}

	e.timeline.Record(timeline.Event{
		Kind:                 timeline.KindScrollBatch,
		ScrollCount:          e.scrollAttempts,
		TimestampMsFromStart: e.elapsedMs(),
		ScrollPx:             px,
	})
	return nil
}

// attemptLoadMoreClick invokes the Load-More Handler, records a BUTTON_CLICK
// timeline event and a non-fatal LoadMoreClickFailed warning on a failed
// click, and re-waits wait_for_content on success (spec.md §4.5 step 7).
func (e *Engine) attemptLoadMoreClick(ctx context.Context) (bool, error) {
	res, err := e.loadMore.CheckAndClick(ctx)
	if err != nil {
		return false, err
	}
	if !res.Clicked {
		if res.Selector != "" {
			e.log.Warn("load-more click on %q failed: %s", res.Selector, res.Reason)
		}
		return false, nil
	}

	e.timeline.Record(timeline.Event{
		Kind:                 timeline.KindButtonClick,
		ScrollCount:          e.scrollAttempts,
		TimestampMsFromStart: e.elapsedMs(),
		Selector:             res.Selector,
	})
	if err := e.adapter.WaitFor(ctx, msDuration(e.cfg.WaitForContent)); err != nil {
		return false, err
	}
	return true, nil
}

// observeProgress runs the Progress Detector (spec.md §4.5 step 8) and
// records a HEIGHT_CHANGE timeline event whenever the scrollHeight the
// detector reports differs from its previous observation. The detector
// re-reads scrollHeight only under detection_method=scrollHeight, so the
// itemCount and sentinel methods record no HEIGHT_CHANGE events.
func (e *Engine) observeProgress(ctx context.Context) (reason string, stop bool, err error) {
	beforeHeight := e.detector.LastScrollHeight()

	res, err := e.detector.CheckProgress(ctx)
	if err != nil {
		return "", false, err
	}
	if res.ScrollHeight != beforeHeight {
		e.timeline.Record(timeline.Event{
			Kind:                 timeline.KindHeightChange,
			ScrollCount:          e.scrollAttempts,
			TimestampMsFromStart: e.elapsedMs(),
			FromHeight:           beforeHeight,
			ToHeight:             res.ScrollHeight,
		})
	}
	return res.Reason, res.ShouldStop, nil
}

func (e *Engine) elapsedMs() int64 { return time.Since(e.startTime).Milliseconds() }

// terminate implements STOPPING -> TERMINATED: capture the HTML snapshot and
// assemble stats.
func (e *Engine) terminate(success bool, reason string) Result {
	html, err := e.adapter.GetPageContent(context.Background())
	if err != nil {
		return e.fail(err)
	}
	return Result{
		Success:  success,
		HTML:     html,
		Stats:    e.buildStats(reason),
		Timeline: e.timeline.Events(),
	}
}

// fail implements RUNNING -> FAILED -> TERMINATED: no HTML snapshot, the
// error is recorded, and partial stats are still returned for diagnostics.
func (e *Engine) fail(err error) Result {
	e.log.Error("scroll engine: %v", err)
	return Result{
		Success:  false,
		Err:      err,
		Stats:    e.buildStats("failed: " + err.Error()),
		Timeline: e.timeline.Events(),
	}
}

func (e *Engine) buildStats(reason string) Stats {
	return Stats{
		ScrollAttempts:     e.scrollAttempts,
		MaxScrollAttempts:  e.cfg.MaxScrollAttempts,
		DurationSeconds:    roundToTenth(time.Since(e.startTime).Seconds()),
		MaxDurationSeconds: e.cfg.MaxDurationSeconds,
		FinalItemCount:     e.detector.MaxItemCount(),
		FinalScrollHeight:  e.detector.LastScrollHeight(),
		LoadMoreClicks:     e.loadMore.ClickCount(),
		DetectionMethod:    e.cfg.DetectionMethod,
		StoppedReason:      reason,
	}
}

func roundToTenth(seconds float64) float64 {
	return float64(int(seconds*10+0.5)) / 10
}

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
