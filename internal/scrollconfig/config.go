// Package scrollconfig holds the immutable Configuration consumed by every
// other scrollreveal component, validated once at entry.
package scrollconfig

import (
	"fmt"
)

// DetectionMethod selects the Progress Detector's strategy.
type DetectionMethod string

const (
	DetectionItemCount    DetectionMethod = "itemCount"
	DetectionScrollHeight DetectionMethod = "scrollHeight"
	DetectionSentinel     DetectionMethod = "sentinel"
)

// ScrollStrategy selects how the Scroll Engine advances the viewport each
// iteration. Fixed for the lifetime of one Engine instance.
type ScrollStrategy string

const (
	// StrategyTriggerZone scrolls toward a point ~500px above the bottom of
	// the container, falling back to scroll-to-bottom when already close.
	StrategyTriggerZone ScrollStrategy = "triggerZone"
	// StrategySimple scrolls by a random amount sampled from ScrollAmount.
	StrategySimple ScrollStrategy = "simple"
)

// Range is an inclusive [Min, Max] bound used for randomized sampling.
type Range struct {
	Min int
	Max int
}

// Viewport is the rendering surface size.
type Viewport struct {
	Width  int
	Height int
}

// Configuration is the immutable, validated-once-at-entry configuration for
// a single load_page run. Zero value is not valid; use Defaults() plus
// overrides, or LoadFile to read from JSON/YAML.
type Configuration struct {
	ItemSelector       string          `json:"itemSelector,omitempty" yaml:"itemSelector,omitempty"`
	ScrollContainer    string          `json:"scrollContainer" yaml:"scrollContainer"`
	MaxScrollAttempts  int             `json:"maxScrollAttempts" yaml:"maxScrollAttempts"`
	MaxDurationSeconds int             `json:"maxDurationSeconds" yaml:"maxDurationSeconds"`
	ProgressTimeout    int             `json:"progressTimeout" yaml:"progressTimeout"`
	DetectionMethod    DetectionMethod `json:"detectionMethod" yaml:"detectionMethod"`
	SentinelSelector   string          `json:"sentinelSelector,omitempty" yaml:"sentinelSelector,omitempty"`
	ScrollAmount       Range           `json:"scrollAmount" yaml:"scrollAmount"`
	WaitAfterScroll    Range           `json:"waitAfterScroll" yaml:"waitAfterScroll"`
	WaitForContent     int             `json:"waitForContent" yaml:"waitForContent"`
	LoadMoreSelectors  []string        `json:"loadMoreSelectors,omitempty" yaml:"loadMoreSelectors,omitempty"`
	LoadMoreClickDelay Range           `json:"loadMoreClickDelay" yaml:"loadMoreClickDelay"`
	MaxLoadMoreClicks  int             `json:"maxLoadMoreClicks" yaml:"maxLoadMoreClicks"`
	Viewport           Viewport        `json:"viewport" yaml:"viewport"`
	// Headless is a pointer so Overlay can tell "not set by this caller"
	// (nil, keep whatever base/Defaults() already has) apart from an
	// explicit false. A plain bool can't carry that distinction since its
	// own zero value collides with a deliberate false override.
	Headless  *bool  `json:"headless,omitempty" yaml:"headless,omitempty"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	// Ambient additions (SPEC_FULL.md §5) — do not change core semantics.
	RespectRobotsTxt bool           `json:"respectRobotsTxt" yaml:"respectRobotsTxt"`
	ScrollStrategy   ScrollStrategy `json:"scrollStrategy" yaml:"scrollStrategy"`
	// EnableTimeline is a pointer for the same reason as Headless above.
	EnableTimeline *bool `json:"enableTimeline,omitempty" yaml:"enableTimeline,omitempty"`
}

// BoolPtr returns a pointer to b, for callers building a Configuration (or
// fileShape) literal that needs to set Headless/EnableTimeline explicitly.
func BoolPtr(b bool) *bool {
	return &b
}

// IsHeadless reports the effective headless setting, treating an unset
// Headless as the Defaults() value of true.
func (c *Configuration) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// TimelineEnabled reports the effective timeline setting, treating an
// unset EnableTimeline as the Defaults() value of true.
func (c *Configuration) TimelineEnabled() bool {
	return c.EnableTimeline == nil || *c.EnableTimeline
}

// Defaults returns library-default configuration values, the base that
// LoadWithOptions fills a partial Options struct over.
func Defaults() Configuration {
	return Configuration{
		ScrollContainer:    "window",
		MaxScrollAttempts:  50,
		MaxDurationSeconds: 120,
		ProgressTimeout:    5,
		DetectionMethod:    DetectionItemCount,
		ScrollAmount:       Range{Min: 300, Max: 800},
		WaitAfterScroll:    Range{Min: 500, Max: 1500},
		WaitForContent:     1000,
		LoadMoreClickDelay: Range{Min: 200, Max: 600},
		MaxLoadMoreClicks:  20,
		Viewport:           Viewport{Width: 1920, Height: 1080},
		Headless:           BoolPtr(true),
		ScrollStrategy:     StrategyTriggerZone,
		EnableTimeline:     BoolPtr(true),
	}
}

// Validate checks that every rule in SPEC_FULL.md §5 / spec.md §3 holds.
// Any violation returns a non-nil error; the caller should surface it as
// InvalidConfig and never construct an Engine.
func Validate(cfg *Configuration) error {
	if cfg.ScrollContainer == "" {
		return fmt.Errorf("scrollConfig: scrollContainer must be \"window\" or a CSS selector")
	}
	if cfg.MaxScrollAttempts < 0 {
		return fmt.Errorf("scrollConfig: maxScrollAttempts must be >= 0, got %d", cfg.MaxScrollAttempts)
	}
	if cfg.MaxDurationSeconds <= 0 {
		return fmt.Errorf("scrollConfig: maxDurationSeconds must be positive, got %d", cfg.MaxDurationSeconds)
	}
	if cfg.ProgressTimeout <= 0 {
		return fmt.Errorf("scrollConfig: progressTimeout must be positive, got %d", cfg.ProgressTimeout)
	}

	switch cfg.DetectionMethod {
	case DetectionItemCount, DetectionScrollHeight, DetectionSentinel:
	default:
		return fmt.Errorf("scrollConfig: unknown detectionMethod %q", cfg.DetectionMethod)
	}
	if cfg.DetectionMethod == DetectionSentinel && cfg.SentinelSelector == "" {
		// Not fatal per spec.md §4.3/§7 (DetectionFallback) — the detector
		// falls back to ITEM_COUNT at runtime and logs a warning, so this
		// combination is accepted here without an error.
	}

	if cfg.ScrollAmount.Min < 0 || cfg.ScrollAmount.Max < cfg.ScrollAmount.Min {
		return fmt.Errorf("scrollConfig: scrollAmount must satisfy 0 <= min <= max, got %+v", cfg.ScrollAmount)
	}
	if cfg.WaitAfterScroll.Min < 0 || cfg.WaitAfterScroll.Max < cfg.WaitAfterScroll.Min {
		return fmt.Errorf("scrollConfig: waitAfterScroll must satisfy 0 <= min <= max, got %+v", cfg.WaitAfterScroll)
	}
	if cfg.WaitForContent <= 0 {
		return fmt.Errorf("scrollConfig: waitForContent must be positive, got %d", cfg.WaitForContent)
	}
	if cfg.LoadMoreClickDelay.Min < 0 || cfg.LoadMoreClickDelay.Max < cfg.LoadMoreClickDelay.Min {
		return fmt.Errorf("scrollConfig: loadMoreClickDelay must satisfy 0 <= min <= max, got %+v", cfg.LoadMoreClickDelay)
	}
	if cfg.MaxLoadMoreClicks < 0 {
		return fmt.Errorf("scrollConfig: maxLoadMoreClicks must be >= 0, got %d", cfg.MaxLoadMoreClicks)
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return fmt.Errorf("scrollConfig: viewport dimensions must be positive, got %+v", cfg.Viewport)
	}

	switch cfg.ScrollStrategy {
	case "", StrategyTriggerZone, StrategySimple:
	default:
		return fmt.Errorf("scrollConfig: unknown scrollStrategy %q", cfg.ScrollStrategy)
	}

	return nil
}
