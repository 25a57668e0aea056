package scrollconfig

// Overlay applies override onto base, field by field, skipping any field
// left at its Go zero value in override. This is how LoadWithOptions fills
// spec.md §6's "options is a subset of Configuration with library defaults
// filled in" — the caller passes only the fields they care about and
// Defaults() supplies the rest. Headless and EnableTimeline are pointers
// specifically so this can tell "not set by the caller" (nil) apart from
// an explicit false, since both default to true and a plain bool's zero
// value would otherwise be indistinguishable from a deliberate override.
func Overlay(base *Configuration, override Configuration) {
	if override.ItemSelector != "" {
		base.ItemSelector = override.ItemSelector
	}
	if override.ScrollContainer != "" {
		base.ScrollContainer = override.ScrollContainer
	}
	if override.MaxScrollAttempts != 0 {
		base.MaxScrollAttempts = override.MaxScrollAttempts
	}
	if override.MaxDurationSeconds != 0 {
		base.MaxDurationSeconds = override.MaxDurationSeconds
	}
	if override.ProgressTimeout != 0 {
		base.ProgressTimeout = override.ProgressTimeout
	}
	if override.DetectionMethod != "" {
		base.DetectionMethod = override.DetectionMethod
	}
	if override.SentinelSelector != "" {
		base.SentinelSelector = override.SentinelSelector
	}
	if override.ScrollAmount != (Range{}) {
		base.ScrollAmount = override.ScrollAmount
	}
	if override.WaitAfterScroll != (Range{}) {
		base.WaitAfterScroll = override.WaitAfterScroll
	}
	if override.WaitForContent != 0 {
		base.WaitForContent = override.WaitForContent
	}
	if override.LoadMoreSelectors != nil {
		base.LoadMoreSelectors = override.LoadMoreSelectors
	}
	if override.LoadMoreClickDelay != (Range{}) {
		base.LoadMoreClickDelay = override.LoadMoreClickDelay
	}
	if override.MaxLoadMoreClicks != 0 {
		base.MaxLoadMoreClicks = override.MaxLoadMoreClicks
	}
	if override.Viewport != (Viewport{}) {
		base.Viewport = override.Viewport
	}
	if override.Headless != nil {
		base.Headless = override.Headless
	}
	if override.UserAgent != "" {
		base.UserAgent = override.UserAgent
	}
	if override.RespectRobotsTxt {
		base.RespectRobotsTxt = true
	}
	if override.ScrollStrategy != "" {
		base.ScrollStrategy = override.ScrollStrategy
	}
	if override.EnableTimeline != nil {
		base.EnableTimeline = override.EnableTimeline
	}
}
