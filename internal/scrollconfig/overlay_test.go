package scrollconfig

import "testing"

func TestOverlayLeavesHeadlessAtDefaultWhenUnset(t *testing.T) {
	base := Defaults()
	Overlay(&base, Configuration{})
	if !base.IsHeadless() {
		t.Error("an unset override.Headless must not clobber the true default")
	}
}

func TestOverlayHonorsExplicitHeadlessFalse(t *testing.T) {
	base := Defaults()
	Overlay(&base, Configuration{Headless: BoolPtr(false)})
	if base.IsHeadless() {
		t.Error("an explicit Headless=false override should be honored")
	}
}

func TestOverlayHonorsExplicitHeadlessTrue(t *testing.T) {
	base := Defaults()
	*base.Headless = false
	Overlay(&base, Configuration{Headless: BoolPtr(true)})
	if !base.IsHeadless() {
		t.Error("an explicit Headless=true override should be honored")
	}
}

func TestOverlayLeavesEnableTimelineAtDefaultWhenUnset(t *testing.T) {
	base := Defaults()
	Overlay(&base, Configuration{})
	if !base.TimelineEnabled() {
		t.Error("an unset override.EnableTimeline must not clobber the true default")
	}
}

func TestOverlayHonorsExplicitEnableTimelineFalse(t *testing.T) {
	base := Defaults()
	Overlay(&base, Configuration{EnableTimeline: BoolPtr(false)})
	if base.TimelineEnabled() {
		t.Error("an explicit EnableTimeline=false override should be honored")
	}
}

func TestOverlayMergesNonBoolFields(t *testing.T) {
	base := Defaults()
	Overlay(&base, Configuration{ItemSelector: ".card", MaxScrollAttempts: 10})
	if base.ItemSelector != ".card" {
		t.Errorf("itemSelector = %q, want .card", base.ItemSelector)
	}
	if base.MaxScrollAttempts != 10 {
		t.Errorf("maxScrollAttempts = %d, want 10", base.MaxScrollAttempts)
	}
	if !base.IsHeadless() {
		t.Error("fields left unset in override should not disturb Headless")
	}
}
