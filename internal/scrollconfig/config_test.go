package scrollconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
}

func TestValidateRejectsBadScrollAmount(t *testing.T) {
	cfg := Defaults()
	cfg.ScrollAmount = Range{Min: 500, Max: 100}
	if err := Validate(&cfg); err == nil {
		t.Error("expected error for max < min")
	}
}

func TestValidateRejectsZeroMaxDuration(t *testing.T) {
	cfg := Defaults()
	cfg.MaxDurationSeconds = 0
	if err := Validate(&cfg); err == nil {
		t.Error("expected error for non-positive maxDurationSeconds")
	}
}

func TestValidateAllowsZeroMaxScrollAttempts(t *testing.T) {
	cfg := Defaults()
	cfg.MaxScrollAttempts = 0
	if err := Validate(&cfg); err != nil {
		t.Errorf("maxScrollAttempts=0 should be a valid boundary, got: %v", err)
	}
}

func TestValidateRejectsUnknownDetectionMethod(t *testing.T) {
	cfg := Defaults()
	cfg.DetectionMethod = "bogus"
	if err := Validate(&cfg); err == nil {
		t.Error("expected error for unknown detectionMethod")
	}
}

func TestLoadFileJSONMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	body := `{"itemSelector": ".card", "maxScrollAttempts": 5, "scrollAmount": {"min": 100}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ItemSelector != ".card" {
		t.Errorf("itemSelector = %q, want .card", cfg.ItemSelector)
	}
	if cfg.MaxScrollAttempts != 5 {
		t.Errorf("maxScrollAttempts = %d, want 5", cfg.MaxScrollAttempts)
	}
	if cfg.ScrollAmount.Min != 100 {
		t.Errorf("scrollAmount.min = %d, want 100 (shallow merge)", cfg.ScrollAmount.Min)
	}
	if cfg.ScrollAmount.Max != Defaults().ScrollAmount.Max {
		t.Errorf("scrollAmount.max should still be the default, got %d", cfg.ScrollAmount.Max)
	}
	if !cfg.IsHeadless() {
		t.Error("headless should retain its default of true")
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := "detectionMethod: sentinel\nsentinelSelector: \".end\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DetectionMethod != DetectionSentinel {
		t.Errorf("detectionMethod = %q, want sentinel", cfg.DetectionMethod)
	}
	if cfg.SentinelSelector != ".end" {
		t.Errorf("sentinelSelector = %q, want .end", cfg.SentinelSelector)
	}
}

func TestLoadFileUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	body := `{"itemSelector": ".card", "somethingWeDoNotKnow": 42}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err != nil {
		t.Fatalf("unknown keys should be ignored, got error: %v", err)
	}
}
