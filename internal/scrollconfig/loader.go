package scrollconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileShape mirrors Configuration but with every field a pointer so a
// partially-specified file can be shallow-merged over Defaults() without
// zero values clobbering defaults (SPEC_FULL.md §8.2).
type fileShape struct {
	ItemSelector       *string          `json:"itemSelector" yaml:"itemSelector"`
	ScrollContainer    *string          `json:"scrollContainer" yaml:"scrollContainer"`
	MaxScrollAttempts  *int             `json:"maxScrollAttempts" yaml:"maxScrollAttempts"`
	MaxDurationSeconds *int             `json:"maxDurationSeconds" yaml:"maxDurationSeconds"`
	ProgressTimeout    *int             `json:"progressTimeout" yaml:"progressTimeout"`
	DetectionMethod    *DetectionMethod `json:"detectionMethod" yaml:"detectionMethod"`
	SentinelSelector   *string          `json:"sentinelSelector" yaml:"sentinelSelector"`
	ScrollAmount       *rangeShape      `json:"scrollAmount" yaml:"scrollAmount"`
	WaitAfterScroll    *rangeShape      `json:"waitAfterScroll" yaml:"waitAfterScroll"`
	WaitForContent     *int             `json:"waitForContent" yaml:"waitForContent"`
	LoadMoreSelectors  []string         `json:"loadMoreSelectors" yaml:"loadMoreSelectors"`
	LoadMoreClickDelay *rangeShape      `json:"loadMoreClickDelay" yaml:"loadMoreClickDelay"`
	MaxLoadMoreClicks  *int             `json:"maxLoadMoreClicks" yaml:"maxLoadMoreClicks"`
	Viewport           *viewportShape   `json:"viewport" yaml:"viewport"`
	Headless           *bool            `json:"headless" yaml:"headless"`
	UserAgent          *string          `json:"userAgent" yaml:"userAgent"`
	RespectRobotsTxt   *bool            `json:"respectRobotsTxt" yaml:"respectRobotsTxt"`
	ScrollStrategy     *ScrollStrategy  `json:"scrollStrategy" yaml:"scrollStrategy"`
	EnableTimeline     *bool            `json:"enableTimeline" yaml:"enableTimeline"`
}

type rangeShape struct {
	Min *int `json:"min" yaml:"min"`
	Max *int `json:"max" yaml:"max"`
}

type viewportShape struct {
	Width  *int `json:"width" yaml:"width"`
	Height *int `json:"height" yaml:"height"`
}

// LoadFile reads a JSON or YAML configuration file (by extension) and
// shallow-merges it over Defaults(). Unknown keys are accepted and ignored,
// per SPEC_FULL.md §8.2.
func LoadFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("scrollConfig: read %s: %w", path, err)
	}

	var fs fileShape
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fs); err != nil {
			return Configuration{}, fmt.Errorf("scrollConfig: parse YAML %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fs); err != nil {
			return Configuration{}, fmt.Errorf("scrollConfig: parse JSON %s: %w", path, err)
		}
	default:
		// Unknown extension: try JSON first, then YAML, to be forgiving
		// about files without a conventional suffix.
		if err := json.Unmarshal(data, &fs); err != nil {
			if yerr := yaml.Unmarshal(data, &fs); yerr != nil {
				return Configuration{}, fmt.Errorf("scrollConfig: %s is neither valid JSON nor YAML: %w", path, err)
			}
		}
	}

	cfg := Defaults()
	mergeFile(&cfg, &fs)
	return cfg, nil
}

// mergeFile shallow-merges a partially populated fileShape over cfg.
// Nested objects (scrollAmount, waitAfterScroll, viewport) merge field by
// field; every other key fully replaces the default when present.
func mergeFile(cfg *Configuration, fs *fileShape) {
	if fs.ItemSelector != nil {
		cfg.ItemSelector = *fs.ItemSelector
	}
	if fs.ScrollContainer != nil {
		cfg.ScrollContainer = *fs.ScrollContainer
	}
	if fs.MaxScrollAttempts != nil {
		cfg.MaxScrollAttempts = *fs.MaxScrollAttempts
	}
	if fs.MaxDurationSeconds != nil {
		cfg.MaxDurationSeconds = *fs.MaxDurationSeconds
	}
	if fs.ProgressTimeout != nil {
		cfg.ProgressTimeout = *fs.ProgressTimeout
	}
	if fs.DetectionMethod != nil {
		cfg.DetectionMethod = *fs.DetectionMethod
	}
	if fs.SentinelSelector != nil {
		cfg.SentinelSelector = *fs.SentinelSelector
	}
	if fs.ScrollAmount != nil {
		if fs.ScrollAmount.Min != nil {
			cfg.ScrollAmount.Min = *fs.ScrollAmount.Min
		}
		if fs.ScrollAmount.Max != nil {
			cfg.ScrollAmount.Max = *fs.ScrollAmount.Max
		}
	}
	if fs.WaitAfterScroll != nil {
		if fs.WaitAfterScroll.Min != nil {
			cfg.WaitAfterScroll.Min = *fs.WaitAfterScroll.Min
		}
		if fs.WaitAfterScroll.Max != nil {
			cfg.WaitAfterScroll.Max = *fs.WaitAfterScroll.Max
		}
	}
	if fs.WaitForContent != nil {
		cfg.WaitForContent = *fs.WaitForContent
	}
	if fs.LoadMoreSelectors != nil {
		cfg.LoadMoreSelectors = fs.LoadMoreSelectors
	}
	if fs.LoadMoreClickDelay != nil {
		if fs.LoadMoreClickDelay.Min != nil {
			cfg.LoadMoreClickDelay.Min = *fs.LoadMoreClickDelay.Min
		}
		if fs.LoadMoreClickDelay.Max != nil {
			cfg.LoadMoreClickDelay.Max = *fs.LoadMoreClickDelay.Max
		}
	}
	if fs.MaxLoadMoreClicks != nil {
		cfg.MaxLoadMoreClicks = *fs.MaxLoadMoreClicks
	}
	if fs.Viewport != nil {
		if fs.Viewport.Width != nil {
			cfg.Viewport.Width = *fs.Viewport.Width
		}
		if fs.Viewport.Height != nil {
			cfg.Viewport.Height = *fs.Viewport.Height
		}
	}
	if fs.Headless != nil {
		cfg.Headless = fs.Headless
	}
	if fs.UserAgent != nil {
		cfg.UserAgent = *fs.UserAgent
	}
	if fs.RespectRobotsTxt != nil {
		cfg.RespectRobotsTxt = *fs.RespectRobotsTxt
	}
	if fs.ScrollStrategy != nil {
		cfg.ScrollStrategy = *fs.ScrollStrategy
	}
	if fs.EnableTimeline != nil {
		cfg.EnableTimeline = fs.EnableTimeline
	}
}
