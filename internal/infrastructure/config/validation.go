package config

import (
	"fmt"
	"strings"

	"github.com/bnema/termdeck/internal/application/input"
	"github.com/bnema/termdeck/internal/domain/layout"
)

// validateConfig collects every problem so a single run reports them all.
func validateConfig(cfg *Config) error {
	var problems []string

	problems = append(problems, validateLogging(cfg)...)
	problems = append(problems, validateTerminal(cfg)...)
	problems = append(problems, validateLayout(cfg)...)
	problems = append(problems, validateBrowser(cfg)...)
	problems = append(problems, validateHotkeys(cfg)...)

	if cfg.Viewer.MaxFileSize <= 0 {
		problems = append(problems, "viewer.max_file_size must be positive")
	}
	if cfg.Session.SnapshotIntervalMs < 0 {
		problems = append(problems, "session.snapshot_interval_ms must be non-negative")
	}
	if cfg.TickIntervalMs < 5 || cfg.TickIntervalMs > 1000 {
		problems = append(problems, "tick_interval_ms must be between 5 and 1000")
	}
	switch cfg.OnLastPaneClosed {
	case LastPaneQuit, LastPaneRespawn:
	default:
		problems = append(problems, fmt.Sprintf("on_last_pane_closed must be %q or %q, got %q", LastPaneQuit, LastPaneRespawn, cfg.OnLastPaneClosed))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func validateLogging(cfg *Config) []string {
	var problems []string
	switch cfg.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not a log level", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, "logging.format must be console or json")
	}
	if cfg.Logging.MaxSizeMB < 0 {
		problems = append(problems, "logging.max_size_mb must be non-negative")
	}
	return problems
}

func validateTerminal(cfg *Config) []string {
	var problems []string
	if cfg.Terminal.Scrollback < 0 {
		problems = append(problems, "terminal.scrollback must be non-negative")
	}
	if cfg.Terminal.InputQueue < 1 {
		problems = append(problems, "terminal.input_queue must be at least 1")
	}
	if cfg.Terminal.Term == "" {
		problems = append(problems, "terminal.term must not be empty")
	}
	return problems
}

func validateLayout(cfg *Config) []string {
	var problems []string
	l := cfg.Layout
	if l.MinRatio <= 0 || l.MinRatio >= 0.5 {
		problems = append(problems, "layout.min_ratio must be in (0, 0.5)")
	}
	if l.MaxRatio <= 0.5 || l.MaxRatio >= 1 {
		problems = append(problems, "layout.max_ratio must be in (0.5, 1)")
	}
	if l.BorderMargin < 1 {
		problems = append(problems, "layout.border_margin must be at least 1")
	}
	if _, ok := layout.PolicyByName(l.ViewerPolicy, l.ShrinkShare, l.CollapseIndicator); !ok {
		problems = append(problems, fmt.Sprintf("layout.viewer_policy %q must be stored, shrink or collapse", l.ViewerPolicy))
	}
	if l.ShrinkShare <= 0 || l.ShrinkShare >= 1 {
		problems = append(problems, "layout.shrink_share must be in (0, 1)")
	}
	if l.CollapseIndicator < 1 {
		problems = append(problems, "layout.collapse_indicator must be at least 1")
	}
	if l.PanelRatio < l.MinRatio || l.PanelRatio > l.MaxRatio {
		problems = append(problems, "layout.panel_ratio must lie between min_ratio and max_ratio")
	}
	return problems
}

func validateBrowser(cfg *Config) []string {
	var problems []string
	b := cfg.Browser
	if b.FollowDebounceMs < 0 {
		problems = append(problems, "browser.follow_debounce_ms must be non-negative")
	}
	if b.WatchDebounceMs < 0 {
		problems = append(problems, "browser.watch_debounce_ms must be non-negative")
	}
	if b.MaxConcurrentReads < 1 {
		problems = append(problems, "browser.max_concurrent_reads must be at least 1")
	}
	return problems
}

func validateHotkeys(cfg *Config) []string {
	var problems []string
	seen := make(map[input.Chord]string)
	for _, b := range cfg.Hotkeys.pairs() {
		chord, action := b.chord, b.action
		if chord == "" {
			continue
		}
		parsed, ok := input.ParseChord(chord)
		if !ok {
			problems = append(problems, fmt.Sprintf("hotkeys.%s: cannot parse %q", strings.ReplaceAll(action, "-", "_"), chord))
			continue
		}
		if other, dup := seen[parsed]; dup {
			problems = append(problems, fmt.Sprintf("hotkeys: %q is bound to both %s and %s", chord, other, action))
			continue
		}
		seen[parsed] = action
	}
	return problems
}
