package config

import "os"

// Default configuration constants
const (
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	defaultLogMaxSizeMB = 10

	defaultTerm       = "xterm-256color"
	defaultScrollback = 5000  // lines
	defaultInputQueue = 256   // writes
	defaultShell      = "/bin/sh"

	defaultMinRatio          = 0.05
	defaultMaxRatio          = 0.95
	defaultBorderMargin      = 1
	defaultViewerPolicy      = "stored"
	defaultShrinkShare       = 0.2
	defaultCollapseIndicator = 1
	defaultPanelRatio        = 0.25

	defaultFollowDebounceMs   = 150
	defaultPollIntervalMs     = 500
	defaultWatchDebounceMs    = 200
	defaultMaxConcurrentReads = 4

	defaultMaxFileSize        = 1 << 20 // 1 MiB
	defaultSnapshotIntervalMs = 2000
	defaultTickIntervalMs     = 16
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = defaultShell
	}

	return &Config{
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			Format:    defaultLogFormat,
			MaxSizeMB: defaultLogMaxSizeMB,
		},
		Terminal: TerminalConfig{
			Shell:      shell,
			Term:       defaultTerm,
			Scrollback: defaultScrollback,
			InputQueue: defaultInputQueue,
		},
		Layout: LayoutConfig{
			MinRatio:          defaultMinRatio,
			MaxRatio:          defaultMaxRatio,
			BorderMargin:      defaultBorderMargin,
			ViewerPolicy:      defaultViewerPolicy,
			ShrinkShare:       defaultShrinkShare,
			CollapseIndicator: defaultCollapseIndicator,
			PanelRatio:        defaultPanelRatio,
		},
		Browser: BrowserConfig{
			FollowCwd:          true,
			FollowDebounceMs:   defaultFollowDebounceMs,
			PollIntervalMs:     defaultPollIntervalMs,
			WatchDebounceMs:    defaultWatchDebounceMs,
			MaxConcurrentReads: defaultMaxConcurrentReads,
		},
		Viewer: ViewerConfig{
			MaxFileSize: defaultMaxFileSize,
		},
		Session: SessionConfig{
			Restore:            true,
			SnapshotIntervalMs: defaultSnapshotIntervalMs,
		},
		Hotkeys: HotkeysConfig{
			Split:         "alt+s",
			SplitVertical: "alt+v",
			Close:         "alt+w",
			TogglePanel:   "alt+e",
			CycleFocus:    "alt+o",
			SwapNext:      "alt+x",
			Quit:          "alt+q",
		},
		TickIntervalMs:   defaultTickIntervalMs,
		OnLastPaneClosed: LastPaneQuit,
	}
}
