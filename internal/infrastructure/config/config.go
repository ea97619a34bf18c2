// Package config loads termdeck's TOML configuration through viper.
package config

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config represents the complete configuration for termdeck.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal" toml:"terminal" json:"terminal"`
	Layout   LayoutConfig   `mapstructure:"layout" yaml:"layout" toml:"layout" json:"layout"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser" toml:"browser" json:"browser"`
	Viewer   ViewerConfig   `mapstructure:"viewer" yaml:"viewer" toml:"viewer" json:"viewer"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session" toml:"session" json:"session"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database" toml:"database" json:"database"`
	Hotkeys  HotkeysConfig  `mapstructure:"hotkeys" yaml:"hotkeys" toml:"hotkeys" json:"hotkeys"`
	// TickIntervalMs is the period of the workspace tick driving the window.
	TickIntervalMs int `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms" toml:"tick_interval_ms" json:"tick_interval_ms" jsonschema:"minimum=5,maximum=1000"`
	// OnLastPaneClosed decides what happens when the last pane closes.
	OnLastPaneClosed LastPaneAction `mapstructure:"on_last_pane_closed" yaml:"on_last_pane_closed" toml:"on_last_pane_closed" json:"on_last_pane_closed" jsonschema:"enum=quit,enum=respawn"`
}

// LastPaneAction selects the behavior when the window becomes empty.
type LastPaneAction string

const (
	LastPaneQuit    LastPaneAction = "quit"
	LastPaneRespawn LastPaneAction = "respawn"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// File overrides the log file used while the workspace owns the terminal.
	File string `mapstructure:"file" yaml:"file" toml:"file" json:"file,omitempty"`
	// MaxSizeMB rotates the log file once it grows past this size.
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
}

// TerminalConfig configures the shells started in terminal panes.
type TerminalConfig struct {
	// Shell defaults to $SHELL, then /bin/sh.
	Shell     string   `mapstructure:"shell" yaml:"shell" toml:"shell" json:"shell,omitempty"`
	ShellArgs []string `mapstructure:"shell_args" yaml:"shell_args" toml:"shell_args" json:"shell_args,omitempty"`
	// Term is exported as TERM to the shell.
	Term       string `mapstructure:"term" yaml:"term" toml:"term" json:"term"`
	Scrollback int    `mapstructure:"scrollback" yaml:"scrollback" toml:"scrollback" json:"scrollback" jsonschema:"minimum=0"`
	// InputQueue bounds the writes waiting for the shell.
	InputQueue int `mapstructure:"input_queue" yaml:"input_queue" toml:"input_queue" json:"input_queue" jsonschema:"minimum=1"`
}

// LayoutConfig configures the split tree.
type LayoutConfig struct {
	MinRatio     float64 `mapstructure:"min_ratio" yaml:"min_ratio" toml:"min_ratio" json:"min_ratio"`
	MaxRatio     float64 `mapstructure:"max_ratio" yaml:"max_ratio" toml:"max_ratio" json:"max_ratio"`
	BorderMargin int     `mapstructure:"border_margin" yaml:"border_margin" toml:"border_margin" json:"border_margin" jsonschema:"minimum=1"`
	// ViewerPolicy is the compression policy while a file viewer is open.
	ViewerPolicy      string  `mapstructure:"viewer_policy" yaml:"viewer_policy" toml:"viewer_policy" json:"viewer_policy" jsonschema:"enum=stored,enum=shrink,enum=collapse"`
	ShrinkShare       float64 `mapstructure:"shrink_share" yaml:"shrink_share" toml:"shrink_share" json:"shrink_share"`
	CollapseIndicator int     `mapstructure:"collapse_indicator" yaml:"collapse_indicator" toml:"collapse_indicator" json:"collapse_indicator"`
	// PinFocus keeps the focused pane's origin fixed when a sibling closes.
	PinFocus   bool    `mapstructure:"pin_focus" yaml:"pin_focus" toml:"pin_focus" json:"pin_focus"`
	PanelRatio float64 `mapstructure:"panel_ratio" yaml:"panel_ratio" toml:"panel_ratio" json:"panel_ratio"`
}

// BrowserConfig configures the directory browser panel.
type BrowserConfig struct {
	ShowHidden bool `mapstructure:"show_hidden" yaml:"show_hidden" toml:"show_hidden" json:"show_hidden"`
	// FollowCwd moves the browser root to the focused terminal's directory.
	FollowCwd          bool `mapstructure:"follow_cwd" yaml:"follow_cwd" toml:"follow_cwd" json:"follow_cwd"`
	FollowDebounceMs   int  `mapstructure:"follow_debounce_ms" yaml:"follow_debounce_ms" toml:"follow_debounce_ms" json:"follow_debounce_ms" jsonschema:"minimum=0"`
	PollIntervalMs     int  `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms" toml:"poll_interval_ms" json:"poll_interval_ms"`
	WatchDebounceMs    int  `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms" toml:"watch_debounce_ms" json:"watch_debounce_ms" jsonschema:"minimum=0"`
	MaxConcurrentReads int  `mapstructure:"max_concurrent_reads" yaml:"max_concurrent_reads" toml:"max_concurrent_reads" json:"max_concurrent_reads" jsonschema:"minimum=1"`
}

// ViewerConfig configures the read-only file viewer.
type ViewerConfig struct {
	// MaxFileSize is the number of bytes read before the view is truncated.
	MaxFileSize int64 `mapstructure:"max_file_size" yaml:"max_file_size" toml:"max_file_size" json:"max_file_size" jsonschema:"minimum=1"`
}

// SessionConfig controls layout persistence.
type SessionConfig struct {
	// Restore reopens the most recently saved layout on startup.
	Restore            bool `mapstructure:"restore" yaml:"restore" toml:"restore" json:"restore"`
	SnapshotIntervalMs int  `mapstructure:"snapshot_interval_ms" yaml:"snapshot_interval_ms" toml:"snapshot_interval_ms" json:"snapshot_interval_ms" jsonschema:"minimum=0"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/termdeck/termdeck.db.
	Path string `mapstructure:"path" yaml:"path" toml:"path" json:"path,omitempty"`
}

// HotkeysConfig binds each workspace action to a chord like "alt+s".
// An empty chord leaves the action unbound.
type HotkeysConfig struct {
	Split         string `mapstructure:"split" yaml:"split" toml:"split" json:"split"`
	SplitVertical string `mapstructure:"split_vertical" yaml:"split_vertical" toml:"split_vertical" json:"split_vertical"`
	Close         string `mapstructure:"close" yaml:"close" toml:"close" json:"close"`
	TogglePanel   string `mapstructure:"toggle_panel" yaml:"toggle_panel" toml:"toggle_panel" json:"toggle_panel"`
	CycleFocus    string `mapstructure:"cycle_focus" yaml:"cycle_focus" toml:"cycle_focus" json:"cycle_focus"`
	SwapNext      string `mapstructure:"swap_next" yaml:"swap_next" toml:"swap_next" json:"swap_next"`
	Quit          string `mapstructure:"quit" yaml:"quit" toml:"quit" json:"quit"`
}

type binding struct{ chord, action string }

func (h HotkeysConfig) pairs() []binding {
	return []binding{
		{h.Split, "split"},
		{h.SplitVertical, "split-vertical"},
		{h.Close, "close"},
		{h.TogglePanel, "toggle-panel"},
		{h.CycleFocus, "cycle-focus"},
		{h.SwapNext, "swap-next"},
		{h.Quit, "quit"},
	}
}

// Bindings returns the chord → action table the input router is built from.
func (h HotkeysConfig) Bindings() map[string]string {
	out := make(map[string]string)
	for _, p := range h.pairs() {
		if p.chord != "" {
			out[p.chord] = p.action
		}
	}
	return out
}
