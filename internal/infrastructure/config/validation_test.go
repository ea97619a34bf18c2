package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Defaults(t *testing.T) {
	require.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "min ratio", mutate: func(c *Config) { c.Layout.MinRatio = 0 }, field: "layout.min_ratio"},
		{name: "max ratio", mutate: func(c *Config) { c.Layout.MaxRatio = 1 }, field: "layout.max_ratio"},
		{name: "viewer policy", mutate: func(c *Config) { c.Layout.ViewerPolicy = "zoom" }, field: "layout.viewer_policy"},
		{name: "panel ratio", mutate: func(c *Config) { c.Layout.PanelRatio = 0.99 }, field: "layout.panel_ratio"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, field: "logging.level"},
		{name: "input queue", mutate: func(c *Config) { c.Terminal.InputQueue = 0 }, field: "terminal.input_queue"},
		{name: "reads", mutate: func(c *Config) { c.Browser.MaxConcurrentReads = 0 }, field: "browser.max_concurrent_reads"},
		{name: "file size", mutate: func(c *Config) { c.Viewer.MaxFileSize = 0 }, field: "viewer.max_file_size"},
		{name: "tick", mutate: func(c *Config) { c.TickIntervalMs = 1 }, field: "tick_interval_ms"},
		{name: "last pane", mutate: func(c *Config) { c.OnLastPaneClosed = "explode" }, field: "on_last_pane_closed"},
		{name: "bad chord", mutate: func(c *Config) { c.Hotkeys.Close = "alt+" }, field: "hotkeys.close"},
		{name: "duplicate chord", mutate: func(c *Config) { c.Hotkeys.Close = "alt+s" }, field: "is bound to both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateConfig_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.BorderMargin = 0
	cfg.Terminal.Scrollback = -1

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout.border_margin")
	assert.Contains(t, err.Error(), "terminal.scrollback")
}

func TestHotkeysConfig_Bindings(t *testing.T) {
	h := DefaultConfig().Hotkeys
	h.SwapNext = ""

	b := h.Bindings()
	assert.Equal(t, "split-vertical", b["alt+v"])
	assert.Equal(t, "toggle-panel", b["alt+e"])
	assert.NotContains(t, b, "alt+x")
	assert.Len(t, b, 6)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "on_last_pane_closed")
	assert.Contains(t, string(data), "follow_debounce_ms")
}
