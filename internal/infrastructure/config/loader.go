package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const envPrefix = "TERMDECK"

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	file      string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager. An empty configFile selects
// $XDG_CONFIG_HOME/termdeck/config.toml.
func NewManager(configFile string) (*Manager, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")

	// TERMDECK_LAYOUT_MIN_RATIO overrides layout.min_ratio and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "TERMDECK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TERMDECK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TERMDECK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TERMDECK_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v, file: configFile}, nil
}

// Load reads the configuration file, creating it with defaults on first run,
// and applies environment overrides.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.file, err)
	}

	if err := m.createDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w\nTry creating the directory manually or check permissions", m.file, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

// reload rebuilds m.config from viper. Must be called with m.mu held.
func (m *Manager) reload() error {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches", m.file, err)
	}
	if err := ensureDatabasePath(cfg); err != nil {
		return err
	}
	normalizeConfig(cfg)

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = cfg
	return nil
}

func ensureDatabasePath(cfg *Config) error {
	if cfg.Database.Path != "" {
		return nil
	}
	path, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	cfg.Database.Path = path
	return nil
}

func normalizeConfig(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Layout.ViewerPolicy = strings.ToLower(strings.TrimSpace(cfg.Layout.ViewerPolicy))
	cfg.Terminal.Shell = strings.TrimSpace(cfg.Terminal.Shell)

	switch LastPaneAction(strings.ToLower(string(cfg.OnLastPaneClosed))) {
	case "", LastPaneQuit:
		cfg.OnLastPaneClosed = LastPaneQuit
	case LastPaneRespawn:
		cfg.OnLastPaneClosed = LastPaneRespawn
	}
	if cfg.Layout.ViewerPolicy == "" {
		cfg.Layout.ViewerPolicy = defaultViewerPolicy
	}
	if cfg.Terminal.Shell == "" {
		cfg.Terminal.Shell = DefaultConfig().Terminal.Shell
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	cfg := *m.config
	cfg.Terminal.ShellArgs = append([]string(nil), m.config.Terminal.ShellArgs...)
	return &cfg
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	return m.file
}

func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(filepath.Dir(m.file), dirPerm); err != nil {
		return err
	}
	if err := m.viper.SafeWriteConfigAs(m.file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return GenerateSchemaFile(filepath.Join(filepath.Dir(m.file), schemaFileName))
}

// setDefaults registers every default with viper so environment overrides
// and the generated config file cover all keys.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)

	m.viper.SetDefault("terminal.shell", d.Terminal.Shell)
	m.viper.SetDefault("terminal.shell_args", d.Terminal.ShellArgs)
	m.viper.SetDefault("terminal.term", d.Terminal.Term)
	m.viper.SetDefault("terminal.scrollback", d.Terminal.Scrollback)
	m.viper.SetDefault("terminal.input_queue", d.Terminal.InputQueue)

	m.viper.SetDefault("layout.min_ratio", d.Layout.MinRatio)
	m.viper.SetDefault("layout.max_ratio", d.Layout.MaxRatio)
	m.viper.SetDefault("layout.border_margin", d.Layout.BorderMargin)
	m.viper.SetDefault("layout.viewer_policy", d.Layout.ViewerPolicy)
	m.viper.SetDefault("layout.shrink_share", d.Layout.ShrinkShare)
	m.viper.SetDefault("layout.collapse_indicator", d.Layout.CollapseIndicator)
	m.viper.SetDefault("layout.pin_focus", d.Layout.PinFocus)
	m.viper.SetDefault("layout.panel_ratio", d.Layout.PanelRatio)

	m.viper.SetDefault("browser.show_hidden", d.Browser.ShowHidden)
	m.viper.SetDefault("browser.follow_cwd", d.Browser.FollowCwd)
	m.viper.SetDefault("browser.follow_debounce_ms", d.Browser.FollowDebounceMs)
	m.viper.SetDefault("browser.poll_interval_ms", d.Browser.PollIntervalMs)
	m.viper.SetDefault("browser.watch_debounce_ms", d.Browser.WatchDebounceMs)
	m.viper.SetDefault("browser.max_concurrent_reads", d.Browser.MaxConcurrentReads)

	m.viper.SetDefault("viewer.max_file_size", d.Viewer.MaxFileSize)

	m.viper.SetDefault("session.restore", d.Session.Restore)
	m.viper.SetDefault("session.snapshot_interval_ms", d.Session.SnapshotIntervalMs)

	// database.path is resolved in reload so the default tracks XDG_DATA_HOME.
	m.viper.SetDefault("database.path", "")

	m.viper.SetDefault("hotkeys.split", d.Hotkeys.Split)
	m.viper.SetDefault("hotkeys.split_vertical", d.Hotkeys.SplitVertical)
	m.viper.SetDefault("hotkeys.close", d.Hotkeys.Close)
	m.viper.SetDefault("hotkeys.toggle_panel", d.Hotkeys.TogglePanel)
	m.viper.SetDefault("hotkeys.cycle_focus", d.Hotkeys.CycleFocus)
	m.viper.SetDefault("hotkeys.swap_next", d.Hotkeys.SwapNext)
	m.viper.SetDefault("hotkeys.quit", d.Hotkeys.Quit)

	m.viper.SetDefault("tick_interval_ms", d.TickIntervalMs)
	m.viper.SetDefault("on_last_pane_closed", string(d.OnLastPaneClosed))
}
