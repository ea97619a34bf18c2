package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "termdeck"
	databaseName = "termdeck.db"
	logName      = "termdeck.log"
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
	CacheHome  string
}

// GetXDGDirs returns the termdeck directories under the XDG base directories,
// falling back to ~/.config, ~/.local/share, ~/.local/state and ~/.cache.
// With ENV=dev everything lives under ./.dev/termdeck.
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, DataHome: devDir, StateHome: devDir, CacheHome: devDir}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	base := func(env string, fallback ...string) string {
		dir := os.Getenv(env)
		if dir == "" {
			dir = filepath.Join(append([]string{home}, fallback...)...)
		}
		return filepath.Join(dir, appName)
	}

	return &XDGDirs{
		ConfigHome: base("XDG_CONFIG_HOME", ".config"),
		DataHome:   base("XDG_DATA_HOME", ".local", "share"),
		StateHome:  base("XDG_STATE_HOME", ".local", "state"),
		CacheHome:  base("XDG_CACHE_HOME", ".cache"),
	}, nil
}

// GetConfigDir returns the XDG config directory for termdeck.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetConfigFile returns the path to the main configuration file.
func GetConfigFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// GetDatabaseFile returns the default layout database path.
func GetDatabaseFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.DataHome, databaseName), nil
}

// GetLogFile returns the default log file. Logs are state, not data.
func GetLogFile() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, logName), nil
}

// EnsureDirectories creates the config, data and state directories.
func EnsureDirectories() error {
	dirs, err := GetXDGDirs()
	if err != nil {
		return err
	}
	for _, dir := range []string{dirs.ConfigHome, dirs.DataHome, dirs.StateHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
