// Package xdg resolves termdeck's XDG base directories.
package xdg

import (
	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/infrastructure/config"
)

// Adapter implements port.XDGPaths using config.GetXDGDirs().
type Adapter struct{}

// New creates a new XDG paths adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) dirs() (*config.XDGDirs, error) {
	return config.GetXDGDirs()
}

func (a *Adapter) ConfigDir() (string, error) {
	d, err := a.dirs()
	if err != nil {
		return "", err
	}
	return d.ConfigHome, nil
}

func (a *Adapter) DataDir() (string, error) {
	d, err := a.dirs()
	if err != nil {
		return "", err
	}
	return d.DataHome, nil
}

func (a *Adapter) StateDir() (string, error) {
	d, err := a.dirs()
	if err != nil {
		return "", err
	}
	return d.StateHome, nil
}

func (a *Adapter) CacheDir() (string, error) {
	d, err := a.dirs()
	if err != nil {
		return "", err
	}
	return d.CacheHome, nil
}

var _ port.XDGPaths = (*Adapter)(nil)
