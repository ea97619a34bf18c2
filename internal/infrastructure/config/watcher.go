package config

import (
	"github.com/bnema/termdeck/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration when the file changes and notifies the
// registered callbacks. An invalid edit keeps the previous configuration.
func (m *Manager) Watch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")

		m.mu.Lock()
		if err := m.reload(); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("failed to reload config")
			return
		}
		m.notifyCallbacksLocked()
	})
	m.viper.WatchConfig()
	m.watching = true
}

// notifyCallbacksLocked releases m.mu before running the callbacks so they
// may call Get. Must be called with m.mu held for write.
func (m *Manager) notifyCallbacksLocked() {
	cfg := m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// OnConfigChange registers a callback run after every successful reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}
